package layout

// Labels holds every user-visible string the composers draw, so CJK
// deployments can localize section headings without forking the engine.
type Labels struct {
	ReportTitle    string
	UntitledDoc    string
	PagesFmt       string // metadata line, e.g. "%d pages"
	MetaSeparator  string
	GlobalSummary  string
	KeyConclusions string
	CoreData       string
	RisksActions   string
	Keywords       string
	KeywordsPrefix string // per-page keyword line prefix
	KeywordJoiner  string
	PerPage        string
	PageFmt        string // per-page heading, e.g. "Page %d"
	ClassSeparator string
	SkippedMarker  string
	NoData         string
	NoImage        string
	ImageErrorFmt  string // e.g. "Image failed to load: %v"
	WordCloud      string
	MindMap        string
}

// DefaultLabels returns the English label set. The keyword joiner stays a
// full-width comma regardless of locale; it reads correctly in both Latin
// and CJK text.
func DefaultLabels() Labels {
	return Labels{
		ReportTitle:    "Document Analysis Report",
		UntitledDoc:    "Untitled document",
		PagesFmt:       "%d pages",
		MetaSeparator:  "  ·  ",
		GlobalSummary:  "Global Summary",
		KeyConclusions: "Key Conclusions",
		CoreData:       "Core Data",
		RisksActions:   "Risks and Actions",
		Keywords:       "Keywords",
		KeywordsPrefix: "Keywords: ",
		KeywordJoiner:  "，",
		PerPage:        "Per-page Highlights",
		PageFmt:        "Page %d",
		ClassSeparator: " · ",
		SkippedMarker:  "(skipped)",
		NoData:         "No data",
		NoImage:        "No image data",
		ImageErrorFmt:  "Image failed to load: %v",
		WordCloud:      "Word Cloud",
		MindMap:        "Mind Map",
	}
}
