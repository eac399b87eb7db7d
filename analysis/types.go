// Package analysis defines the value objects produced by the document
// analysis backend and consumed by the report layout engine.
package analysis

// Payload is the fully resolved analysis result for one document. It is
// read-only for the rendering pipeline; all image and font URLs are expected
// to be fetchable by the time the payload is handed over.
type Payload struct {
	Title     string        `json:"title"`
	Language  string        `json:"language,omitempty"`
	PageCount int           `json:"page_count"`
	Summary   GlobalSummary `json:"global_summary"`
	Keywords  []string      `json:"keywords"`
	Pages     []PageSummary `json:"page_summaries"`

	WordCloudURL string `json:"wordcloud_image_url,omitempty"`
	MindMapURL   string `json:"mindmap_image_url,omitempty"`
	FontURL      string `json:"font_url,omitempty"`
}

// GlobalSummary is the document-level summary block. Any field may be empty;
// empty fields render as placeholders, never disappear.
type GlobalSummary struct {
	Bullets    []string   `json:"bullets"`
	Expansions Expansions `json:"expansions"`
}

// Expansions carries the three free-text expansion fields, rendered in this
// fixed order.
type Expansions struct {
	KeyConclusions string `json:"key_conclusions"`
	CoreData       string `json:"core_data"`
	RisksActions   string `json:"risks_and_actions"`
}

// PageSummary is the per-page analysis result. PageNumber follows the source
// document's own pagination and is not necessarily contiguous with the slice
// index.
type PageSummary struct {
	PageNumber     int            `json:"page_number"`
	Classification Classification `json:"classification"`
	Bullets        []string       `json:"bullets"`
	Keywords       []string       `json:"keywords"`
	Skipped        bool           `json:"skipped"`
	SkipReason     string         `json:"skip_reason,omitempty"`
}

// Classification tags a page with the backend classifier's verdict.
type Classification string

const (
	ClassNormal    Classification = "normal"
	ClassTOC       Classification = "toc"
	ClassPureImage Classification = "pure_image"
	ClassBlank     Classification = "blank"
	ClassCover     Classification = "cover"
)

// Label returns a display label for the classification. Tags the classifier
// does not know about pass through verbatim so new backend classes still
// render something meaningful.
func (c Classification) Label() string {
	switch c {
	case ClassNormal:
		return "Normal"
	case ClassTOC:
		return "Table of Contents"
	case ClassPureImage:
		return "Image Only"
	case ClassBlank:
		return "Blank"
	case ClassCover:
		return "Cover"
	}
	return string(c)
}
