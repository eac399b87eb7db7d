package analysis

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"no markdown passes through", "plain revenue figures", "plain revenue figures"},
		{"emphasis stripped", "**bold** and *italic* words", "bold and italic words"},
		{"code span stripped", "run `go build` first", "run go build first"},
		{"link keeps label", "see [the appendix](http://example.com/a)", "see the appendix"},
		{"heading marker stripped", "# Key Findings", "Key Findings"},
		{"strikethrough tildes survive as text", "~0.5% variance", "~0.5% variance"},
		{"blocks joined with newline", "*first* paragraph\n\nsecond paragraph", "first paragraph\nsecond paragraph"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("%s: PlainText(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestNormalizeBullets(t *testing.T) {
	in := []string{"  **trimmed**  ", "", "   ", "kept as-is"}
	want := []string{"trimmed", "kept as-is"}
	if got := NormalizeBullets(in); !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeBullets = %q, want %q", got, want)
	}
	if got := NormalizeBullets(nil); len(got) != 0 {
		t.Errorf("NormalizeBullets(nil) = %q, want empty", got)
	}
}

func TestClassificationLabel(t *testing.T) {
	tests := []struct {
		in   Classification
		want string
	}{
		{ClassNormal, "Normal"},
		{ClassTOC, "Table of Contents"},
		{ClassPureImage, "Image Only"},
		{ClassBlank, "Blank"},
		{ClassCover, "Cover"},
		{Classification("appendix"), "appendix"},
	}
	for _, tt := range tests {
		if got := tt.in.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPayloadDecode(t *testing.T) {
	raw := `{
		"title": "annual-report.pdf",
		"language": "en",
		"page_count": 12,
		"global_summary": {
			"bullets": ["headline"],
			"expansions": {
				"key_conclusions": "kc",
				"core_data": "cd",
				"risks_and_actions": "ra"
			}
		},
		"keywords": ["alpha", "beta"],
		"page_summaries": [
			{"page_number": 1, "classification": "cover", "skipped": true, "skip_reason": "cover page"},
			{"page_number": 2, "classification": "normal", "bullets": ["b1"], "keywords": ["k1"]}
		],
		"wordcloud_image_url": "https://img.example.com/wc.png",
		"mindmap_image_url": "https://img.example.com/mm.png",
		"font_url": "https://fonts.example.com/NotoSansSC.ttf"
	}`
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Title != "annual-report.pdf" || p.PageCount != 12 {
		t.Errorf("header fields = %q/%d", p.Title, p.PageCount)
	}
	if p.Summary.Expansions.RisksActions != "ra" {
		t.Errorf("expansions = %+v", p.Summary.Expansions)
	}
	if len(p.Pages) != 2 {
		t.Fatalf("got %d page summaries, want 2", len(p.Pages))
	}
	if p.Pages[0].Classification != ClassCover || !p.Pages[0].Skipped || p.Pages[0].SkipReason != "cover page" {
		t.Errorf("page 1 = %+v", p.Pages[0])
	}
	if p.WordCloudURL == "" || p.MindMapURL == "" || p.FontURL == "" {
		t.Errorf("asset URLs not decoded: %+v", p)
	}
}

func TestLanguageLabel(t *testing.T) {
	if got := LanguageLabel("en"); got != "English" {
		t.Errorf("LanguageLabel(\"en\") = %q, want English", got)
	}
	if got := LanguageLabel("ja"); got != "Japanese" {
		t.Errorf("LanguageLabel(\"ja\") = %q, want Japanese", got)
	}
	if got := LanguageLabel("not-a-language-tag!"); got != "not-a-language-tag!" {
		t.Errorf("unparseable code must pass through, got %q", got)
	}
	if got := LanguageLabel(""); got != "" {
		t.Errorf("empty code must stay empty, got %q", got)
	}
}
