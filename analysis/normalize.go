package analysis

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// LLM backends routinely emit markdown emphasis inside summary bullets even
// when asked for plain text. PlainText flattens inline markdown (emphasis,
// code spans, links) to the underlying text so the raster renderer never
// paints literal asterisks or backticks.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "*_`[~#>") {
		return s
	}

	src := []byte(s)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b strings.Builder
	block := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if n.Type() == ast.TypeBlock {
			if entering {
				if block > 0 {
					b.WriteByte('\n')
				}
				block++
			}
			return ast.WalkContinue, nil
		}
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.CodeSpan:
			b.Write(t.Text(src))
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			b.Write(t.URL(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// NormalizeBullets flattens markdown in each bullet and drops entries that
// normalize to nothing.
func NormalizeBullets(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(PlainText(it)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
