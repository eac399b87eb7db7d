package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks text into lines no wider than maxWidth under the given
// measurer. Hard newlines split first and each segment wraps independently;
// consecutive newlines keep their blank line. Wrapping is character by
// character, not word by word: pessimistic for long Latin tokens but correct
// for CJK text with no spaces to break on.
func Wrap(text string, maxWidth float64, measure func(string) float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, seg := range strings.Split(text, "\n") {
		if seg == "" {
			lines = append(lines, "")
			continue
		}
		segStart := len(lines)
		line := ""
		for _, r := range seg {
			candidate := line + string(r)
			// The non-empty guard keeps a single over-wide character on
			// its own line instead of rejecting it forever.
			if measure(candidate) > maxWidth && line != "" {
				lines = append(lines, line)
				if r == ' ' {
					line = ""
				} else {
					line = string(r)
				}
				continue
			}
			line = candidate
		}
		if line != "" || len(lines) == segStart {
			lines = append(lines, line)
		}
	}
	return lines
}

// CellMeasure approximates text width without font metrics: each terminal
// cell is half an em, so CJK runes count double. Deterministic, which also
// makes it the measurer of choice in tests.
func CellMeasure(sizePx float64) func(string) float64 {
	return func(s string) float64 {
		return float64(runewidth.StringWidth(s)) * sizePx / 2
	}
}
