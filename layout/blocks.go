package layout

import (
	"image/color"

	"golang.org/x/image/font"

	"github.com/docsight/reportkit/raster"
)

// ParagraphOptions styles one wrapped text block. Zero values take the
// engine defaults; a negative TrailingGap suppresses the gap entirely.
type ParagraphOptions struct {
	Face        font.Face
	Color       color.Color
	LineHeight  float64
	TrailingGap float64
}

// BulletOptions styles a bullet list. Zero values take the engine defaults.
type BulletOptions struct {
	Face       font.Face
	Color      color.Color
	LineHeight float64
	Spacing    float64
	Indent     float64
}

// overflowFunc runs after a mid-block page break, on the fresh surface, so a
// section can reprint whatever heading it wants repeated.
type overflowFunc func() error

// drawParagraph wraps text to the content width and writes it line by line,
// breaking the page before any line that would cross the bottom boundary.
func (e *Engine) drawParagraph(text string, opts ParagraphOptions, onOverflow overflowFunc) error {
	face := opts.Face
	if face == nil {
		face = e.faces.body
	}
	col := opts.Color
	if col == nil {
		col = colorText
	}
	lh := opts.LineHeight
	if lh == 0 {
		lh = e.lineHeightFor(face)
	}

	lines := Wrap(text, e.contentWidth(), e.measurer(face))
	for _, line := range lines {
		if e.cursorY+lh > e.bottom() {
			if err := e.breakPage(); err != nil {
				return err
			}
			if onOverflow != nil {
				if err := onOverflow(); err != nil {
					return err
				}
			}
		}
		if line != "" {
			e.surface.DrawText(line, e.margins.Left, e.cursorY+raster.Ascent(face), face, col)
		}
		e.cursorY += lh
	}

	gap := opts.TrailingGap
	switch {
	case gap < 0:
		gap = 0
	case gap == 0:
		gap = defaultTrailingGap
	}
	e.cursorY += gap
	return nil
}

func (e *Engine) drawBullets(items []string, opts BulletOptions, onOverflow overflowFunc) error {
	for _, item := range items {
		if err := e.drawBullet(item, opts, onOverflow); err != nil {
			return err
		}
	}
	return nil
}

// drawBullet renders one bullet atomically: the overflow check runs once
// against the bullet's full wrapped height, so its lines never straddle a
// page boundary. When the bullet cannot fit whole — taller than an entire
// empty page, or the overflow callback's reprinted heading left too little
// room on the fresh page — it degrades to per-line breaks instead of
// silently overdrawing the bottom margin.
func (e *Engine) drawBullet(item string, opts BulletOptions, onOverflow overflowFunc) error {
	face := opts.Face
	if face == nil {
		face = e.faces.body
	}
	col := opts.Color
	if col == nil {
		col = colorText
	}
	lh := opts.LineHeight
	if lh == 0 {
		lh = e.lineHeightFor(face)
	}
	indent := opts.Indent
	if indent == 0 {
		indent = defaultBulletIndent
	}
	spacing := opts.Spacing
	if spacing == 0 {
		spacing = defaultBulletSpacing
	}

	lines := Wrap(item, e.contentWidth()-indent, e.measurer(face))
	total := float64(len(lines)) * lh

	if total <= e.contentHeight() {
		if e.cursorY+total > e.bottom() {
			if err := e.breakPage(); err != nil {
				return err
			}
			if onOverflow != nil {
				if err := onOverflow(); err != nil {
					return err
				}
			}
		}
		// Recheck: the callback may have drawn a heading on the fresh page.
		if e.cursorY+total <= e.bottom() {
			e.surface.DrawText(bulletGlyph, e.margins.Left, e.cursorY+raster.Ascent(face), face, col)
			for _, line := range lines {
				if line != "" {
					e.surface.DrawText(line, e.margins.Left+indent, e.cursorY+raster.Ascent(face), face, col)
				}
				e.cursorY += lh
			}
			e.cursorY += spacing
			return nil
		}
	}

	for i, line := range lines {
		if e.cursorY+lh > e.bottom() {
			if err := e.breakPage(); err != nil {
				return err
			}
			if onOverflow != nil {
				if err := onOverflow(); err != nil {
					return err
				}
			}
		}
		if i == 0 {
			e.surface.DrawText(bulletGlyph, e.margins.Left, e.cursorY+raster.Ascent(face), face, col)
		}
		if line != "" {
			e.surface.DrawText(line, e.margins.Left+indent, e.cursorY+raster.Ascent(face), face, col)
		}
		e.cursorY += lh
	}

	e.cursorY += spacing
	return nil
}

// drawHeading writes a section heading, reserving enough space that the
// heading never sits alone at a page bottom.
func (e *Engine) drawHeading(text string, face font.Face) error {
	lh := e.lineHeightFor(face)
	if err := e.EnsureSpace(lh + e.lineHeightFor(e.faces.body)); err != nil {
		return err
	}
	return e.drawParagraph(text, ParagraphOptions{
		Face:        face,
		Color:       colorAccent,
		TrailingGap: headingGap,
	}, nil)
}
