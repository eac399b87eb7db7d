package layout

import (
	"fmt"
	"image"
	"strings"

	"github.com/docsight/reportkit/analysis"
	"github.com/docsight/reportkit/observability"
)

// SectionImage is the resolved outcome of loading one trailing image
// section. A nil Image with a nil Err means no reference was supplied.
type SectionImage struct {
	Image image.Image
	Err   error
}

// SectionImages carries both trailing full-page images, already fetched and
// decoded by the caller: the engine itself never touches the network.
type SectionImages struct {
	WordCloud SectionImage
	MindMap   SectionImage
}

// ComposeReport draws the whole report in section order: title block, global
// summary, expansions, aggregated keywords, a forced break, the per-page
// summaries, then one fresh page per trailing image section. Every
// PageSummary renders exactly once, in input order, whatever its
// classification or skipped state.
func (e *Engine) ComposeReport(p *analysis.Payload, imgs SectionImages) error {
	if e.surface == nil {
		if err := e.newPage(); err != nil {
			return err
		}
	}

	if err := e.composeTitle(p); err != nil {
		return err
	}
	if err := e.composeGlobalSummary(p); err != nil {
		return err
	}
	if err := e.composeExpansions(p); err != nil {
		return err
	}
	if err := e.composeKeywords(p); err != nil {
		return err
	}
	if err := e.breakPage(); err != nil {
		return err
	}
	if err := e.composePageSummaries(p); err != nil {
		return err
	}
	if err := e.composeImageSection(e.labels.WordCloud, imgs.WordCloud); err != nil {
		return err
	}
	return e.composeImageSection(e.labels.MindMap, imgs.MindMap)
}

// composeTitle draws the report title, document title, and metadata line.
// Page 1 always starts empty, so no overflow handling here.
func (e *Engine) composeTitle(p *analysis.Payload) error {
	if err := e.drawParagraph(e.labels.ReportTitle, ParagraphOptions{
		Face:        e.faces.title,
		Color:       colorAccent,
		TrailingGap: headingGap,
	}, nil); err != nil {
		return err
	}

	doc := strings.TrimSpace(p.Title)
	if doc == "" {
		doc = e.labels.UntitledDoc
	}
	if err := e.drawParagraph(doc, ParagraphOptions{Face: e.faces.heading}, nil); err != nil {
		return err
	}

	var parts []string
	if lang := analysis.LanguageLabel(p.Language); lang != "" {
		parts = append(parts, lang)
	}
	if p.PageCount > 0 {
		parts = append(parts, fmt.Sprintf(e.labels.PagesFmt, p.PageCount))
	}
	if len(parts) > 0 {
		if err := e.drawParagraph(strings.Join(parts, e.labels.MetaSeparator), ParagraphOptions{
			Face:        e.faces.small,
			Color:       colorMuted,
			TrailingGap: sectionGap,
		}, nil); err != nil {
			return err
		}
	} else {
		e.cursorY += sectionGap
	}
	return nil
}

func (e *Engine) composeGlobalSummary(p *analysis.Payload) error {
	if err := e.drawHeading(e.labels.GlobalSummary, e.faces.heading); err != nil {
		return err
	}
	bullets := analysis.NormalizeBullets(p.Summary.Bullets)
	if len(bullets) == 0 {
		if err := e.mutedParagraph(e.labels.NoData, sectionGap); err != nil {
			return err
		}
		return nil
	}
	if err := e.drawBullets(bullets, BulletOptions{}, nil); err != nil {
		return err
	}
	e.cursorY += sectionGap
	return nil
}

// composeExpansions draws the three expansion fields in fixed order; an
// empty field renders its placeholder, never nothing.
func (e *Engine) composeExpansions(p *analysis.Payload) error {
	fields := []struct {
		label string
		text  string
	}{
		{e.labels.KeyConclusions, p.Summary.Expansions.KeyConclusions},
		{e.labels.CoreData, p.Summary.Expansions.CoreData},
		{e.labels.RisksActions, p.Summary.Expansions.RisksActions},
	}
	for _, f := range fields {
		if err := e.drawHeading(f.label, e.faces.subheading); err != nil {
			return err
		}
		text := strings.TrimSpace(analysis.PlainText(f.text))
		if text == "" {
			if err := e.mutedParagraph(e.labels.NoData, blockSpacer); err != nil {
				return err
			}
			continue
		}
		if err := e.drawParagraph(text, ParagraphOptions{TrailingGap: blockSpacer}, nil); err != nil {
			return err
		}
	}
	e.cursorY += sectionGap - blockSpacer
	return nil
}

func (e *Engine) composeKeywords(p *analysis.Payload) error {
	if err := e.drawHeading(e.labels.Keywords, e.faces.heading); err != nil {
		return err
	}
	if len(p.Keywords) == 0 {
		return e.mutedParagraph(e.labels.NoData, sectionGap)
	}
	return e.drawParagraph(strings.Join(p.Keywords, e.labels.KeywordJoiner), ParagraphOptions{
		TrailingGap: sectionGap,
	}, nil)
}

// composePageSummaries renders the per-page section. The section heading is
// reprinted at the top of every continuation page through the overflow
// callbacks handed to each block renderer.
func (e *Engine) composePageSummaries(p *analysis.Payload) error {
	reprint := func() error {
		return e.drawParagraph(e.labels.PerPage, ParagraphOptions{
			Face:        e.faces.heading,
			Color:       colorAccent,
			TrailingGap: headingGap,
		}, nil)
	}
	if err := reprint(); err != nil {
		return err
	}

	if len(p.Pages) == 0 {
		return e.mutedParagraph(e.labels.NoData, blockSpacer)
	}

	for _, pg := range p.Pages {
		head := fmt.Sprintf(e.labels.PageFmt, pg.PageNumber)
		if pg.Skipped && pg.SkipReason != "" {
			head += " " + e.labels.SkippedMarker
		} else {
			head += e.labels.ClassSeparator + pg.Classification.Label()
		}
		// EnsureSpace can start a continuation page itself, so the reprint
		// has to run here too, not only in the block renderers' callbacks.
		before := e.pageNum
		if err := e.EnsureSpace(e.lineHeightFor(e.faces.subheading) + 2*e.lineHeightFor(e.faces.body)); err != nil {
			return err
		}
		if e.pageNum != before {
			if err := reprint(); err != nil {
				return err
			}
		}
		if err := e.drawParagraph(head, ParagraphOptions{
			Face: e.faces.subheading,
		}, reprint); err != nil {
			return err
		}

		bullets := analysis.NormalizeBullets(pg.Bullets)
		if len(bullets) == 0 {
			if err := e.mutedParagraphOverflow(e.labels.NoData, defaultTrailingGap, reprint); err != nil {
				return err
			}
		} else if err := e.drawBullets(bullets, BulletOptions{}, reprint); err != nil {
			return err
		}

		if len(pg.Keywords) > 0 {
			line := e.labels.KeywordsPrefix + strings.Join(pg.Keywords, e.labels.KeywordJoiner)
			if err := e.mutedParagraphOverflow(line, defaultTrailingGap, reprint); err != nil {
				return err
			}
		}

		if pg.Skipped && pg.SkipReason != "" {
			if err := e.mutedParagraphOverflow(pg.SkipReason, blockSpacer, reprint); err != nil {
				return err
			}
		} else {
			e.cursorY += blockSpacer
		}
		e.log.Debug("page summary rendered",
			observability.Int("source_page", pg.PageNumber),
			observability.String("class", string(pg.Classification)))
	}
	return nil
}

// composeImageSection renders one trailing full-page image section on a
// fresh page: heading, then the image scale-fit into the remaining content
// area, or a placeholder / inline error. A load failure never aborts the
// rest of the document.
func (e *Engine) composeImageSection(title string, si SectionImage) error {
	if e.cursorY > e.margins.Top {
		if err := e.breakPage(); err != nil {
			return err
		}
	}
	if err := e.drawHeading(title, e.faces.heading); err != nil {
		return err
	}

	switch {
	case si.Err != nil:
		e.log.Warn("image section failed", observability.String("section", title), observability.Error("error", si.Err))
		return e.drawParagraph(fmt.Sprintf(e.labels.ImageErrorFmt, si.Err), ParagraphOptions{
			Color: colorError,
		}, nil)
	case si.Image == nil:
		return e.mutedParagraph(e.labels.NoImage, blockSpacer)
	}

	b := si.Image.Bounds()
	maxW := int(e.contentWidth())
	maxH := int(e.bottom() - e.cursorY)
	w, h, scale := e.fitImage(b.Dx(), b.Dy(), maxW, maxH)
	if w == 0 || h == 0 {
		return e.mutedParagraph(e.labels.NoImage, blockSpacer)
	}
	x := e.margins.Left + (e.contentWidth()-float64(w))/2
	e.surface.DrawImage(si.Image, int(x), int(e.cursorY), w, h)
	e.cursorY += float64(h)
	e.log.Debug("image section rendered",
		observability.String("section", title),
		observability.Int("width", w),
		observability.Int("height", h),
		observability.Float64("scale", scale))
	return nil
}

func (e *Engine) mutedParagraph(text string, gap float64) error {
	return e.drawParagraph(text, ParagraphOptions{
		Face:        e.faces.small,
		Color:       colorMuted,
		TrailingGap: gap,
	}, nil)
}

func (e *Engine) mutedParagraphOverflow(text string, gap float64, onOverflow overflowFunc) error {
	return e.drawParagraph(text, ParagraphOptions{
		Face:        e.faces.small,
		Color:       colorMuted,
		TrailingGap: gap,
	}, onOverflow)
}
