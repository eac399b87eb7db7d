// Package layout renders an analysis payload onto a sequence of fixed-size
// raster pages. The engine owns one mutable surface and a vertical write
// cursor at a time; finished pages are frozen into an append-only sequence
// the document assembler consumes once at the end.
package layout

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"

	"github.com/docsight/reportkit/fonts"
	"github.com/docsight/reportkit/observability"
	"github.com/docsight/reportkit/raster"
)

// Margins defines the page margins in pixels.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Engine composes one report. It is not safe for concurrent use; generate
// concurrent reports with separate engines.
type Engine struct {
	log observability.Logger

	pageW, pageH int
	margins      Margins
	lineHeight   float64 // multiplier over the face's natural height
	baseSize     float64
	labels       Labels

	faces faceSet

	// Render state: the active surface, the vertical write cursor on it,
	// and the 1-based number of the page being composed.
	surface *raster.Surface
	cursorY float64
	pageNum int
	pages   []*image.RGBA
}

type faceSet struct {
	title      font.Face
	heading    font.Face
	subheading font.Face
	body       font.Face
	small      font.Face
}

var (
	colorText   = color.RGBA{R: 0x26, G: 0x2d, B: 0x35, A: 0xff}
	colorMuted  = color.RGBA{R: 0x8b, G: 0x93, B: 0x9c, A: 0xff}
	colorError  = color.RGBA{R: 0xc0, G: 0x3b, B: 0x2e, A: 0xff}
	colorAccent = color.RGBA{R: 0x1f, G: 0x4e, B: 0x79, A: 0xff}
)

const (
	defaultTrailingGap   = 10
	defaultBulletIndent  = 34
	defaultBulletSpacing = 8
	headingGap           = 16
	sectionGap           = 26
	blockSpacer          = 14
	bulletGlyph          = "•"
)

// Option configures an Engine.
type Option func(*Engine)

// WithPageSize sets the raster page size in pixels.
func WithPageSize(width, height int) Option {
	return func(e *Engine) {
		e.pageW = width
		e.pageH = height
	}
}

// WithMargins sets the page margins.
func WithMargins(m Margins) Option {
	return func(e *Engine) { e.margins = m }
}

// WithLineHeight sets the line height multiplier.
func WithLineHeight(mult float64) Option {
	return func(e *Engine) { e.lineHeight = mult }
}

// WithBaseFontSize sets the body text size in pixels; heading sizes scale
// from it.
func WithBaseFontSize(px float64) Option {
	return func(e *Engine) { e.baseSize = px }
}

// WithLabels overrides the section label strings.
func WithLabels(l Labels) Option {
	return func(e *Engine) { e.labels = l }
}

// WithLogger sets the engine logger.
func WithLogger(log observability.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine builds an engine over the given font collection.
func NewEngine(fc *fonts.Collection, opts ...Option) (*Engine, error) {
	e := &Engine{
		log:        observability.NopLogger{},
		pageW:      1190,
		pageH:      1684,
		margins:    Margins{Top: 90, Bottom: 100, Left: 90, Right: 90},
		lineHeight: 1.15,
		baseSize:   28,
		labels:     DefaultLabels(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.buildFaces(fc); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) buildFaces(fc *fonts.Collection) error {
	var err error
	build := func(src *fonts.Source, size float64) font.Face {
		if err != nil {
			return nil
		}
		var f font.Face
		f, err = src.Face(size)
		return f
	}
	e.faces.title = build(fc.Heading(), e.baseSize*1.85)
	e.faces.heading = build(fc.Heading(), e.baseSize*1.3)
	e.faces.subheading = build(fc.Heading(), e.baseSize*1.07)
	e.faces.body = build(fc.Primary(), e.baseSize)
	e.faces.small = build(fc.Primary(), e.baseSize*0.85)
	if err != nil {
		return fmt.Errorf("layout: build faces: %w", err)
	}
	return nil
}

func (e *Engine) bottom() float64       { return float64(e.pageH) - e.margins.Bottom }
func (e *Engine) contentWidth() float64 { return float64(e.pageW) - e.margins.Left - e.margins.Right }

// contentHeight is the usable vertical span of an empty page.
func (e *Engine) contentHeight() float64 { return e.bottom() - e.margins.Top }

func (e *Engine) measurer(face font.Face) func(string) float64 {
	return func(s string) float64 { return raster.Measure(face, s) }
}

func (e *Engine) lineHeightFor(face font.Face) float64 {
	return raster.LineHeight(face) * e.lineHeight
}

// newPage allocates a fresh surface and resets the cursor to the top margin.
func (e *Engine) newPage() error {
	s, err := raster.New(e.pageW, e.pageH)
	if err != nil {
		return fmt.Errorf("layout: acquire surface: %w", err)
	}
	e.surface = s
	e.cursorY = e.margins.Top
	e.pageNum++
	return nil
}

// finalize stamps the footer and freezes the active surface into the page
// sequence. The footer is the last paint on a page; nothing draws on the
// surface afterwards.
func (e *Engine) finalize() {
	if e.surface == nil {
		return
	}
	e.stampFooter()
	e.pages = append(e.pages, e.surface.Image())
	e.surface = nil
	e.log.Debug("page finalized", observability.Int("page", e.pageNum))
}

func (e *Engine) breakPage() error {
	e.finalize()
	return e.newPage()
}

// EnsureSpace finalizes and allocates a new page when fewer than minHeight
// pixels remain above the bottom boundary. Used before headings so a heading
// is never orphaned at a page bottom.
func (e *Engine) EnsureSpace(minHeight float64) error {
	if e.cursorY+minHeight > e.bottom() {
		return e.breakPage()
	}
	return nil
}

func (e *Engine) stampFooter() {
	label := fmt.Sprintf("- %d -", e.pageNum)
	face := e.faces.small
	x := (float64(e.pageW) - raster.Measure(face, label)) / 2
	y := float64(e.pageH) - e.margins.Bottom/2 + raster.Ascent(face)/2
	e.surface.DrawText(label, x, y, face, colorMuted)
}

func (e *Engine) fitImage(srcW, srcH, maxW, maxH int) (int, int, float64) {
	return raster.FitRect(srcW, srcH, maxW, maxH)
}

// Finish finalizes the page being composed and returns the frozen sequence.
func (e *Engine) Finish() []*image.RGBA {
	e.finalize()
	return e.pages
}
