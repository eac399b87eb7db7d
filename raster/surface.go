// Package raster provides the fixed-size pixel surfaces the layout engine
// paints report pages onto. A Surface accumulates draws for exactly one
// output page; once the engine freezes it, nothing writes to it again.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Surface is a single-page drawing target.
type Surface struct {
	img *image.RGBA
}

// New allocates a white surface of the given pixel dimensions. Allocation
// failure (non-positive dimensions) is the fatal surface-acquisition error:
// nothing can render without a page to render onto.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: invalid surface size %dx%d", width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return &Surface{img: img}, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Image exposes the backing image. The layout engine calls this exactly once
// per page, at finalize time, to move the frozen surface into the output
// sequence.
func (s *Surface) Image() *image.RGBA { return s.img }

// DrawText paints one line of text with its baseline at (x, y).
func (s *Surface) DrawText(text string, x, y float64, face font.Face, col color.Color) {
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)},
	}
	d.DrawString(text)
}

// FillRect paints a solid rectangle, clipped to the surface.
func (s *Surface) FillRect(r image.Rectangle, col color.Color) {
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)
}

// DrawImage places src scaled into the w×h box at (x, y). Callers size the
// box with FitRect so the aspect ratio survives; scaling uses Catmull-Rom
// resampling unless the size already matches.
func (s *Surface) DrawImage(src image.Image, x, y, w, h int) {
	b := src.Bounds()
	dst := image.Rect(x, y, x+w, y+h)
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(s.img, dst, src, b.Min, draw.Over)
		return
	}
	xdraw.CatmullRom.Scale(s.img, dst, src, b, xdraw.Over, nil)
}

// Measure returns the advance width of text in pixels for the given face.
func Measure(face font.Face, text string) float64 {
	d := font.Drawer{Face: face}
	return fixedToFloat(d.MeasureString(text))
}

// Ascent returns the face ascent in pixels, the distance from the text top
// to the baseline the engine positions cursor writes with.
func Ascent(face font.Face) float64 {
	return fixedToFloat(face.Metrics().Ascent)
}

// LineHeight returns the face's natural line height (ascent + descent +
// line gap) in pixels.
func LineHeight(face font.Face) float64 {
	return fixedToFloat(face.Metrics().Height)
}

// FitRect computes the drawn size for an image of srcW×srcH inside a
// maxW×maxH box, preserving aspect ratio and never scaling above native
// resolution.
func FitRect(srcW, srcH, maxW, maxH int) (w, h int, scale float64) {
	if srcW <= 0 || srcH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0, 0
	}
	scale = float64(maxW) / float64(srcW)
	if hs := float64(maxH) / float64(srcH); hs < scale {
		scale = hs
	}
	if scale > 1 {
		scale = 1
	}
	w = int(float64(srcW) * scale)
	h = int(float64(srcH) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h, scale
}

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
