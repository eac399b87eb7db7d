package raster

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font/basicfont"
)

func TestNew(t *testing.T) {
	s, err := New(120, 80)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Width() != 120 || s.Height() != 80 {
		t.Errorf("size = %dx%d, want 120x80", s.Width(), s.Height())
	}
	if got := s.Image().RGBAAt(60, 40); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("fresh surface pixel = %v, want white", got)
	}
}

func TestNew_InvalidSize(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 10}, {10, -1}} {
		if _, err := New(dims[0], dims[1]); err == nil {
			t.Errorf("New(%d, %d) = nil error, want failure", dims[0], dims[1])
		}
	}
}

func TestDrawText(t *testing.T) {
	s, err := New(100, 40)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.DrawText("Hi", 5, 20, basicfont.Face7x13, color.Black)
	if !hasInk(s.Image()) {
		t.Errorf("DrawText left the surface blank")
	}
}

func TestFillRect_ClipsToBounds(t *testing.T) {
	s, err := New(50, 50)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.FillRect(image.Rect(40, 40, 200, 200), color.Black)
	if got := s.Image().RGBAAt(45, 45); got != (color.RGBA{0, 0, 0, 0xff}) {
		t.Errorf("in-bounds pixel = %v, want black", got)
	}
}

func TestDrawImage_ExactSizeAndScaled(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.SetRGBA(x, y, color.RGBA{0xff, 0, 0, 0xff})
		}
	}

	s, err := New(40, 40)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.DrawImage(src, 0, 0, 10, 10)
	if got := s.Image().RGBAAt(5, 5); got != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("direct draw pixel = %v, want red", got)
	}

	s2, err := New(40, 40)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s2.DrawImage(src, 0, 0, 20, 20)
	if got := s2.Image().RGBAAt(10, 10); got.R < 0x80 {
		t.Errorf("scaled draw pixel = %v, want predominantly red", got)
	}
	if got := s2.Image().RGBAAt(30, 30); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("pixel outside the target box = %v, want untouched white", got)
	}
}

func TestMeasure(t *testing.T) {
	one := Measure(basicfont.Face7x13, "a")
	if one != 7 {
		t.Fatalf("Measure(\"a\") = %v, want 7", one)
	}
	if got := Measure(basicfont.Face7x13, "abcd"); got != 4*one {
		t.Errorf("Measure(\"abcd\") = %v, want %v", got, 4*one)
	}
	if got := Measure(basicfont.Face7x13, ""); got != 0 {
		t.Errorf("Measure(\"\") = %v, want 0", got)
	}
}

func TestLineHeightAndAscent(t *testing.T) {
	if got := Ascent(basicfont.Face7x13); got != 11 {
		t.Errorf("Ascent = %v, want 11", got)
	}
	if got := LineHeight(basicfont.Face7x13); got != 13 {
		t.Errorf("LineHeight = %v, want 13", got)
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, maxW, maxH int
		wantW, wantH           int
		wantScale              float64
	}{
		{"wide image limited by width", 200, 100, 100, 100, 100, 50, 0.5},
		{"tall image limited by height", 100, 200, 100, 100, 50, 100, 0.5},
		{"small image never upscaled", 40, 30, 100, 100, 40, 30, 1},
		{"exact fit", 100, 100, 100, 100, 100, 100, 1},
	}
	for _, tt := range tests {
		w, h, scale := FitRect(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH || scale != tt.wantScale {
			t.Errorf("%s: FitRect = (%d, %d, %v), want (%d, %d, %v)",
				tt.name, w, h, scale, tt.wantW, tt.wantH, tt.wantScale)
		}
	}
}

func TestFitRect_DegenerateInput(t *testing.T) {
	if w, h, scale := FitRect(0, 10, 100, 100); w != 0 || h != 0 || scale != 0 {
		t.Errorf("zero source dimension: got (%d, %d, %v), want zeros", w, h, scale)
	}
	if w, h, _ := FitRect(10000, 1, 100, 100); w < 1 || h < 1 {
		t.Errorf("extreme aspect must keep both dimensions at least 1px, got %dx%d", w, h)
	}
}

func hasInk(img *image.RGBA) bool {
	b := img.Bounds()
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != white {
				return true
			}
		}
	}
	return false
}
