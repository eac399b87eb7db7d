// Package fonts loads and caches the typefaces used by the raster layout
// engine. A Collection always has usable regular and bold faces (the bundled
// Go fonts); a custom face fetched at generation time is layered on top when
// the payload provides one.
package fonts

import (
	"bytes"
	"fmt"
	"sync"

	tsfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Source wraps one parsed font and caches faces per pixel size.
type Source struct {
	font *sfnt.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// Parse parses TrueType/OpenType bytes into a Source. The data is validated
// twice: x/image/font/sfnt provides the rasterization path, and
// go-text/typesetting guards against tables sfnt tolerates but downstream
// shaping would choke on.
func Parse(data []byte) (*Source, error) {
	if _, err := tsfont.ParseTTF(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("validate font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Source{font: f}, nil
}

// Face returns a rendering face at the given pixel size. Faces are created
// at 72 DPI so size maps 1:1 to raster pixels, and cached for reuse. A nil
// Source (an empty Collection slot) reports an error rather than panicking.
func (s *Source) Face(sizePx float64) (font.Face, error) {
	if s == nil {
		return nil, fmt.Errorf("no font source loaded")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.faces[sizePx]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face at %gpx: %w", sizePx, err)
	}
	if s.faces == nil {
		s.faces = make(map[float64]font.Face)
	}
	s.faces[sizePx] = f
	return f, nil
}

// Collection holds the typefaces for one report run.
type Collection struct {
	Regular *Source
	Bold    *Source
	Custom  *Source // optional payload-supplied font, preferred when set
}

// DefaultCollection builds a Collection from the bundled Go fonts.
func DefaultCollection() (*Collection, error) {
	reg, err := Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("bundled regular: %w", err)
	}
	bold, err := Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("bundled bold: %w", err)
	}
	return &Collection{Regular: reg, Bold: bold}, nil
}

// Primary returns the face source body text should use: the custom font when
// one was loaded, otherwise the bundled regular.
func (c *Collection) Primary() *Source {
	if c.Custom != nil {
		return c.Custom
	}
	return c.Regular
}

// Heading returns the face source for headings: the custom font when loaded
// (CJK headings need its glyphs), otherwise the bundled bold.
func (c *Collection) Heading() *Source {
	if c.Custom != nil {
		return c.Custom
	}
	return c.Bold
}
