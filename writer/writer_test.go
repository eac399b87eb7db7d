package writer

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"testing"
)

func rasterPage(w, h int, fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	return img
}

func TestBytes_EmptySequence(t *testing.T) {
	if _, err := Bytes(nil, Config{}); !errors.Is(err, ErrNoPages) {
		t.Fatalf("err = %v, want ErrNoPages", err)
	}
}

func TestBytes_Structure(t *testing.T) {
	pages := []*image.RGBA{
		rasterPage(20, 28, color.RGBA{0xff, 0xff, 0xff, 0xff}),
		rasterPage(20, 28, color.RGBA{0x10, 0x20, 0x30, 0xff}),
	}
	out, err := Bytes(pages, Config{Info: Info{Title: "quarterly (draft)"}})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	if !bytes.HasPrefix(out, []byte("%PDF-1.7\n")) {
		t.Errorf("missing %%PDF-1.7 header")
	}
	if !bytes.HasSuffix(out, []byte("%%EOF\n")) {
		t.Errorf("missing %%EOF trailer")
	}
	for _, want := range []string{
		"/Type /Catalog",
		"/Count 2",
		"/Type /Page ",
		"/Subtype /Image",
		"/ColorSpace /DeviceRGB",
		"/Filter /FlateDecode",
		"/Im0 Do",
		"xref\n",
		"trailer\n",
		"startxref\n",
		"/Title (quarterly \\(draft\\))",
		"/Producer (reportkit)",
	} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output missing %q", want)
		}
	}
	if n := bytes.Count(out, []byte("/Type /Page ")); n != 2 {
		t.Errorf("found %d page dictionaries, want 2", n)
	}
}

func TestWrite_PageGeometry(t *testing.T) {
	// A 100x141 raster on a default A4 page scales by 595.28/100 and sits
	// flush to the top edge.
	out, err := Bytes([]*image.RGBA{rasterPage(100, 141, color.RGBA{0, 0, 0, 0xff})}, Config{NoCompress: true})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	scale := A4Width / 100.0
	drawH := 141 * scale
	want := fmt.Sprintf("%.4f 0 0 %.4f 0 %.4f cm", A4Width, drawH, A4Height-drawH)
	if !bytes.Contains(out, []byte(want)) {
		t.Errorf("content stream missing placement %q", want)
	}
	if !bytes.Contains(out, []byte("/MediaBox [0 0 595.28 841.89]")) {
		t.Errorf("missing A4 MediaBox")
	}
}

func TestWrite_CustomPageSize(t *testing.T) {
	out, err := Bytes([]*image.RGBA{rasterPage(10, 10, color.RGBA{0, 0, 0, 0xff})},
		Config{PageWidth: 200, PageHeight: 100, NoCompress: true})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Contains(out, []byte("/MediaBox [0 0 200.00 100.00]")) {
		t.Errorf("missing custom MediaBox")
	}
}

func TestWrite_NoCompressCarriesRawPixels(t *testing.T) {
	out, err := Bytes([]*image.RGBA{rasterPage(2, 2, color.RGBA{0xab, 0xcd, 0xef, 0xff})},
		Config{NoCompress: true})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if bytes.Contains(out, []byte("/Filter /FlateDecode")) {
		t.Errorf("NoCompress output still declares FlateDecode")
	}
	raw := bytes.Repeat([]byte{0xab, 0xcd, 0xef}, 4)
	if !bytes.Contains(out, raw) {
		t.Errorf("raw RGB pixel rows not present in output")
	}
}

func TestWrite_CompressedImageRoundTrips(t *testing.T) {
	fill := color.RGBA{0x11, 0x22, 0x33, 0xff}
	out, err := Bytes([]*image.RGBA{rasterPage(3, 2, fill)}, Config{})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	// Pull the image stream back out and inflate it.
	marker := []byte("/Subtype /Image")
	i := bytes.Index(out, marker)
	if i < 0 {
		t.Fatalf("no image object in output")
	}
	rest := out[i:]
	start := bytes.Index(rest, []byte("stream\n"))
	end := bytes.Index(rest, []byte("\nendstream"))
	if start < 0 || end < 0 || end <= start {
		t.Fatalf("malformed image stream object")
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest[start+len("stream\n") : end]))
	if err != nil {
		t.Fatalf("zlib.NewReader: %v", err)
	}
	defer zr.Close()
	pixels, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	want := bytes.Repeat([]byte{0x11, 0x22, 0x33}, 6)
	if !bytes.Equal(pixels, want) {
		t.Errorf("inflated pixels = % x, want % x", pixels, want)
	}
}

func TestWrite_XrefOffsetsMatchObjects(t *testing.T) {
	out, err := Bytes([]*image.RGBA{rasterPage(4, 4, color.RGBA{0xff, 0xff, 0xff, 0xff})},
		Config{NoCompress: true})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	s := string(out)
	xref := strings.Index(s, "\nxref\n")
	if xref < 0 {
		t.Fatalf("no xref table")
	}
	xref++ // position of the section keyword itself

	lines := strings.Split(s[xref:], "\n")
	// lines[0] = "xref", lines[1] = subsection header, lines[2] = free entry.
	num := 0
	for _, line := range lines[3:] {
		if !strings.HasSuffix(line, " 00000 n ") {
			break
		}
		num++
		var off int
		if _, err := fmt.Sscanf(line, "%d", &off); err != nil {
			t.Fatalf("bad xref entry %q: %v", line, err)
		}
		if want := fmt.Sprintf("%d 0 obj\n", num); !strings.HasPrefix(s[off:], want) {
			t.Errorf("xref entry %d: offset %d does not point at %q", num, off, want)
		}
	}
	if num < 5 {
		t.Fatalf("only %d in-use xref entries; expected catalog, pages, image, content, page, info", num)
	}

	var startxref int
	if _, err := fmt.Sscanf(s[strings.LastIndex(s, "startxref\n"):], "startxref\n%d", &startxref); err != nil {
		t.Fatalf("parse startxref: %v", err)
	}
	if startxref != xref {
		t.Errorf("startxref = %d, want xref position %d", startxref, xref)
	}
}
