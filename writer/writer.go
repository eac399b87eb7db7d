// Package writer assembles frozen raster pages into a PDF document. Each
// output page is a fixed physical size and carries exactly one losslessly
// compressed image, scaled uniformly from raster to page coordinates and
// placed flush to the page top. No text layer, bookmarks, or outline are
// produced; script correctness was already settled at raster time.
package writer

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"time"
)

// Version is the PDF specification version emitted in the header.
const Version = "1.7"

// A4 dimensions in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// Config controls document assembly. Zero values mean A4 pages with
// compressed streams.
type Config struct {
	PageWidth  float64
	PageHeight float64
	NoCompress bool
	Info       Info
}

// Info populates the PDF information dictionary.
type Info struct {
	Title    string
	Producer string
	Creator  string
}

// ErrNoPages is returned when the page sequence is empty.
var ErrNoPages = errors.New("writer: no pages to assemble")

// Bytes assembles the page sequence into PDF bytes.
func Bytes(pages []*image.RGBA, cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, pages, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write assembles the page sequence and writes the PDF to w.
func Write(w io.Writer, pages []*image.RGBA, cfg Config) error {
	if len(pages) == 0 {
		return ErrNoPages
	}
	if cfg.PageWidth <= 0 {
		cfg.PageWidth = A4Width
	}
	if cfg.PageHeight <= 0 {
		cfg.PageHeight = A4Height
	}

	d := &document{cfg: cfg}
	for i, page := range pages {
		if err := d.addPage(page); err != nil {
			return fmt.Errorf("writer: page %d: %w", i+1, err)
		}
	}
	data, err := d.build()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// document accumulates numbered objects in emission order. Objects 1 and 2
// are reserved for the catalog and page tree; everything else is appended.
type document struct {
	cfg     Config
	objects [][]byte
	pages   []int // object numbers of page dictionaries
}

// addObject appends an object body and returns its object number. The two
// reserved slots shift all appended numbers by two.
func (d *document) addObject(body []byte) int {
	d.objects = append(d.objects, body)
	return len(d.objects) + 2
}

// addPage embeds one raster page: image stream, content stream drawing it,
// then the page dictionary referencing both.
func (d *document) addPage(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return errors.New("empty raster surface")
	}

	pixels, err := d.encodePixels(img)
	if err != nil {
		return err
	}
	var imgDict strings.Builder
	imgDict.WriteString("<< /Type /XObject /Subtype /Image")
	fmt.Fprintf(&imgDict, " /Width %d /Height %d", b.Dx(), b.Dy())
	imgDict.WriteString(" /ColorSpace /DeviceRGB /BitsPerComponent 8")
	if !d.cfg.NoCompress {
		imgDict.WriteString(" /Filter /FlateDecode")
	}
	fmt.Fprintf(&imgDict, " /Length %d >>", len(pixels))
	imageNum := d.addObject(streamObject(imgDict.String(), pixels))

	// Uniform scale from raster pixels to page points, image flush to the
	// top edge. PDF's origin is bottom-left, so top alignment offsets by
	// the page height minus the drawn height.
	scale := d.cfg.PageWidth / float64(b.Dx())
	drawW := d.cfg.PageWidth
	drawH := float64(b.Dy()) * scale
	content := fmt.Sprintf("q\n%.4f 0 0 %.4f 0 %.4f cm\n/Im0 Do\nQ\n",
		drawW, drawH, d.cfg.PageHeight-drawH)
	contentBytes, err := d.encodeStream([]byte(content))
	if err != nil {
		return err
	}
	filter := ""
	if !d.cfg.NoCompress {
		filter = " /Filter /FlateDecode"
	}
	contentNum := d.addObject(streamObject(
		fmt.Sprintf("<< /Length %d%s >>", len(contentBytes), filter), contentBytes))

	pageNum := d.addObject([]byte(fmt.Sprintf(
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Resources << /XObject << /Im0 %d 0 R >> >> /Contents %d 0 R >>",
		d.cfg.PageWidth, d.cfg.PageHeight, imageNum, contentNum)))
	d.pages = append(d.pages, pageNum)
	return nil
}

// encodePixels flattens the RGBA surface to raw RGB rows and compresses
// them. The alpha channel is discarded: surfaces are composed over an
// opaque white background.
func (d *document) encodePixels(img *image.RGBA) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgb := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			rgb = append(rgb, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return d.encodeStream(rgb)
}

func (d *document) encodeStream(data []byte) ([]byte, error) {
	if d.cfg.NoCompress {
		return data, nil
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compress stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress stream: %w", err)
	}
	return buf.Bytes(), nil
}

func streamObject(dict string, data []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(dict)
	buf.WriteString("\nstream\n")
	buf.Write(data)
	buf.WriteString("\nendstream")
	return buf.Bytes()
}

// build emits header, objects, xref table, and trailer.
func (d *document) build() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n", Version)
	buf.WriteString("%\xE2\xE3\xCF\xD3\n")

	var kids strings.Builder
	kids.WriteString("[")
	for i, num := range d.pages {
		if i > 0 {
			kids.WriteString(" ")
		}
		fmt.Fprintf(&kids, "%d 0 R", num)
	}
	kids.WriteString("]")

	final := make([][]byte, 0, len(d.objects)+3)
	final = append(final, []byte("<< /Type /Catalog /Pages 2 0 R >>"))
	final = append(final, []byte(fmt.Sprintf("<< /Type /Pages /Kids %s /Count %d >>", kids.String(), len(d.pages))))
	final = append(final, d.objects...)

	infoNum := 0
	if info := d.buildInfo(); info != nil {
		final = append(final, info)
		infoNum = len(final)
	}

	offsets := make([]int, len(final)+1)
	for i, obj := range final {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		buf.Write(obj)
		buf.WriteString("\nendobj\n")
	}

	xrefPos := buf.Len()
	buf.WriteString("xref\n")
	fmt.Fprintf(&buf, "0 %d\n", len(final)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(final); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}

	buf.WriteString("trailer\n")
	fmt.Fprintf(&buf, "<< /Size %d /Root 1 0 R", len(final)+1)
	if infoNum > 0 {
		fmt.Fprintf(&buf, " /Info %d 0 R", infoNum)
	}
	buf.WriteString(" >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefPos)
	return buf.Bytes(), nil
}

func (d *document) buildInfo() []byte {
	info := d.cfg.Info
	var sb strings.Builder
	sb.WriteString("<<")
	if info.Title != "" {
		fmt.Fprintf(&sb, " /Title (%s)", escapeString(info.Title))
	}
	if info.Creator != "" {
		fmt.Fprintf(&sb, " /Creator (%s)", escapeString(info.Creator))
	}
	producer := info.Producer
	if producer == "" {
		producer = "reportkit"
	}
	fmt.Fprintf(&sb, " /Producer (%s)", escapeString(producer))
	fmt.Fprintf(&sb, " /CreationDate (%s)", time.Now().UTC().Format("D:20060102150405Z"))
	sb.WriteString(" >>")
	return []byte(sb.String())
}

func escapeString(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return r.Replace(s)
}
