// Package pdf implements layout.Canvas on top of gofpdf.
//
// Pages are A4 portrait measured in points and text is set in the Helvetica
// core fonts. Core fonts use the Windows-1252 encoding, so text is converted
// from UTF-8 before it is measured or drawn; runes outside that code page are
// replaced with '?'.
//
// A Document is a short-lived session: Open it for one document, draw, write
// it out with WriteTo and Close it on every exit path.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gabriel-vasile/mimetype"
	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"wlog/internal/layout"
)

const fontFamily = "Helvetica"

// ErrClosed is returned when a closed document is used.
var ErrClosed = errors.New("pdf: document is closed")

// imageTypes maps sniffed MIME types to gofpdf image types.
var imageTypes = map[string]string{
	"image/jpeg": "JPG",
	"image/png":  "PNG",
	"image/gif":  "GIF",
}

// Options holds document metadata.
type Options struct {
	Title    string
	Author   string
	Subject  string
	Compress bool
}

// Document is a gofpdf-backed canvas.
type Document struct {
	f      *gofpdf.Fpdf
	enc    *encoding.Encoder
	width  float64
	height float64
	font   layout.Font
	closed bool
}

// Open starts a new PDF document session.
func Open(opts Options) (*Document, error) {
	f := gofpdf.New("P", "pt", "A4", "")
	if f.Err() {
		return nil, fmt.Errorf("pdf: create document: %w", f.Error())
	}

	f.SetCompression(opts.Compress)
	f.SetAutoPageBreak(false, 0)
	f.SetMargins(0, 0, 0)
	f.SetCreator("wlog", true)
	if opts.Title != "" {
		f.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		f.SetAuthor(opts.Author, true)
	}
	if opts.Subject != "" {
		f.SetSubject(opts.Subject, true)
	}

	width, height := f.GetPageSize()
	d := &Document{
		f:      f,
		enc:    encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()),
		width:  width,
		height: height,
		font:   layout.Regular(10),
	}
	return d, nil
}

// AddPage implements layout.Canvas.
func (d *Document) AddPage() error {
	if d.closed {
		return ErrClosed
	}
	d.f.AddPage()
	d.applyFont()
	return d.Err()
}

// PageSize implements layout.Canvas.
func (d *Document) PageSize() (float64, float64) {
	return d.width, d.height
}

// SetFont implements layout.Canvas.
func (d *Document) SetFont(font layout.Font) {
	d.font = font
	if !d.closed {
		d.applyFont()
	}
}

// SetFillColor implements layout.Canvas.
func (d *Document) SetFillColor(c layout.Color) {
	if d.closed {
		return
	}
	r, g, b := channel(c.R), channel(c.G), channel(c.B)
	d.f.SetFillColor(r, g, b)
	d.f.SetTextColor(r, g, b)
}

// Text implements layout.Canvas.
func (d *Document) Text(x, y float64, s string) {
	if d.closed {
		return
	}
	d.f.Text(x, d.height-y, d.encode(s))
}

// FillRect implements layout.Canvas.
func (d *Document) FillRect(x, y, w, h, radius float64) {
	if d.closed {
		return
	}
	top := d.height - (y + h)
	if radius <= 0 {
		d.f.Rect(x, top, w, h, "F")
		return
	}

	r := math.Min(radius, math.Min(w, h)/2)
	bottom := top + h
	right := x + w

	d.f.MoveTo(x+r, top)
	d.f.LineTo(right-r, top)
	d.f.CurveTo(right, top, right, top+r)
	d.f.LineTo(right, bottom-r)
	d.f.CurveTo(right, bottom, right-r, bottom)
	d.f.LineTo(x+r, bottom)
	d.f.CurveTo(x, bottom, x, bottom-r)
	d.f.LineTo(x, top+r)
	d.f.CurveTo(x, top, x+r, top)
	d.f.ClosePath()
	d.f.DrawPath("F")
}

// MeasureText implements layout.Canvas.
func (d *Document) MeasureText(s string) float64 {
	if d.closed {
		return 0
	}
	return d.f.GetStringWidth(d.encode(s))
}

// Image implements layout.Canvas. Image bytes that are not JPEG, PNG or GIF,
// or that fail to decode, report layout.ErrUnsupportedImage and leave the
// document usable.
func (d *Document) Image(name string, data []byte, x, top, maxW, maxH float64) (float64, float64, error) {
	if d.closed {
		return 0, 0, ErrClosed
	}
	if err := d.Err(); err != nil {
		return 0, 0, err
	}

	mime := mimetype.Detect(data)
	imageType, ok := imageTypes[mime.String()]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s is %s", layout.ErrUnsupportedImage, name, mime.String())
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	info := d.f.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if d.f.Err() || info == nil {
		cause := d.f.Error()
		d.f.ClearError()
		return 0, 0, fmt.Errorf("%w: %s: %v", layout.ErrUnsupportedImage, name, cause)
	}

	iw, ih := info.Width(), info.Height()
	if iw <= 0 || ih <= 0 {
		return 0, 0, fmt.Errorf("%w: %s has no dimensions", layout.ErrUnsupportedImage, name)
	}
	scale := math.Min(maxW/iw, maxH/ih)
	w, h := iw*scale, ih*scale

	d.f.ImageOptions(name, x, d.height-top, w, h, false, opts, 0, "")
	return w, h, d.Err()
}

// Err implements layout.Canvas.
func (d *Document) Err() error {
	if d.closed {
		return ErrClosed
	}
	if d.f.Err() {
		return d.f.Error()
	}
	return nil
}

// PageCount returns the number of pages drawn so far.
func (d *Document) PageCount() int {
	if d.closed {
		return 0
	}
	return d.f.PageCount()
}

// WriteTo serialises the document to w. The document cannot be drawn on
// afterwards.
func (d *Document) WriteTo(w io.Writer) error {
	if d.closed {
		return ErrClosed
	}
	if err := d.Err(); err != nil {
		return err
	}
	if err := d.f.Output(w); err != nil {
		return fmt.Errorf("pdf: write document: %w", err)
	}
	return nil
}

// Close releases the session. It is safe to call more than once.
func (d *Document) Close() error {
	d.closed = true
	d.f = nil
	return nil
}

func (d *Document) applyFont() {
	style := ""
	if d.font.Bold {
		style = "B"
	}
	d.f.SetFont(fontFamily, style, d.font.Size)
}

func (d *Document) encode(s string) string {
	out, err := d.enc.String(s)
	if err != nil {
		return s
	}
	return out
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
