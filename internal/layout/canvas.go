// Package layout composes paginated documents on top of a drawing Canvas.
//
// Coordinates are in points with the origin at the bottom-left corner of the
// page; a text y coordinate is its baseline. The compositor walks a page from
// top to bottom and never moves back up.
package layout

import "errors"

// ErrUnsupportedImage is returned by Canvas.Image when the image bytes are not
// a decodable type. Callers treat it as recoverable and skip the image.
var ErrUnsupportedImage = errors.New("unsupported image format")

// Font selects the weight and size for subsequent text.
type Font struct {
	Bold bool
	Size float64
}

// Regular returns the regular-weight font at size.
func Regular(size float64) Font { return Font{Size: size} }

// Bold returns the bold font at size.
func Bold(size float64) Font { return Font{Bold: true, Size: size} }

// Color is an RGB colour with components in 0..1.
type Color struct {
	R, G, B float64
}

// Gray returns a neutral colour of the given lightness.
func Gray(level float64) Color { return Color{level, level, level} }

// Palette shared by the document builders.
var (
	Black       = Gray(0)
	White       = Gray(1)
	MutedText   = Gray(0.5)
	LabelText   = Gray(0.4)
	SubtleText  = Gray(0.3)
	ShadedRow   = Gray(0.95)
	AccentFill  = Color{0.95, 0.6, 0.1}
	CalloutFill = Color{0.98, 0.85, 0.5}
)

// Canvas is the drawing capability a document is rendered onto.
//
// Drawing methods do not return errors; a fault is latched and reported by
// Err, the same way the PDF backend behaves. Callers check Err at section
// boundaries and abort the document on the first fault.
type Canvas interface {
	// AddPage allocates a new page and makes it current.
	AddPage() error
	// PageSize returns the page width and height.
	PageSize() (width, height float64)
	SetFont(f Font)
	// SetFillColor sets the colour for both text and filled shapes.
	SetFillColor(c Color)
	// Text places s with its baseline starting at (x, y).
	Text(x, y float64, s string)
	// FillRect fills a rectangle whose bottom-left corner is (x, y). A positive
	// radius rounds the corners.
	FillRect(x, y, w, h, radius float64)
	// MeasureText returns the width of s in the current font.
	MeasureText(s string) float64
	// Image draws an encoded image scaled to fit within maxW × maxH with its
	// top-left corner at (x, top). It returns the drawn size.
	Image(name string, data []byte, x, top, maxW, maxH float64) (w, h float64, err error)
	// Err returns the first latched fault, if any.
	Err() error
}
