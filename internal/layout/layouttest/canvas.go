// Package layouttest provides a recording Canvas for layout tests.
package layouttest

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"wlog/internal/layout"
)

// A4 page size in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// ErrPageAllocation is the fault injected by FailOnPage.
var ErrPageAllocation = errors.New("page allocation failed")

// OpKind identifies a recorded drawing call.
type OpKind string

const (
	OpPage  OpKind = "page"
	OpText  OpKind = "text"
	OpRect  OpKind = "rect"
	OpImage OpKind = "image"
)

// Op is a recorded drawing call.
type Op struct {
	Kind   OpKind
	Page   int
	X, Y   float64
	W, H   float64
	Radius float64
	Text   string
	Font   layout.Font
	Color  layout.Color
}

// Canvas records every call for later inspection. Text is measured as half
// the font size per rune, which keeps wrapping arithmetic easy to predict.
type Canvas struct {
	Width, Height float64

	// FailOnPage makes the n-th AddPage call fail (1-based). Zero disables it.
	FailOnPage int
	// RejectImages makes Image report layout.ErrUnsupportedImage.
	RejectImages bool

	Ops []Op

	page  int
	font  layout.Font
	color layout.Color
	err   error
}

// New returns an A4 recording canvas.
func New() *Canvas {
	return &Canvas{Width: A4Width, Height: A4Height}
}

// CharWidth is the measured width of one rune at the given font size.
func CharWidth(size float64) float64 { return size / 2 }

func (c *Canvas) AddPage() error {
	if c.err != nil {
		return c.err
	}
	if c.FailOnPage > 0 && c.page+1 == c.FailOnPage {
		c.err = fmt.Errorf("page %d: %w", c.page+1, ErrPageAllocation)
		return c.err
	}
	c.page++
	c.Ops = append(c.Ops, Op{Kind: OpPage, Page: c.page})
	return nil
}

func (c *Canvas) PageSize() (float64, float64) { return c.Width, c.Height }

func (c *Canvas) SetFont(f layout.Font) { c.font = f }

func (c *Canvas) SetFillColor(col layout.Color) { c.color = col }

func (c *Canvas) Text(x, y float64, s string) {
	c.Ops = append(c.Ops, Op{Kind: OpText, Page: c.page, X: x, Y: y, Text: s, Font: c.font, Color: c.color})
}

func (c *Canvas) FillRect(x, y, w, h, radius float64) {
	c.Ops = append(c.Ops, Op{Kind: OpRect, Page: c.page, X: x, Y: y, W: w, H: h, Radius: radius, Color: c.color})
}

func (c *Canvas) MeasureText(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * CharWidth(c.font.Size)
}

func (c *Canvas) Image(name string, data []byte, x, top, maxW, maxH float64) (float64, float64, error) {
	if c.RejectImages || len(data) == 0 {
		return 0, 0, fmt.Errorf("%s: %w", name, layout.ErrUnsupportedImage)
	}
	c.Ops = append(c.Ops, Op{Kind: OpImage, Page: c.page, X: x, Y: top - maxH, W: maxW, H: maxH, Text: name})
	return maxW, maxH, nil
}

func (c *Canvas) Err() error { return c.err }

// Pages returns the number of pages allocated.
func (c *Canvas) Pages() int { return c.page }

// Texts returns recorded text calls, optionally filtered to one page (page > 0).
func (c *Canvas) Texts(page int) []Op {
	return c.filter(OpText, page)
}

// Rects returns recorded rectangle fills, optionally filtered to one page.
func (c *Canvas) Rects(page int) []Op {
	return c.filter(OpRect, page)
}

// Images returns recorded image placements.
func (c *Canvas) Images() []Op {
	return c.filter(OpImage, 0)
}

// FindText returns the first text op equal to s.
func (c *Canvas) FindText(s string) (Op, bool) {
	for _, op := range c.Ops {
		if op.Kind == OpText && op.Text == s {
			return op, true
		}
	}
	return Op{}, false
}

func (c *Canvas) filter(kind OpKind, page int) []Op {
	var out []Op
	for _, op := range c.Ops {
		if op.Kind == kind && (page == 0 || op.Page == page) {
			out = append(out, op)
		}
	}
	return out
}
