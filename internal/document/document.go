// Package document lays out invoices and work-log reports on a layout.Canvas.
//
// Builders read an immutable snapshot from pkg/models and never modify it.
// A build either completes or fails with ErrRenderFault; a failed build leaves
// nothing the caller should save.
package document

import (
	"errors"
	"fmt"

	"wlog/internal/layout"
)

// ErrRenderFault is returned when the canvas could not complete a document.
var ErrRenderFault = errors.New("render fault")

// Page geometry shared by both documents. The top margin sits 20pt above the
// first baseline so headings keep their ascenders on the page.
const (
	sideMargin   = 50.0
	topMargin    = 30.0
	bottomMargin = 70.0

	baselineOffset = 20.0

	tableHeaderHeight = 28.0
	headerRadius      = 5.0
	rowRadius         = 4.0

	lineHeight = 14.0
	rowPadding = 16.0
)

var pageMargins = layout.Margins{
	Top:    topMargin,
	Right:  sideMargin,
	Bottom: bottomMargin,
	Left:   sideMargin,
}

// column is a labelled x position in a table header.
type column struct {
	label string
	x     float64
}

// tableHeader draws the accent bar with white bold labels used by both tables.
func tableHeader(left, width float64, cols []column) layout.TableHeader {
	return layout.TableHeader{
		Height: tableHeaderHeight,
		Draw: func(cv layout.Canvas, top float64) {
			cv.SetFillColor(layout.AccentFill)
			cv.FillRect(left, top-tableHeaderHeight, width, tableHeaderHeight, headerRadius)

			cv.SetFillColor(layout.White)
			cv.SetFont(layout.Bold(10))
			for _, col := range cols {
				cv.Text(col.x, top-18, col.label)
			}
			cv.SetFillColor(layout.Black)
		},
	}
}

// labelValue draws a muted label and a black value on one baseline.
func labelValue(cv layout.Canvas, labelX, valueX, y float64, label, value string) {
	cv.SetFillColor(layout.LabelText)
	cv.Text(labelX, y, label)
	cv.SetFillColor(layout.Black)
	cv.Text(valueX, y, value)
}

// fitRight keeps text starting at x from running past right, shifting it
// left when needed.
func fitRight(cv layout.Canvas, x, right float64, s string) float64 {
	if w := cv.MeasureText(s); x+w > right {
		return right - w
	}
	return x
}

func renderFault(section string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRenderFault, section, err)
}
