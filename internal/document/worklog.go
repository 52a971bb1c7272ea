package document

import (
	"errors"
	"math"

	"github.com/rs/zerolog"

	"wlog/internal/layout"
	"wlog/internal/logger"
	"wlog/pkg/models"
)

const (
	worklogTitleHeight   = 90.0
	worklogSummaryHeight = 100.0

	worklogHoursX = 180.0
	worklogDescX  = 250.0

	summaryLabelX = 380.0
	summaryValueX = 480.0
)

// WorkLogBuilder renders a paginated work-log report.
type WorkLogBuilder struct {
	doc *models.WorkLogDocument
	log zerolog.Logger
}

// NewWorkLogBuilder returns a builder for doc.
func NewWorkLogBuilder(doc *models.WorkLogDocument) *WorkLogBuilder {
	return &WorkLogBuilder{
		doc: doc,
		log: logger.WithComponent("worklog"),
	}
}

// WithLogger replaces the builder's logger.
func (b *WorkLogBuilder) WithLogger(l zerolog.Logger) *WorkLogBuilder {
	b.log = l
	return b
}

// Build draws the report onto cv. Entries are drawn in the order the snapshot
// holds them.
func (b *WorkLogBuilder) Build(cv layout.Canvas) error {
	c := layout.NewCompositor(cv, pageMargins)
	if err := c.Begin(); err != nil {
		return renderFault("first page", err)
	}

	if err := b.title(c); err != nil {
		return renderFault("title", err)
	}
	if err := b.entries(c); err != nil {
		if errors.Is(err, ErrRenderFault) {
			return err
		}
		return renderFault("entries", err)
	}
	if err := b.summary(c); err != nil {
		return renderFault("summary", err)
	}

	b.log.Debug().
		Str("client", b.doc.ClientID).
		Str("month", b.doc.Month).
		Int("entries", len(b.doc.Entries)).
		Int("pages", c.Pages()).
		Msg("Work log laid out")
	return nil
}

func (b *WorkLogBuilder) title(c *layout.Compositor) error {
	return c.Block(worklogTitleHeight, func(cv layout.Canvas, top float64) {
		left := c.Left()
		y := top - baselineOffset

		cv.SetFillColor(layout.Black)
		cv.SetFont(layout.Bold(24))
		cv.Text(left, y, "Work Log Report")

		cv.SetFont(layout.Regular(12))
		cv.SetFillColor(layout.SubtleText)
		cv.Text(left, y-35, "Client: "+b.doc.Client.Name)
		cv.Text(left, y-53, "Period: "+b.doc.Month)
		cv.SetFillColor(layout.Black)
	})
}

func (b *WorkLogBuilder) entries(c *layout.Compositor) error {
	left := c.Left()
	descWidth := c.Right() - worklogDescX

	c.BeginTable(tableHeader(left, c.ContentWidth(), []column{
		{"Date", left + 15},
		{"Hours", worklogHoursX},
		{"Description", worklogDescX},
	}))
	defer c.EndTable()

	for _, entry := range b.doc.Entries {
		// Wrap before placing: the overflow decision needs the real height.
		cv := c.Canvas()
		cv.SetFont(layout.Regular(10))
		lines := layout.Wrap(entry.Message, descWidth, cv.MeasureText)

		for i, chunk := range splitRows(c, lines) {
			height := layout.RowHeight(len(chunk), lineHeight, rowPadding)
			first := i == 0

			err := c.Row(height, func(cv layout.Canvas, top float64, shaded bool) {
				if shaded {
					cv.SetFillColor(layout.ShadedRow)
					cv.FillRect(left, top-height, c.ContentWidth(), height, rowRadius)
				}

				y := top - baselineOffset
				cv.SetFont(layout.Regular(10))
				if first {
					cv.SetFillColor(layout.Black)
					cv.Text(left+15, y, layout.FormatDate(entry.Date))
					cv.Text(worklogHoursX, y, layout.FormatHours(entry.Hours, 1))
				} else {
					cv.SetFillColor(layout.MutedText)
					cv.Text(left+15, y, "(cont.)")
					cv.SetFillColor(layout.Black)
				}
				for j, line := range chunk {
					cv.Text(worklogDescX, y-float64(j)*lineHeight, line)
				}
			})
			if err != nil {
				return renderFault("entry "+entry.Date, err)
			}
		}
	}
	return nil
}

// splitRows cuts the wrapped lines of one entry into row-sized chunks. An
// entry that fits on a page stays a single row, moving to the next page if
// needed. A taller entry first fills what is left of the current page and
// continues on full pages.
func splitRows(c *layout.Compositor, lines []string) [][]string {
	perPage := linesIn(c.PageRowSpace())
	if perPage < 1 {
		perPage = 1
	}
	if len(lines) <= perPage {
		return [][]string{lines}
	}

	var chunks [][]string
	n := linesIn(c.RowSpace())
	if n < 1 {
		n = perPage
	}
	for len(lines) > 0 {
		if n > len(lines) {
			n = len(lines)
		}
		chunks = append(chunks, lines[:n])
		lines = lines[n:]
		n = perPage
	}
	return chunks
}

// linesIn is the number of description lines a row of height space holds.
func linesIn(space float64) int {
	return int(math.Floor((space - rowPadding) / lineHeight))
}

// summary is placed like any other block, so it starts a new page rather
// than being clipped when the table filled the last one.
func (b *WorkLogBuilder) summary(c *layout.Compositor) error {
	doc := b.doc
	return c.Block(worklogSummaryHeight, func(cv layout.Canvas, top float64) {
		cv.SetFillColor(layout.ShadedRow)
		cv.FillRect(summaryLabelX-20, top-100, c.Right()-summaryLabelX+20, 80, headerRadius)

		y := top - 40
		cv.SetFillColor(layout.Black)
		cv.SetFont(layout.Regular(10))
		cv.Text(summaryLabelX, y, "Total Hours:")
		cv.Text(summaryValueX, y, layout.FormatHours(doc.TotalHours, 1))

		y -= rowSpacing
		cv.Text(summaryLabelX, y, "Hourly Rate:")
		cv.Text(summaryValueX, y, layout.FormatRate(doc.Currency, doc.HourlyRate))

		y -= rowSpacing
		cv.SetFont(layout.Bold(11))
		cv.Text(summaryLabelX, y, "Total Amount:")
		cv.Text(summaryValueX, y, layout.FormatCurrency(doc.Currency, doc.Amount))
	})
}
