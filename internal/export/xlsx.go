// Package export writes prepared work-log snapshots to spreadsheet formats
// for bookkeeping tools that cannot read PDF tables.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"wlog/pkg/models"
)

// SheetName is the name of the single sheet in an exported workbook.
const SheetName = "Work Log"

// Row positions of the exported workbook (1-based).
const (
	clientRow = 1
	periodRow = 2
	headerRow = 4
	firstRow  = 5
)

// ErrEmptyDocument is returned when the snapshot has no entries.
var ErrEmptyDocument = errors.New("work log has no entries")

// WriteWorkLogXLSX writes doc as an Excel workbook to w. The layout mirrors
// the PDF report: one row per entry followed by the hour, rate and amount
// totals. Amounts carry no tax.
func WriteWorkLogXLSX(w io.Writer, doc *models.WorkLogDocument) error {
	if doc == nil || len(doc.Entries) == 0 {
		return ErrEmptyDocument
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	sw := &sheetWriter{f: f}
	sw.set(1, clientRow, "Client")
	sw.set(2, clientRow, doc.Client.Name)
	sw.set(1, periodRow, "Period")
	sw.set(2, periodRow, doc.Month)

	for col, label := range []string{"Date", "Hours", "Description"} {
		sw.set(col+1, headerRow, label)
	}

	row := firstRow
	for _, e := range doc.Entries {
		sw.set(1, row, e.Date)
		sw.set(2, row, e.Hours)
		sw.set(3, row, e.Message)
		row++
	}

	row++
	totalsRow := row
	sw.set(1, row, "Total Hours")
	sw.set(2, row, doc.TotalHours)
	row++
	sw.set(1, row, "Hourly Rate")
	sw.set(2, row, doc.HourlyRate)
	sw.set(3, row, doc.Currency)
	row++
	sw.set(1, row, "Total Amount")
	sw.set(2, row, doc.Amount.InexactFloat64())
	sw.set(3, row, doc.Currency)
	if sw.err != nil {
		return sw.err
	}

	if err := sw.style(doc, totalsRow, row); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// sheetWriter keeps the first cell error so rows can be written without
// checking every call.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (s *sheetWriter) set(col, row int, value interface{}) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = fmt.Errorf("export: cell %d,%d: %w", col, row, err)
		return
	}
	if err := s.f.SetCellValue(SheetName, cell, value); err != nil {
		s.err = fmt.Errorf("export: set %s: %w", cell, err)
	}
}

func (s *sheetWriter) style(doc *models.WorkLogDocument, totalsRow, lastRow int) error {
	f := s.f

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E75B6"}},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	hours, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("export: number style: %w", err)
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: label style: %w", err)
	}

	ranges := []struct {
		from, to string
		style    int
	}{
		{cell(1, headerRow), cell(3, headerRow), bold},
		{cell(2, firstRow), cell(2, lastRow), hours},
		{cell(1, clientRow), cell(1, periodRow), label},
		{cell(1, totalsRow), cell(1, lastRow), label},
	}
	for _, r := range ranges {
		if err := f.SetCellStyle(SheetName, r.from, r.to, r.style); err != nil {
			return fmt.Errorf("export: style %s:%s: %w", r.from, r.to, err)
		}
	}

	widths := map[string]float64{"A": 14, "B": 10, "C": descriptionWidth(doc)}
	for col, width := range widths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("export: column %s: %w", col, err)
		}
	}
	return nil
}

// descriptionWidth sizes the description column to its longest message,
// capped so very long notes do not produce an unusable sheet.
func descriptionWidth(doc *models.WorkLogDocument) float64 {
	width := 20.0
	for _, e := range doc.Entries {
		if n := float64(len([]rune(e.Message))); n > width {
			width = n
		}
	}
	if width > 80 {
		width = 80
	}
	return width
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
