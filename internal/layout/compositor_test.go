package layout_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wlog/internal/layout"
	"wlog/internal/layout/layouttest"
)

var testMargins = layout.Margins{Top: 50, Right: 50, Bottom: 70, Left: 50}

const testHeaderHeight = 28

func testHeader() layout.TableHeader {
	return layout.TableHeader{
		Height: testHeaderHeight,
		Draw: func(cv layout.Canvas, top float64) {
			cv.FillRect(50, top-testHeaderHeight, 495, testHeaderHeight, 5)
			cv.Text(65, top-18, "HEADER")
		},
	}
}

type placedRow struct {
	page   int
	top    float64
	height float64
	shaded bool
}

// placeRows draws n rows with the given heights and records where each one landed.
func placeRows(t *testing.T, c *layout.Compositor, cv *layouttest.Canvas, heights []float64) []placedRow {
	t.Helper()
	rows := make([]placedRow, 0, len(heights))
	for i, h := range heights {
		h := h
		label := fmt.Sprintf("row %d", i)
		err := c.Row(h, func(canvas layout.Canvas, top float64, shaded bool) {
			canvas.FillRect(50, top-h, 495, h, 0)
			canvas.Text(65, top-18, label)
			rows = append(rows, placedRow{page: cv.Pages(), top: top, height: h, shaded: shaded})
		})
		require.NoError(t, err)
	}
	return rows
}

func uniform(n int, h float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = h
	}
	return out
}

func TestCompositor_BeginStartsAtTopMargin(t *testing.T) {
	cv := layouttest.New()
	c := layout.NewCompositor(cv, testMargins)

	require.NoError(t, c.Begin())
	assert.Equal(t, 1, c.Pages())
	assert.Equal(t, layout.StateOnPage, c.State())
	assert.InDelta(t, layouttest.A4Height-50, c.Y(), 1e-9)
	assert.InDelta(t, 495.28, c.ContentWidth(), 1e-9)
}

func TestCompositor_TableSpillsToNewPageWithHeader(t *testing.T) {
	cv := layouttest.New()
	c := layout.NewCompositor(cv, testMargins)
	require.NoError(t, c.Begin())

	// usable height 721.89: header 28 + 23 rows of 30 fit on the first page.
	c.BeginTable(testHeader())
	rows := placeRows(t, c, cv, uniform(40, 30))
	c.EndTable()

	require.Equal(t, 2, cv.Pages())

	onFirst := 0
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.top-r.height, testMargins.Bottom, "row must not cross the bottom margin")
		if r.page == 1 {
			onFirst++
		}
	}
	assert.Equal(t, 23, onFirst)

	for page := 1; page <= 2; page++ {
		texts := cv.Texts(page)
		require.NotEmpty(t, texts)
		assert.Equal(t, "HEADER", texts[0].Text, "page %d must open with the table header", page)
	}

	// The first row of page two sits directly below the repeated header.
	second := rows[onFirst]
	assert.Equal(t, 2, second.page)
	assert.InDelta(t, c.Top()-testHeaderHeight, second.top, 1e-9)
}

func TestCompositor_HeaderIsNeverOrphaned(t *testing.T) {
	cv := layouttest.New()
	c := layout.NewCompositor(cv, testMargins)
	require.NoError(t, c.Begin())

	// Leave room for the header but not for header plus first row.
	filler := c.Y() - testMargins.Bottom - testHeaderHeight - 5
	require.NoError(t, c.Block(filler, func(cv layout.Canvas, top float64) {
		cv.Text(50, top-10, "preamble")
	}))

	c.BeginTable(testHeader())
	placeRows(t, c, cv, []float64{30})

	assert.Equal(t, 2, cv.Pages())
	for _, op := range cv.Texts(1) {
		assert.NotEqual(t, "HEADER", op.Text, "header must move to the page of its first row")
	}
	texts := cv.Texts(2)
	require.Len(t, texts, 2)
	assert.Equal(t, "HEADER", texts[0].Text)
	assert.Equal(t, "row 0", texts[1].Text)
}

func TestCompositor_ShadingAlternatesAcrossVariableHeights(t *testing.T) {
	cv := layouttest.New()
	c := layout.NewCompositor(cv, testMargins)
	require.NoError(t, c.Begin())

	heights := []float64{30, 72, 30, 44, 30, 128, 30, 30, 86, 30, 30, 200, 30, 58, 30, 30, 30, 100}
	c.BeginTable(testHeader())
	rows := placeRows(t, c, cv, heights)

	require.Greater(t, cv.Pages(), 1, "rows should span more than one page")
	for i, r := range rows {
		assert.Equal(t, i%2 == 1, r.shaded, "row %d", i)
	}
}

func TestCompositor_CursorOnlyMovesDown(t *testing.T) {
	cv := layouttest.New()
	c := layout.NewCompositor(cv, testMargins)
	require.NoError(t, c.Begin())

	c.BeginTable(testHeader())
	rows := placeRows(t, c, cv, []float64{30, 44, 58, 30})
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i].top, rows[i-1].top)
	}

	before := c.Y()
	c.Advance(-20)
	assert.Equal(t, before, c.Y())
}

func TestCompositor_BlockMovesToNewPageWithoutHeader(t *testing.T) {
	cv := layouttest.New()
	c := layout.NewCompositor(cv, testMargins)
	require.NoError(t, c.Begin())

	c.BeginTable(testHeader())
	placeRows(t, c, cv, uniform(23, 30))
	c.EndTable()
	require.Equal(t, 1, cv.Pages())

	var summaryTop float64
	require.NoError(t, c.Block(100, func(cv layout.Canvas, top float64) {
		summaryTop = top
		cv.Text(380, top-20, "SUMMARY")
	}))

	assert.Equal(t, 2, cv.Pages())
	assert.InDelta(t, c.Top(), summaryTop, 1e-9)
	texts := cv.Texts(2)
	require.Len(t, texts, 1)
	assert.Equal(t, "SUMMARY", texts[0].Text)
}

func TestCompositor_OversizedRowOnFreshPageDoesNotLoop(t *testing.T) {
	cv := layouttest.New()
	c := layout.NewCompositor(cv, testMargins)
	require.NoError(t, c.Begin())

	c.BeginTable(testHeader())
	placeRows(t, c, cv, []float64{2000, 30})

	assert.Equal(t, 2, cv.Pages())
}

func TestCompositor_PageAllocationFault(t *testing.T) {
	cv := layouttest.New()
	cv.FailOnPage = 2
	c := layout.NewCompositor(cv, testMargins)
	require.NoError(t, c.Begin())

	c.BeginTable(testHeader())
	var err error
	for i := 0; i < 40 && err == nil; i++ {
		err = c.Row(30, func(layout.Canvas, float64, bool) {})
	}

	require.Error(t, err)
	assert.True(t, errors.Is(err, layouttest.ErrPageAllocation))
	assert.Equal(t, layout.StateNewPageRequested, c.State())
	assert.Equal(t, 1, cv.Pages())
}

func TestCompositor_RowRequiresTable(t *testing.T) {
	c := layout.NewCompositor(layouttest.New(), testMargins)
	require.NoError(t, c.Begin())

	err := c.Row(30, func(layout.Canvas, float64, bool) {})
	assert.True(t, errors.Is(err, layout.ErrNoTable))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "ON_PAGE", layout.StateOnPage.String())
	assert.Equal(t, "NEW_PAGE_REQUESTED", layout.StateNewPageRequested.String())
}

func TestCompositor_RowSpace(t *testing.T) {
	cv := layouttest.New()
	c := layout.NewCompositor(cv, testMargins)
	require.NoError(t, c.Begin())

	usable := layouttest.A4Height - testMargins.Top - testMargins.Bottom
	assert.InDelta(t, usable, c.RowSpace(), 1e-9)
	assert.InDelta(t, usable, c.PageRowSpace(), 1e-9)

	c.BeginTable(testHeader())
	assert.InDelta(t, usable-testHeaderHeight, c.RowSpace(), 1e-9, "header still due on this page")
	assert.InDelta(t, usable-testHeaderHeight, c.PageRowSpace(), 1e-9)

	placeRows(t, c, cv, []float64{100})
	assert.InDelta(t, usable-testHeaderHeight-100, c.RowSpace(), 1e-9)
	assert.InDelta(t, usable-testHeaderHeight, c.PageRowSpace(), 1e-9)

	rows := placeRows(t, c, cv, []float64{c.RowSpace()})
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].page, "a row of exactly RowSpace still fits")
}
