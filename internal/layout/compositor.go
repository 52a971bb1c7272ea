package layout

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"wlog/internal/logger"
)

// ErrNoTable is returned by Row when no table has been started.
var ErrNoTable = errors.New("row placed outside of a table")

// State is the compositor's page state.
type State int

const (
	// StateOnPage means the cursor sits inside the current page bounds.
	StateOnPage State = iota
	// StateNewPageRequested is transient: a block did not fit and a fresh
	// page is being allocated.
	StateNewPageRequested
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateOnPage:
		return "ON_PAGE"
	case StateNewPageRequested:
		return "NEW_PAGE_REQUESTED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Margins of the printable area, in points.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// TableHeader is repeated at the top of every page a table spans.
type TableHeader struct {
	Height float64
	Draw   func(cv Canvas, top float64)
}

// Compositor tracks the vertical cursor across pages and decides where page
// breaks fall. Every placement checks that the block fits above the bottom
// margin first; a block that does not fit moves to a new page.
type Compositor struct {
	canvas  Canvas
	margins Margins
	width   float64
	height  float64

	y     float64
	state State
	pages int
	fresh bool

	table        *TableHeader
	headerOnPage bool
	shaded       bool

	log zerolog.Logger
}

// NewCompositor creates a compositor drawing onto cv. Call Begin before
// placing anything.
func NewCompositor(cv Canvas, margins Margins) *Compositor {
	width, height := cv.PageSize()
	return &Compositor{
		canvas:  cv,
		margins: margins,
		width:   width,
		height:  height,
		log:     logger.WithComponent("compositor"),
	}
}

// Begin allocates the first page.
func (c *Compositor) Begin() error {
	return c.newPage()
}

// Canvas returns the underlying canvas.
func (c *Compositor) Canvas() Canvas { return c.canvas }

// Y returns the cursor: the top of the free space on the current page.
func (c *Compositor) Y() float64 { return c.y }

// Top returns the cursor position of a fresh page.
func (c *Compositor) Top() float64 { return c.height - c.margins.Top }

// Left returns the x coordinate of the left margin.
func (c *Compositor) Left() float64 { return c.margins.Left }

// Right returns the x coordinate of the right margin.
func (c *Compositor) Right() float64 { return c.width - c.margins.Right }

// ContentWidth is the width between the margins.
func (c *Compositor) ContentWidth() float64 { return c.Right() - c.Left() }

// Pages returns the number of pages allocated so far.
func (c *Compositor) Pages() int { return c.pages }

// State returns the current page state.
func (c *Compositor) State() State { return c.state }

// Fits reports whether a block of height h fits above the bottom margin.
func (c *Compositor) Fits(h float64) bool {
	return c.y-h >= c.margins.Bottom
}

// RowSpace returns the height the next table row can take on the current
// page, net of the header when it is still due on this page.
func (c *Compositor) RowSpace() float64 {
	return c.y - c.margins.Bottom - c.headerHeight()
}

// PageRowSpace returns the height a table row can take on a fresh page below
// the header. Rows taller than this must be split by the caller.
func (c *Compositor) PageRowSpace() float64 {
	h := c.Top() - c.margins.Bottom
	if c.table != nil {
		h -= c.table.Height
	}
	return h
}

// Advance moves the cursor down by h. Negative values are ignored so the
// cursor never moves back up a page.
func (c *Compositor) Advance(h float64) {
	if h > 0 {
		c.y -= h
		c.fresh = false
	}
}

// Block places a non-table block of height h, breaking the page first if it
// would cross the bottom margin. draw receives the top of the block.
func (c *Compositor) Block(h float64, draw func(cv Canvas, top float64)) error {
	if err := c.ensure(h); err != nil {
		return err
	}
	draw(c.canvas, c.y)
	c.Advance(h)
	return c.canvas.Err()
}

// BeginTable starts a table. The header is drawn together with the first row
// of every page so it is never left at the bottom of a page on its own.
func (c *Compositor) BeginTable(header TableHeader) {
	c.table = &header
	c.headerOnPage = false
	c.shaded = false
}

// Row places a table row of height h. The row height must already account for
// wrapped text. draw receives the top of the row and whether it is shaded;
// shading alternates on every row regardless of its height.
func (c *Compositor) Row(h float64, draw func(cv Canvas, top float64, shaded bool)) error {
	if c.table == nil {
		return ErrNoTable
	}

	need := h
	if !c.headerOnPage {
		need += c.table.Height
	}
	if !c.Fits(need) && !c.fresh {
		if err := c.breakPage(); err != nil {
			return err
		}
	}
	if !c.Fits(h + c.headerHeight()) {
		c.log.Warn().
			Float64("row_height", h).
			Float64("usable_height", c.Top()-c.margins.Bottom).
			Msg("Table row taller than a page")
	}

	if !c.headerOnPage {
		c.table.Draw(c.canvas, c.y)
		c.Advance(c.table.Height)
		c.headerOnPage = true
	}

	draw(c.canvas, c.y, c.shaded)
	c.shaded = !c.shaded
	c.Advance(h)
	return c.canvas.Err()
}

// EndTable finishes the current table.
func (c *Compositor) EndTable() {
	c.table = nil
	c.headerOnPage = false
}

func (c *Compositor) headerHeight() float64 {
	if c.headerOnPage || c.table == nil {
		return 0
	}
	return c.table.Height
}

// ensure breaks the page if h does not fit. A fresh page is never broken
// again, since the block would not fit on the next one either.
func (c *Compositor) ensure(h float64) error {
	if c.Fits(h) || c.fresh {
		if !c.Fits(h) {
			c.log.Warn().
				Float64("block_height", h).
				Float64("usable_height", c.Top()-c.margins.Bottom).
				Msg("Block taller than a page")
		}
		return nil
	}
	return c.breakPage()
}

func (c *Compositor) breakPage() error {
	c.state = StateNewPageRequested
	c.log.Debug().
		Int("page", c.pages).
		Float64("y", c.y).
		Msg("Page full, starting new page")
	return c.newPage()
}

func (c *Compositor) newPage() error {
	if err := c.canvas.AddPage(); err != nil {
		return fmt.Errorf("allocate page %d: %w", c.pages+1, err)
	}
	c.pages++
	c.y = c.Top()
	c.fresh = true
	c.headerOnPage = false
	c.state = StateOnPage
	return nil
}
