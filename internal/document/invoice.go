package document

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"wlog/internal/billing"
	"wlog/internal/layout"
	"wlog/internal/logger"
	"wlog/pkg/models"
)

// Invoice section heights. Sections stack from the top margin down.
const (
	invoiceHeaderHeight  = 100.0
	invoicePartiesHeight = 152.0
	invoiceTotalsHeight  = 80.0
	invoiceFooterHeight  = 140.0

	logoMaxWidth  = 150.0
	logoMaxHeight = 80.0

	// Right-hand column of the dates, totals and balance due.
	invoiceLabelX = 360.0
	invoiceValueX = 480.0
	totalsLabelX  = 380.0
	itemQtyX      = 280.0
	itemRateX     = 380.0
	itemAmountX   = 480.0
	rowSpacing    = 18.0
)

// InvoiceBuilder renders a single-page invoice.
type InvoiceBuilder struct {
	doc *models.InvoiceDocument
	log zerolog.Logger
}

// NewInvoiceBuilder returns a builder for doc.
func NewInvoiceBuilder(doc *models.InvoiceDocument) *InvoiceBuilder {
	return &InvoiceBuilder{
		doc: doc,
		log: logger.WithComponent("invoice"),
	}
}

// WithLogger replaces the builder's logger.
func (b *InvoiceBuilder) WithLogger(l zerolog.Logger) *InvoiceBuilder {
	b.log = l
	return b
}

// Build draws the invoice onto cv.
func (b *InvoiceBuilder) Build(cv layout.Canvas) error {
	c := layout.NewCompositor(cv, pageMargins)
	if err := c.Begin(); err != nil {
		return renderFault("first page", err)
	}

	steps := []struct {
		name string
		run  func(*layout.Compositor) error
	}{
		{"header", b.header},
		{"parties", b.parties},
		{"items", b.items},
		{"totals", b.totals},
		{"footer", b.footer},
	}
	for _, step := range steps {
		if err := step.run(c); err != nil {
			if errors.Is(err, ErrRenderFault) {
				return err
			}
			return renderFault(step.name, err)
		}
	}

	b.log.Debug().
		Str("invoice", b.doc.Number).
		Int("pages", c.Pages()).
		Msg("Invoice laid out")
	return nil
}

func (b *InvoiceBuilder) header(c *layout.Compositor) error {
	var logoErr error
	err := c.Block(invoiceHeaderHeight, func(cv layout.Canvas, top float64) {
		if b.doc.Logo != nil {
			_, _, logoErr = cv.Image(b.doc.Logo.Name, b.doc.Logo.Data, c.Left(), top, logoMaxWidth, logoMaxHeight)
		}

		right := c.Right()
		cv.SetFillColor(layout.Black)
		cv.SetFont(layout.Bold(28))
		cv.Text(fitRight(cv, right-100, right, "INVOICE"), top-baselineOffset, "INVOICE")

		number := "# " + b.doc.Number
		cv.SetFont(layout.Regular(10))
		cv.SetFillColor(layout.MutedText)
		cv.Text(fitRight(cv, right-85, right, number), top-baselineOffset-22, number)
		cv.SetFillColor(layout.Black)
	})
	if err != nil {
		return err
	}

	if logoErr != nil {
		if !errors.Is(logoErr, layout.ErrUnsupportedImage) {
			return renderFault("logo", logoErr)
		}
		b.log.Warn().
			Err(logoErr).
			Str("logo", b.doc.Logo.Name).
			Msg("Could not load logo, continuing without it")
	}
	return nil
}

func (b *InvoiceBuilder) parties(c *layout.Compositor) error {
	doc := b.doc
	return c.Block(invoicePartiesHeight, func(cv layout.Canvas, top float64) {
		left := c.Left()
		y := top - baselineOffset

		// Issuer
		cv.SetFillColor(layout.Black)
		cv.SetFont(layout.Bold(11))
		cv.Text(left, y, doc.Issuer.Name)
		cv.SetFont(layout.Regular(10))
		cv.Text(left, y-15, doc.Issuer.AddressLine1)
		cv.Text(left, y-29, doc.Issuer.AddressLine2)

		// Dates and terms
		labelValue(cv, invoiceLabelX, invoiceValueX, y, "Date:", layout.FormatDay(doc.IssueDate))
		labelValue(cv, invoiceLabelX, invoiceValueX, y-rowSpacing, "Payment Terms:", fmt.Sprintf("%d Days", doc.PaymentTermDays))
		labelValue(cv, invoiceLabelX, invoiceValueX, y-2*rowSpacing, "Due Date:", layout.FormatDay(doc.DueDate))

		// Balance due callout
		due := top - 81
		cv.SetFillColor(layout.CalloutFill)
		cv.FillRect(invoiceLabelX-10, due-9, c.Right()-invoiceLabelX+10, 30, headerRadius)
		cv.SetFillColor(layout.Black)
		cv.SetFont(layout.Bold(12))
		cv.Text(invoiceLabelX, due, "Balance Due:")
		cv.Text(invoiceValueX, due, layout.FormatCurrency(doc.Currency, doc.Total))

		// Payer
		billed := top - 89
		cv.SetFont(layout.Regular(9))
		cv.SetFillColor(layout.MutedText)
		cv.Text(left, billed, "Billed To:")
		cv.SetFillColor(layout.Black)
		cv.SetFont(layout.Bold(10))
		cv.Text(left, billed-15, doc.Payer.Name)
		cv.SetFont(layout.Regular(10))
		cv.Text(left, billed-29, doc.Payer.AddressLine1)
		cv.Text(left, billed-43, doc.Payer.AddressLine2)
	})
}

func (b *InvoiceBuilder) items(c *layout.Compositor) error {
	doc := b.doc
	c.BeginTable(tableHeader(c.Left(), c.ContentWidth(), []column{
		{"Item", c.Left() + 15},
		{"Quantity", itemQtyX},
		{"Rate", itemRateX},
		{"Amount", itemAmountX},
	}))
	defer c.EndTable()

	// An invoice always carries exactly one line item.
	return c.Row(layout.RowHeight(1, lineHeight, rowPadding), func(cv layout.Canvas, top float64, _ bool) {
		y := top - baselineOffset
		cv.SetFillColor(layout.Black)
		cv.SetFont(layout.Bold(10))
		cv.Text(c.Left()+15, y, "Hours")

		cv.SetFont(layout.Regular(10))
		cv.Text(itemQtyX, y, layout.FormatHours(doc.Hours, 0))
		cv.Text(itemRateX, y, layout.FormatRate(doc.Currency, doc.HourlyRate))
		cv.Text(itemAmountX, y, layout.FormatCurrency(doc.Currency, doc.Subtotal))
	})
}

func (b *InvoiceBuilder) totals(c *layout.Compositor) error {
	doc := b.doc
	return c.Block(invoiceTotalsHeight, func(cv layout.Canvas, top float64) {
		y := top - 35
		cv.SetFillColor(layout.Black)
		cv.SetFont(layout.Regular(10))
		cv.Text(totalsLabelX, y, "Subtotal:")
		cv.Text(invoiceValueX, y, layout.FormatCurrency(doc.Currency, doc.Subtotal))

		y -= rowSpacing
		cv.Text(totalsLabelX, y, fmt.Sprintf("VAT (%s%%):", billing.TaxPercent.String()))
		cv.Text(invoiceValueX, y, layout.FormatCurrency(doc.Currency, doc.Tax))

		y -= rowSpacing
		cv.SetFont(layout.Bold(10))
		cv.Text(totalsLabelX, y, "Total:")
		cv.Text(invoiceValueX, y, layout.FormatCurrency(doc.Currency, doc.Total))
	})
}

func (b *InvoiceBuilder) footer(c *layout.Compositor) error {
	doc := b.doc
	return c.Block(invoiceFooterHeight, func(cv layout.Canvas, top float64) {
		left := c.Left()
		y := top - 31

		cv.SetFont(layout.Regular(9))
		cv.SetFillColor(layout.MutedText)
		cv.Text(left, y, "Details:")

		cv.SetFillColor(layout.Black)
		cv.SetFont(layout.Regular(10))
		cv.Text(left, y-15, "KvK: "+doc.Issuer.KvK)
		cv.Text(left, y-29, "BTW: "+doc.Issuer.BTW)
		cv.Text(left, y-43, "Bank Account: "+doc.Issuer.BankAccount)

		cv.SetFont(layout.Regular(9))
		cv.SetFillColor(layout.MutedText)
		cv.Text(left, y-68, "Terms:")

		cv.SetFillColor(layout.Black)
		cv.SetFont(layout.Regular(10))
		terms := layout.Wrap(PaymentTerms(doc.PaymentTermDays), c.ContentWidth(), cv.MeasureText)
		for i, line := range terms {
			cv.Text(left, y-83-float64(i)*lineHeight, line)
		}
	})
}

// PaymentTerms is the payment instruction printed in the invoice footer.
func PaymentTerms(days int) string {
	return fmt.Sprintf("Please pay the total amount within %d days to the IBAN bank account number, stating the invoice number.", days)
}
