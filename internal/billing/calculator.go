// Package billing computes invoice amounts and resolves billing periods.
//
// Amounts are kept as exact decimals end to end: subtotal, tax and total are
// derived once from hours and rate and are only rounded when they are
// formatted for display.
package billing

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the VAT rate applied to every invoice subtotal.
var TaxRate = decimal.RequireFromString("0.21")

// TaxPercent is TaxRate expressed as a whole percentage for labels.
var TaxPercent = TaxRate.Shift(2)

// Amounts is the subtotal/tax/total triple of a billed period.
type Amounts struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// IsZero reports whether there is nothing to bill.
func (a Amounts) IsZero() bool {
	return a.Subtotal.IsZero() && a.Tax.IsZero() && a.Total.IsZero()
}

// Calculate derives billing amounts for hours worked at an hourly rate.
// Total is always exactly Subtotal + Tax.
func Calculate(hours, rate float64) (Amounts, error) {
	if err := checkInputs(hours, rate); err != nil {
		return Amounts{}, err
	}

	subtotal := decimal.NewFromFloat(hours).Mul(decimal.NewFromFloat(rate))
	tax := subtotal.Mul(TaxRate)

	return Amounts{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}

// Untaxed returns hours × rate with no tax applied. The work-log report
// states this figure; it is an hours statement, not a billing document.
func Untaxed(hours, rate float64) (decimal.Decimal, error) {
	if err := checkInputs(hours, rate); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(hours).Mul(decimal.NewFromFloat(rate)), nil
}

// ValidateHours rejects a negative hours value, such as one edited into a
// stored record by hand.
func ValidateHours(hours float64) error {
	if hours < 0 {
		return NewValidationError("hours", hours, "must not be negative", ErrNegativeInput)
	}
	return nil
}

// ValidateRate rejects a negative hourly rate.
func ValidateRate(rate float64) error {
	if rate < 0 {
		return NewValidationError("rate", rate, "must not be negative", ErrNegativeInput)
	}
	return nil
}

func checkInputs(hours, rate float64) error {
	if err := ValidateHours(hours); err != nil {
		return err
	}
	return ValidateRate(rate)
}
