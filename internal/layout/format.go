package layout

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	storageDateLayout = "2006-01-02"
	displayDateLayout = "Jan 02, 2006"
)

// currencySymbols covers the built-in currencies. Any other code is printed
// as the code itself.
var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
}

// FormatCurrency renders amount as "{symbol} {amount}" with two decimals.
func FormatCurrency(code string, amount decimal.Decimal) string {
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code
	}
	return symbol + " " + amount.StringFixed(2)
}

// FormatRate renders an hourly rate stored as a float.
func FormatRate(code string, rate float64) string {
	return FormatCurrency(code, decimal.NewFromFloat(rate))
}

// FormatHours renders hours with a fixed number of decimals.
func FormatHours(hours float64, places int32) string {
	return decimal.NewFromFloat(hours).StringFixed(places)
}

// FormatDate turns a YYYY-MM-DD key into "Mon DD, YYYY" for display.
// Input that is not a valid date is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(storageDateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(displayDateLayout)
}

// FormatDay renders t as "Mon DD, YYYY".
func FormatDay(t time.Time) string {
	return t.Format(displayDateLayout)
}
