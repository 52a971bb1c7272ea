package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Party is a named postal identity printed on a document.
type Party struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
}

// Issuer is the invoicing company with its legal and banking identifiers.
type Issuer struct {
	Party
	KvK         string
	BTW         string
	BankAccount string
}

// Logo is an image embedded in a document header.
type Logo struct {
	Name string
	Data []byte
}

// InvoiceDocument is the read-only snapshot an invoice is rendered from.
type InvoiceDocument struct {
	// Identification
	Number string // {issuerTag}-{clientTag}-{month}, stable per client and month
	Month  string // Billed month, YYYY-MM

	// Dates
	IssueDate       time.Time
	DueDate         time.Time // IssueDate + PaymentTermDays
	PaymentTermDays int

	// Parties
	Issuer Issuer
	Payer  Party

	// Amounts
	Hours      float64
	HourlyRate float64
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal // Always Subtotal + Tax
	Currency   string

	Logo *Logo // nil when no usable logo is configured
}

// WorkLogEntry is one dated row of a work-log report.
type WorkLogEntry struct {
	Date    string // YYYY-MM-DD
	Hours   float64
	Message string
}

// WorkLogDocument is the read-only snapshot a work-log report is rendered
// from. Amount is hours times rate with no tax applied.
type WorkLogDocument struct {
	ClientID   string
	Client     Party
	Month      string
	Currency   string
	HourlyRate float64
	Entries    []WorkLogEntry // Ascending by date
	TotalHours float64
	Amount     decimal.Decimal
}
