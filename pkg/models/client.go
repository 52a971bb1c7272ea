package models

// DefaultPaymentTermDays applies when a client record does not set its own term.
const DefaultPaymentTermDays = 14

// DefaultCurrency applies when the company record does not set a currency.
const DefaultCurrency = "EUR"

// WorkLog is the hours logged for one client on one date.
type WorkLog struct {
	Hours   float64 `json:"hours" validate:"finite,gt=0"` // Hours worked, always positive
	Message string  `json:"message"`               // Free-text description, may be empty
}

// Client is the persisted record of a client, stored as clients/<id>.json.
type Client struct {
	// Identity
	Name         string `json:"name" validate:"required"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	Tag          string `json:"tag" validate:"required,excludesall=/\\ "` // Short code used in invoice numbers

	// Billing terms
	HourlyRate        float64 `json:"hourly_rate" validate:"finite,gte=0"`
	PaymentTermDays   int     `json:"payment_term_days" validate:"gte=0"`
	NextInvoiceNumber int     `json:"next_invoice_number" validate:"gte=1"`

	// Logs are keyed month (YYYY-MM) then date (YYYY-MM-DD).
	Logs map[string]map[string]WorkLog `json:"logs"`
}

// NewClient returns a client record carrying the default terms. Decoding a
// stored record into it keeps the defaults for fields the file omits.
func NewClient() *Client {
	return &Client{
		PaymentTermDays:   DefaultPaymentTermDays,
		NextInvoiceNumber: 1,
		Logs:              make(map[string]map[string]WorkLog),
	}
}

// Company is the issuer of invoices.
type Company struct {
	Name         string `json:"name" validate:"required"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	KvK          string `json:"kvk"`          // Chamber of commerce number
	BTW          string `json:"btw"`          // VAT identification number
	BankAccount  string `json:"bank_account"` // IBAN
	Tag          string `json:"tag" validate:"required,excludesall=/\\ "`
	LogoPath     string `json:"logo_path"`
	Currency     string `json:"currency" validate:"required,len=3,alpha"`
}

// AppConfig is the persisted config.json document.
type AppConfig struct {
	Company Company `json:"company"`
}

// NewAppConfig returns a config document carrying the default currency.
func NewAppConfig() *AppConfig {
	return &AppConfig{Company: Company{Currency: DefaultCurrency}}
}
