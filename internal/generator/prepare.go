package generator

import (
	"fmt"
	"path/filepath"

	"wlog/internal/billing"
	"wlog/internal/layout"
	"wlog/internal/storage"
	"wlog/pkg/models"
)

// InvoiceNumber is the stable identifier of a client's invoice for month.
func InvoiceNumber(issuerTag, clientTag string, month billing.MonthKey) string {
	return fmt.Sprintf("%s-%s-%s", issuerTag, clientTag, month)
}

// WorkLogFileName is the output file name of a work-log report.
func WorkLogFileName(clientID string, month billing.MonthKey) string {
	return fmt.Sprintf("worklog-%s-%s.pdf", clientID, month)
}

// WorkLogExportName is the output file name of a work-log spreadsheet.
func WorkLogExportName(clientID string, month billing.MonthKey) string {
	return fmt.Sprintf("worklog-%s-%s.xlsx", clientID, month)
}

// PrepareInvoice builds the invoice snapshot for clientID. An empty month
// selects the month before today.
func (s *Service) PrepareInvoice(clientID string, month billing.MonthKey) (*models.InvoiceDocument, error) {
	const op = "PrepareInvoice"
	now := s.now()
	month = billing.ResolveMonth(month, now)

	cfg, client, err := s.load(clientID)
	if err != nil {
		return nil, newGenerationError(op, clientID, month.String(), err)
	}
	if err := validateMonth(client, month); err != nil {
		return nil, newGenerationError(op, clientID, month.String(), err)
	}

	hours := storage.MonthTotalHours(client, month)
	if hours <= 0 {
		return nil, newGenerationError(op, clientID, month.String(), ErrNoBillableHours)
	}

	amounts, err := billing.Calculate(hours, client.HourlyRate)
	if err != nil {
		return nil, newGenerationError(op, clientID, month.String(), err)
	}
	if amounts.IsZero() {
		return nil, newGenerationError(op, clientID, month.String(), ErrNoBillableHours)
	}

	issued := now
	company := cfg.Company
	doc := &models.InvoiceDocument{
		Number:          InvoiceNumber(company.Tag, client.Tag, month),
		Month:           month.String(),
		IssueDate:       issued,
		DueDate:         issued.AddDate(0, 0, client.PaymentTermDays),
		PaymentTermDays: client.PaymentTermDays,
		Issuer: models.Issuer{
			Party: models.Party{
				Name:         company.Name,
				AddressLine1: company.AddressLine1,
				AddressLine2: company.AddressLine2,
			},
			KvK:         company.KvK,
			BTW:         company.BTW,
			BankAccount: company.BankAccount,
		},
		Payer: models.Party{
			Name:         client.Name,
			AddressLine1: client.AddressLine1,
			AddressLine2: client.AddressLine2,
		},
		Hours:      hours,
		HourlyRate: client.HourlyRate,
		Subtotal:   amounts.Subtotal,
		Tax:        amounts.Tax,
		Total:      amounts.Total,
		Currency:   company.Currency,
		Logo:       s.loadLogo(company.LogoPath),
	}
	return doc, nil
}

// PrepareWorkLog builds the work-log snapshot for clientID. An empty month
// selects the month before today.
func (s *Service) PrepareWorkLog(clientID string, month billing.MonthKey) (*models.WorkLogDocument, error) {
	const op = "PrepareWorkLog"
	month = billing.ResolveMonth(month, s.now())

	cfg, client, err := s.load(clientID)
	if err != nil {
		return nil, newGenerationError(op, clientID, month.String(), err)
	}

	entries := storage.MonthEntries(client, month)
	if len(entries) == 0 {
		return nil, newGenerationError(op, clientID, month.String(), ErrNoLogEntries)
	}
	if err := validateMonth(client, month); err != nil {
		return nil, newGenerationError(op, clientID, month.String(), err)
	}

	hours := storage.MonthTotalHours(client, month)
	amount, err := billing.Untaxed(hours, client.HourlyRate)
	if err != nil {
		return nil, newGenerationError(op, clientID, month.String(), err)
	}

	return &models.WorkLogDocument{
		ClientID: clientID,
		Client: models.Party{
			Name:         client.Name,
			AddressLine1: client.AddressLine1,
			AddressLine2: client.AddressLine2,
		},
		Month:      month.String(),
		Currency:   cfg.Company.Currency,
		HourlyRate: client.HourlyRate,
		Entries:    entries,
		TotalHours: hours,
		Amount:     amount,
	}, nil
}

// validateMonth rejects a negative rate or any negative entry in month before
// anything is summed, so a hand-edited record cannot offset other days.
func validateMonth(client *models.Client, month billing.MonthKey) error {
	if err := billing.ValidateRate(client.HourlyRate); err != nil {
		return err
	}
	for _, e := range storage.MonthEntries(client, month) {
		if err := billing.ValidateHours(e.Hours); err != nil {
			return fmt.Errorf("entry %s: %w", e.Date, err)
		}
	}
	return nil
}

func (s *Service) load(clientID string) (*models.AppConfig, *models.Client, error) {
	client, err := s.store.LoadClient(clientID)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := s.store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

// loadLogo reads the configured logo. A missing or unreadable file is not
// fatal; the invoice is drawn without it.
func (s *Service) loadLogo(path string) *models.Logo {
	if path == "" {
		return nil
	}
	data, err := s.store.ReadLogo(path)
	if err != nil {
		s.log.Warn().Err(err).Str("logo", path).Msg("Could not read logo, continuing without it")
		return nil
	}
	if len(data) == 0 {
		s.log.Warn().Err(layout.ErrUnsupportedImage).Str("logo", path).Msg("Logo file is empty")
		return nil
	}
	return &models.Logo{Name: filepath.Base(path), Data: data}
}
