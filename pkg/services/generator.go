package services

import (
	"wlog/internal/billing"
	"wlog/pkg/models"
)

// DocumentGenerator defines the interface for producing client documents
type DocumentGenerator interface {
	// PrepareInvoice builds the invoice snapshot without drawing anything
	PrepareInvoice(clientID string, month billing.MonthKey) (*models.InvoiceDocument, error)

	// PrepareWorkLog builds the work-log snapshot without drawing anything
	PrepareWorkLog(clientID string, month billing.MonthKey) (*models.WorkLogDocument, error)

	// GenerateInvoice renders the invoice and returns the output path
	GenerateInvoice(clientID string, month billing.MonthKey) (string, error)

	// GenerateWorkLogReport renders the work-log report and returns the output path
	GenerateWorkLogReport(clientID string, month billing.MonthKey) (string, error)

	// ExportWorkLog writes the work-log snapshot as a spreadsheet and returns the output path
	ExportWorkLog(clientID string, month billing.MonthKey) (string, error)
}
