// Package generator turns stored work logs into invoice and work-log PDFs.
//
// Each generation is one synchronous pass: load the records, prepare an
// immutable document snapshot, lay it out on a fresh canvas session and write
// the result. Failures before drawing (unknown client, nothing to bill,
// nothing to report) never touch the output directory; a render fault never
// leaves a file at the final path.
//
// Output names are deterministic:
//   - invoices: {companyTag}-{clientTag}-{YYYY-MM}.pdf
//   - reports:  worklog-{clientID}-{YYYY-MM}.pdf
//   - exports:  worklog-{clientID}-{YYYY-MM}.xlsx
//
// Regenerating for the same client and month overwrites the previous file.
package generator

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"wlog/internal/billing"
	"wlog/internal/document"
	"wlog/internal/export"
	"wlog/internal/layout"
	"wlog/internal/logger"
	"wlog/internal/pdf"
	"wlog/internal/storage"
	"wlog/pkg/services"
)

// Session is a canvas scoped to one document. It is written once and closed
// on every exit path.
type Session interface {
	layout.Canvas
	WriteTo(w io.Writer) error
	Close() error
}

// SessionFactory opens a new canvas session.
type SessionFactory func(opts pdf.Options) (Session, error)

// OpenPDF is the default SessionFactory.
func OpenPDF(opts pdf.Options) (Session, error) {
	return pdf.Open(opts)
}

// Options configures a Service.
type Options struct {
	// Store is the record store documents are prepared from.
	Store *storage.Store

	// OutputFs and OutputDir locate generated files. OutputFs defaults to the
	// store's filesystem.
	OutputFs  afero.Fs
	OutputDir string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// NewSession opens canvas sessions. Defaults to OpenPDF.
	NewSession SessionFactory

	// Compress enables PDF stream compression.
	Compress bool
}

// Service generates documents from stored records.
type Service struct {
	store      *storage.Store
	out        afero.Fs
	outDir     string
	now        func() time.Time
	newSession SessionFactory
	compress   bool
	log        zerolog.Logger
}

var _ services.DocumentGenerator = (*Service)(nil)

// NewService creates a Service.
func NewService(opts Options) *Service {
	s := &Service{
		store:      opts.Store,
		out:        opts.OutputFs,
		outDir:     opts.OutputDir,
		now:        opts.Now,
		newSession: opts.NewSession,
		compress:   opts.Compress,
		log:        logger.WithComponent("generator"),
	}
	if s.out == nil {
		s.out = opts.Store.Fs()
	}
	if s.outDir == "" {
		s.outDir = "."
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newSession == nil {
		s.newSession = OpenPDF
	}
	return s
}

// GenerateInvoice renders the invoice for clientID and returns its path.
// An empty month selects the month before today.
func (s *Service) GenerateInvoice(clientID string, month billing.MonthKey) (string, error) {
	const op = "GenerateInvoice"
	log := s.sessionLogger(op, clientID)

	doc, err := s.PrepareInvoice(clientID, month)
	if err != nil {
		return "", newGenerationError(op, clientID, month.String(), err)
	}

	opts := pdf.Options{
		Title:    "Invoice " + doc.Number,
		Author:   doc.Issuer.Name,
		Subject:  "Invoice for " + doc.Month,
		Compress: s.compress,
	}
	builder := document.NewInvoiceBuilder(doc).WithLogger(log)
	path, err := s.render(opts, doc.Number+".pdf", builder.Build)
	if err != nil {
		return "", newGenerationError(op, clientID, doc.Month, err)
	}

	log.Info().
		Str("month", doc.Month).
		Str("invoice", doc.Number).
		Str("total", doc.Total.StringFixed(2)).
		Str("path", path).
		Msg("Invoice generated")
	return path, nil
}

// GenerateWorkLogReport renders the work-log report for clientID and returns
// its path. An empty month selects the month before today.
func (s *Service) GenerateWorkLogReport(clientID string, month billing.MonthKey) (string, error) {
	const op = "GenerateWorkLogReport"
	log := s.sessionLogger(op, clientID)

	doc, err := s.PrepareWorkLog(clientID, month)
	if err != nil {
		return "", newGenerationError(op, clientID, month.String(), err)
	}

	opts := pdf.Options{
		Title:    "Work Log Report " + doc.Client.Name + " " + doc.Month,
		Subject:  "Work log for " + doc.Month,
		Compress: s.compress,
	}
	builder := document.NewWorkLogBuilder(doc).WithLogger(log)
	name := WorkLogFileName(clientID, billing.MonthKey(doc.Month))
	path, err := s.render(opts, name, builder.Build)
	if err != nil {
		return "", newGenerationError(op, clientID, doc.Month, err)
	}

	log.Info().
		Str("month", doc.Month).
		Int("entries", len(doc.Entries)).
		Str("path", path).
		Msg("Work log report generated")
	return path, nil
}

// ExportWorkLog writes the work-log snapshot of clientID as an Excel
// workbook next to the PDF report and returns its path.
func (s *Service) ExportWorkLog(clientID string, month billing.MonthKey) (string, error) {
	const op = "ExportWorkLog"
	log := s.sessionLogger(op, clientID)

	doc, err := s.PrepareWorkLog(clientID, month)
	if err != nil {
		return "", newGenerationError(op, clientID, month.String(), err)
	}

	name := WorkLogExportName(clientID, billing.MonthKey(doc.Month))
	path, err := s.save(name, func(w io.Writer) error {
		return export.WriteWorkLogXLSX(w, doc)
	})
	if err != nil {
		return "", newGenerationError(op, clientID, doc.Month, err)
	}

	log.Info().
		Str("month", doc.Month).
		Int("entries", len(doc.Entries)).
		Str("path", path).
		Msg("Work log exported")
	return path, nil
}

// render opens a session, draws into it and saves it as name in the output
// directory.
func (s *Service) render(opts pdf.Options, name string, build func(layout.Canvas) error) (path string, err error) {
	session, err := s.newSession(opts)
	if err != nil {
		return "", fmt.Errorf("%w: open document: %w", ErrRenderFault, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close document: %w", ErrRenderFault, cerr)
		}
	}()

	if err := build(session); err != nil {
		return "", err
	}

	return s.save(name, session.WriteTo)
}

// save writes name in the output directory through write. The content goes
// to a temporary file first and is renamed into place only after a complete
// write.
func (s *Service) save(name string, write func(io.Writer) error) (string, error) {
	if err := s.out.MkdirAll(s.outDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output directory: %w", ErrRenderFault, err)
	}
	final := filepath.Join(s.outDir, name)
	tmp, err := afero.TempFile(s.out, s.outDir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("%w: create output file: %w", ErrRenderFault, err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		_ = s.out.Remove(tmpName)
		return "", fmt.Errorf("%w: write %s: %w", ErrRenderFault, name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.out.Remove(tmpName)
		return "", fmt.Errorf("%w: write %s: %w", ErrRenderFault, name, err)
	}
	if err := s.out.Rename(tmpName, final); err != nil {
		_ = s.out.Remove(tmpName)
		return "", fmt.Errorf("%w: save %s: %w", ErrRenderFault, name, err)
	}
	return final, nil
}

func (s *Service) sessionLogger(op, clientID string) zerolog.Logger {
	return logger.WithSession(s.log, uuid.NewString()).With().
		Str("op", op).
		Str("client", clientID).
		Logger()
}
