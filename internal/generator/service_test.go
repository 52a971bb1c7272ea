package generator_test

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wlog/internal/billing"
	"wlog/internal/generator"
	"wlog/internal/layout/layouttest"
	"wlog/internal/pdf"
	"wlog/internal/storage"
	"wlog/pkg/models"
)

const (
	storeRoot = "/data/.wlog"
	outDir    = "/out"
)

// fixedNow is in February, so the default billing month is 2026-01.
var fixedNow = time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	fs      afero.Fs
	store   *storage.Store
	service *generator.Service
}

func newFixture(t *testing.T, opts ...func(*generator.Options)) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := storage.NewStore(fs, storeRoot)

	cfg := models.NewAppConfig()
	cfg.Company = models.Company{
		Name:         "Acme Consulting",
		AddressLine1: "Keizersgracht 1",
		AddressLine2: "1015 CJ Amsterdam",
		KvK:          "12345678",
		BTW:          "NL001234567B01",
		BankAccount:  "NL91ABNA0417164300",
		Tag:          "ACME",
		Currency:     "EUR",
	}
	require.NoError(t, store.SaveConfig(cfg))

	client := models.NewClient()
	client.Name = "Globex B.V."
	client.AddressLine1 = "Main Street 5"
	client.AddressLine2 = "3011 AA Rotterdam"
	client.HourlyRate = 80
	client.Tag = "GLX"
	require.NoError(t, store.SaveClient("globex", client))

	o := generator.Options{
		Store:     store,
		OutputDir: outDir,
		Now:       func() time.Time { return fixedNow },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &fixture{fs: fs, store: store, service: generator.NewService(o)}
}

func (f *fixture) log(t *testing.T, date string, hours float64, msg string) {
	t.Helper()
	require.NoError(t, f.store.AddWorkLog("globex", date, hours, msg))
}

func (f *fixture) outputFiles(t *testing.T) []string {
	t.Helper()
	entries, err := afero.ReadDir(f.fs, outDir)
	if errors.Is(err, afero.ErrFileNotFound) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// fakeSession records drawing and lets tests inject faults.
type fakeSession struct {
	*layouttest.Canvas
	writeErr error
	closed   int
}

func (s *fakeSession) WriteTo(w io.Writer) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	_, err := io.WriteString(w, "%PDF-fake")
	return err
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

func withSession(s *fakeSession) func(*generator.Options) {
	return func(o *generator.Options) {
		o.NewSession = func(pdf.Options) (generator.Session, error) { return s, nil }
	}
}

func TestPrepareInvoice(t *testing.T) {
	f := newFixture(t)
	f.log(t, "2026-01-05", 8, "Design")
	f.log(t, "2026-01-06", 12, "Build")
	f.log(t, "2026-02-01", 3, "Next month")

	doc, err := f.service.PrepareInvoice("globex", "")
	require.NoError(t, err)

	assert.Equal(t, "ACME-GLX-2026-01", doc.Number)
	assert.Equal(t, "2026-01", doc.Month)
	assert.Equal(t, 20.0, doc.Hours)
	assert.Equal(t, "1600.00", doc.Subtotal.StringFixed(2))
	assert.Equal(t, "336.00", doc.Tax.StringFixed(2))
	assert.Equal(t, "1936.00", doc.Total.StringFixed(2))
	assert.True(t, doc.Total.Equal(doc.Subtotal.Add(doc.Tax)))
	assert.Equal(t, fixedNow, doc.IssueDate)
	assert.Equal(t, fixedNow.AddDate(0, 0, 14), doc.DueDate)
	assert.Equal(t, "Globex B.V.", doc.Payer.Name)
	assert.Equal(t, "NL91ABNA0417164300", doc.Issuer.BankAccount)
	assert.Nil(t, doc.Logo)
}

func TestPrepareInvoice_MonthOverride(t *testing.T) {
	f := newFixture(t)
	f.log(t, "2026-02-01", 3, "This month")

	doc, err := f.service.PrepareInvoice("globex", "2026-02")
	require.NoError(t, err)
	assert.Equal(t, "ACME-GLX-2026-02", doc.Number)
	assert.Equal(t, 3.0, doc.Hours)
}

func TestPrepareInvoice_PreviousMonthWrapsYear(t *testing.T) {
	f := newFixture(t, func(o *generator.Options) {
		o.Now = func() time.Time { return time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC) }
	})
	f.log(t, "2025-12-30", 5, "Year end")

	doc, err := f.service.PrepareInvoice("globex", "")
	require.NoError(t, err)
	assert.Equal(t, "ACME-GLX-2025-12", doc.Number)
}

func TestPrepareInvoice_NothingToBill(t *testing.T) {
	t.Run("no hours", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.PrepareInvoice("globex", "")
		assert.True(t, errors.Is(err, generator.ErrNoBillableHours))
	})

	t.Run("zero rate", func(t *testing.T) {
		f := newFixture(t)
		client, err := f.store.LoadClient("globex")
		require.NoError(t, err)
		client.HourlyRate = 0
		require.NoError(t, f.store.SaveClient("globex", client))
		f.log(t, "2026-01-05", 8, "Pro bono")

		_, err = f.service.PrepareInvoice("globex", "")
		assert.True(t, errors.Is(err, generator.ErrNoBillableHours))
	})
}

func TestPrepareWorkLog_SortsEntries(t *testing.T) {
	f := newFixture(t)
	f.log(t, "2026-01-15", 4, "Logged first")
	f.log(t, "2026-01-01", 2.5, "Logged second")
	f.log(t, "2026-01-09", 3, "Logged third")

	doc, err := f.service.PrepareWorkLog("globex", "")
	require.NoError(t, err)

	require.Len(t, doc.Entries, 3)
	assert.Equal(t, "2026-01-01", doc.Entries[0].Date)
	assert.Equal(t, "2026-01-09", doc.Entries[1].Date)
	assert.Equal(t, "2026-01-15", doc.Entries[2].Date)
	assert.Equal(t, 9.5, doc.TotalHours)
	assert.Equal(t, "760.00", doc.Amount.StringFixed(2), "work-log amount carries no tax")
	assert.Equal(t, "EUR", doc.Currency)
}

func TestPrepareWorkLog_NoEntries(t *testing.T) {
	f := newFixture(t)
	f.log(t, "2026-02-01", 3, "Wrong month")

	_, err := f.service.PrepareWorkLog("globex", "")
	assert.True(t, errors.Is(err, generator.ErrNoLogEntries))
}

func TestGenerateInvoice_IdempotentPath(t *testing.T) {
	f := newFixture(t)
	f.log(t, "2026-01-05", 20, "Build")

	first, err := f.service.GenerateInvoice("globex", "")
	require.NoError(t, err)
	second, err := f.service.GenerateInvoice("globex", "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outDir, "ACME-GLX-2026-01.pdf"), first)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"ACME-GLX-2026-01.pdf"}, f.outputFiles(t), "no temporary files are left behind")

	data, err := afero.ReadFile(f.fs, first)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestGenerateInvoice_NoBillableHoursWritesNothing(t *testing.T) {
	session := &fakeSession{Canvas: layouttest.New()}
	f := newFixture(t, withSession(session))

	path, err := f.service.GenerateInvoice("globex", "")
	require.Error(t, err)
	assert.Empty(t, path)
	assert.True(t, errors.Is(err, generator.ErrNoBillableHours))
	assert.Empty(t, f.outputFiles(t))
	assert.Zero(t, session.Pages(), "nothing is drawn before the data checks pass")
}

func TestGenerate_UnknownClient(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.GenerateInvoice("nobody", "2026-01")
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrUnknownClient))

	var genErr *generator.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "nobody", genErr.ClientID)
	assert.Equal(t, "2026-01", genErr.Month)

	_, err = f.service.GenerateWorkLogReport("nobody", "")
	assert.True(t, errors.Is(err, generator.ErrUnknownClient))
}

func TestGenerateWorkLogReport(t *testing.T) {
	f := newFixture(t)
	f.log(t, "2026-01-15", 4, "Review")
	f.log(t, "2026-01-01", 3, "Kickoff")

	path, err := f.service.GenerateWorkLogReport("globex", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "worklog-globex-2026-01.pdf"), path)

	exists, err := afero.Exists(f.fs, path)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = f.service.GenerateWorkLogReport("globex", "2025-11")
	assert.True(t, errors.Is(err, generator.ErrNoLogEntries))
}

func TestGenerate_RenderFaultLeavesNoFile(t *testing.T) {
	t.Run("page allocation", func(t *testing.T) {
		session := &fakeSession{Canvas: layouttest.New()}
		session.FailOnPage = 1
		f := newFixture(t, withSession(session))
		f.log(t, "2026-01-05", 20, "Build")

		path, err := f.service.GenerateInvoice("globex", "")
		require.Error(t, err)
		assert.Empty(t, path)
		assert.True(t, errors.Is(err, generator.ErrRenderFault))
		assert.Empty(t, f.outputFiles(t))
		assert.Equal(t, 1, session.closed, "the session is released on failure")
	})

	t.Run("write", func(t *testing.T) {
		session := &fakeSession{Canvas: layouttest.New(), writeErr: errors.New("disk full")}
		f := newFixture(t, withSession(session))
		f.log(t, "2026-01-05", 4, "Build")

		_, err := f.service.GenerateWorkLogReport("globex", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, generator.ErrRenderFault))
		assert.Empty(t, f.outputFiles(t))
		assert.Equal(t, 1, session.closed)
	})

	t.Run("session cannot open", func(t *testing.T) {
		f := newFixture(t, func(o *generator.Options) {
			o.NewSession = func(pdf.Options) (generator.Session, error) { return nil, errors.New("no fonts") }
		})
		f.log(t, "2026-01-05", 4, "Build")

		_, err := f.service.GenerateInvoice("globex", "")
		assert.True(t, errors.Is(err, generator.ErrRenderFault))
	})
}

func TestGenerate_SessionClosedOnSuccess(t *testing.T) {
	session := &fakeSession{Canvas: layouttest.New()}
	f := newFixture(t, withSession(session))
	f.log(t, "2026-01-05", 20, "Build")

	_, err := f.service.GenerateInvoice("globex", "")
	require.NoError(t, err)
	assert.Equal(t, 1, session.closed)
	assert.Equal(t, 1, session.Pages())
}

func TestGenerateInvoice_UnreadableLogoIsSkipped(t *testing.T) {
	f := newFixture(t)
	cfg, err := f.store.LoadConfig()
	require.NoError(t, err)
	cfg.Company.LogoPath = storeRoot + "/logos/logo.jpg"
	require.NoError(t, f.store.SaveConfig(cfg))
	f.log(t, "2026-01-05", 20, "Build")

	doc, err := f.service.PrepareInvoice("globex", "")
	require.NoError(t, err)
	assert.Nil(t, doc.Logo)

	require.NoError(t, afero.WriteFile(f.fs, cfg.Company.LogoPath, []byte("not really a jpeg"), 0o644))
	path, err := f.service.GenerateInvoice("globex", "")
	require.NoError(t, err, "an undecodable logo never aborts the invoice")
	assert.True(t, strings.HasSuffix(path, "ACME-GLX-2026-01.pdf"))
}

func TestGenerate_PageCountOnDisk(t *testing.T) {
	dir := t.TempDir()
	osFs := afero.NewOsFs()
	store := storage.NewStore(osFs, filepath.Join(dir, "home"))

	cfg := models.NewAppConfig()
	cfg.Company = models.Company{Name: "Acme", Tag: "ACME", Currency: "EUR"}
	require.NoError(t, store.SaveConfig(cfg))
	client := models.NewClient()
	client.Name = "Globex"
	client.Tag = "GLX"
	client.HourlyRate = 95
	require.NoError(t, store.SaveClient("globex", client))

	message := strings.Repeat("Investigate flaky integration tests and stabilise the pipeline. ", 4)
	for day := 1; day <= 31; day++ {
		date := time.Date(2026, time.January, day, 0, 0, 0, 0, time.UTC)
		require.NoError(t, store.AddWorkLog("globex", billing.FormatDate(date), 6, message))
	}

	service := generator.NewService(generator.Options{
		Store:     store,
		OutputDir: filepath.Join(dir, "out"),
		Now:       func() time.Time { return fixedNow },
		Compress:  true,
	})

	report, err := service.GenerateWorkLogReport("globex", "")
	require.NoError(t, err)
	pages, err := api.PageCountFile(report)
	require.NoError(t, err)
	assert.Greater(t, pages, 1, "31 long entries spill onto more pages")

	invoice, err := service.GenerateInvoice("globex", "")
	require.NoError(t, err)
	pages, err = api.PageCountFile(invoice)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestExportWorkLog(t *testing.T) {
	f := newFixture(t)
	f.log(t, "2026-01-15", 4, "Review")
	f.log(t, "2026-01-01", 3, "Kickoff")

	path, err := f.service.ExportWorkLog("globex", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "worklog-globex-2026-01.xlsx"), path)
	assert.Equal(t, []string{"worklog-globex-2026-01.xlsx"}, f.outputFiles(t))

	data, err := afero.ReadFile(f.fs, path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx is a zip container")

	_, err = f.service.ExportWorkLog("globex", "2025-06")
	assert.True(t, errors.Is(err, generator.ErrNoLogEntries))
}

// writeClientJSON replaces the stored globex record with raw JSON, as a user
// editing the file by hand would.
func (f *fixture) writeClientJSON(t *testing.T, raw string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.fs, storeRoot+"/clients/globex.json", []byte(raw), 0o644))
}

func TestPrepare_RejectsNegativeStoredValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"negative entry", `{"name":"Globex","tag":"GLX","hourly_rate":80,"logs":{"2026-01":{"2026-01-05":{"hours":-8}}}}`},
		{"negative entry offset by another day", `{"name":"Globex","tag":"GLX","hourly_rate":80,` +
			`"logs":{"2026-01":{"2026-01-05":{"hours":-8},"2026-01-06":{"hours":10}}}}`},
		{"negative rate", `{"name":"Globex","tag":"GLX","hourly_rate":-80,"logs":{"2026-01":{"2026-01-05":{"hours":8}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.writeClientJSON(t, tt.raw)

			_, err := f.service.PrepareInvoice("globex", "")
			assert.True(t, errors.Is(err, billing.ErrNegativeInput), "invoice: %v", err)
			assert.False(t, errors.Is(err, generator.ErrNoBillableHours))

			_, err = f.service.PrepareWorkLog("globex", "")
			assert.True(t, errors.Is(err, billing.ErrNegativeInput), "work log: %v", err)

			_, err = f.service.GenerateInvoice("globex", "")
			assert.True(t, errors.Is(err, billing.ErrNegativeInput))
			_, err = f.service.GenerateWorkLogReport("globex", "")
			assert.True(t, errors.Is(err, billing.ErrNegativeInput))
			assert.Empty(t, f.outputFiles(t), "no document is written for invalid records")

			var vErr *billing.ValidationError
			assert.True(t, errors.As(err, &vErr))
		})
	}
}

func TestPrepareInvoice_ReadsClockOnce(t *testing.T) {
	// The first reading is just before midnight on Jan 31; any later reading
	// falls in February and would resolve a different month.
	ticks := []time.Time{
		time.Date(2026, time.January, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2026, time.February, 1, 0, 0, 1, 0, time.UTC),
	}
	calls := 0
	f := newFixture(t, func(o *generator.Options) {
		o.Now = func() time.Time {
			now := ticks[min(calls, len(ticks)-1)]
			calls++
			return now
		}
	})
	f.log(t, "2025-12-10", 5, "December work")

	doc, err := f.service.PrepareInvoice("globex", "")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "2025-12", doc.Month)
	assert.Equal(t, ticks[0], doc.IssueDate)
	assert.Equal(t, ticks[0].AddDate(0, 0, 14), doc.DueDate)
}
