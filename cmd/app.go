package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"wlog/internal/billing"
	"wlog/internal/generator"
	"wlog/internal/storage"
)

// app holds the services a command needs, wired from configuration and the
// persistent flags.
type app struct {
	store     *storage.Store
	generator *generator.Service
	now       func() time.Time
}

// newApp wires the store and generator on the real filesystem.
func newApp(cmd *cobra.Command) (*app, error) {
	if appConfig == nil {
		return nil, errors.New("configuration is not available, check your config file and environment")
	}

	home := appConfig.Home
	if flag, _ := cmd.Flags().GetString("home"); flag != "" {
		home = flag
	}
	outputDir := appConfig.OutputDir
	if flag, _ := cmd.Flags().GetString("output-dir"); flag != "" {
		outputDir = flag
	}

	fs := afero.NewOsFs()
	store := storage.NewStore(fs, home)
	if err := store.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to prepare storage root %s: %w", home, err)
	}

	return &app{
		store:     store,
		generator: generator.NewService(generator.Options{
			Store:     store,
			OutputFs:  fs,
			OutputDir: outputDir,
			Compress:  appConfig.CompressPDF,
		}),
		now: time.Now,
	}, nil
}

// requireSetup fails with setup instructions when no company is configured.
func (a *app) requireSetup() error {
	exists, err := a.store.ConfigExists()
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no company configured yet. Run:\n" +
			"  wlog setup company --name <name> --tag <tag> ...")
	}
	return nil
}

// monthFlag reads the --month flag. It accepts YYYY-MM or a bare month
// number in the current year; empty selects the month before today.
func (a *app) monthFlag(cmd *cobra.Command) (billing.MonthKey, error) {
	raw, _ := cmd.Flags().GetString("month")
	month, err := billing.NormalizeMonth(raw, a.now())
	if err != nil {
		return "", fmt.Errorf("invalid --month %q. Use YYYY-MM or a month number (1-12)", raw)
	}
	return month, nil
}

func addMonthFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("month", "m", "", "Month to use, YYYY-MM or 1-12 (default: previous month)")
}

// handleGenerateError provides user-friendly error messages for generation failures
func handleGenerateError(err error, clientID string, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Generation failed")

	var genErr *generator.GenerationError
	month := ""
	if errors.As(err, &genErr) {
		month = genErr.Month
	}

	switch {
	case errors.Is(err, generator.ErrUnknownClient):
		return fmt.Errorf("client %q not found. Create it with: wlog setup client %s ...", clientID, clientID)
	case errors.Is(err, storage.ErrInvalidClientID):
		return fmt.Errorf("invalid client id %q", clientID)
	case errors.Is(err, storage.ErrConfigNotFound):
		return fmt.Errorf("no company configured yet. Run: wlog setup company ...")
	case errors.Is(err, generator.ErrNoBillableHours):
		return fmt.Errorf("no billable hours for %s in %s, nothing to invoice", clientID, month)
	case errors.Is(err, generator.ErrNoLogEntries):
		return fmt.Errorf("no log entries for %s in %s, nothing to report", clientID, month)
	case errors.Is(err, storage.ErrCorruptRecord):
		return fmt.Errorf("a stored record could not be read. Check the JSON files under the storage root: %w", err)
	case errors.Is(err, billing.ErrNegativeInput):
		return fmt.Errorf("stored hours or rate are negative for %s: %w", clientID, err)
	case errors.Is(err, generator.ErrRenderFault):
		return fmt.Errorf("document could not be written, no file was produced: %w", err)
	default:
		return fmt.Errorf("generation failed: %w", err)
	}
}
