package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"wlog/internal/billing"
	"wlog/internal/logger"
	"wlog/internal/storage"
	"wlog/pkg/models"
)

var showCmd = &cobra.Command{
	Use:   "show <client>",
	Short: "List the logged hours of a month",
	Long: `Print the work logged for a client in one month, ordered by date, with
the month's total. Without --month the current month is shown.`,
	Example: `  # Current month
  wlog show globex

  # A past month
  wlog show globex --month 2026-01

  # Only today's entry
  wlog show globex --today`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("month", "m", "", "Month to show, YYYY-MM or 1-12 (default: current month)")
	showCmd.Flags().BoolP("today", "t", false, "Show only today's entry")
}

func runShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("show")
	clientID := args[0]

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	client, err := a.store.LoadClient(clientID)
	if err != nil {
		return handleStorageError(err, log)
	}

	now := a.now()
	today, _ := cmd.Flags().GetBool("today")
	raw, _ := cmd.Flags().GetString("month")

	month := billing.MonthFromTime(now)
	if !today && raw != "" {
		month, err = billing.NormalizeMonth(raw, now)
		if err != nil {
			return fmt.Errorf("invalid --month %q. Use YYYY-MM or a month number (1-12)", raw)
		}
	}

	entries := storage.MonthEntries(client, month)
	if today {
		entries = entriesOn(entries, billing.FormatDate(now))
	}

	log.Debug().
		Str("client", clientID).
		Str("month", month.String()).
		Int("entries", len(entries)).
		Msg("Showing work log")

	return printLogs(cmd.OutOrStdout(), client.Name, month, today, entries)
}

func entriesOn(entries []models.WorkLogEntry, date string) []models.WorkLogEntry {
	var out []models.WorkLogEntry
	for _, e := range entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// printLogs writes the console listing of entries.
func printLogs(w io.Writer, clientName string, month billing.MonthKey, today bool, entries []models.WorkLogEntry) error {
	p := message.NewPrinter(language.English)
	rule := strings.Repeat("-", 40)

	title := "Today"
	if !today {
		title = month.String()
		if t, err := month.Time(); err == nil {
			title = t.Format("January 2006")
		}
	}
	if _, err := p.Fprintf(w, "%s - %s\n%s\n", clientName, title, rule); err != nil {
		return err
	}

	if len(entries) == 0 {
		period := "month"
		if today {
			period = "day"
		}
		_, err := p.Fprintf(w, "No logs for this %s.\n", period)
		return err
	}

	var total float64
	for _, e := range entries {
		day := e.Date
		if t, err := time.Parse("2006-01-02", e.Date); err == nil {
			day = t.Format("Jan 02")
		}
		if _, err := p.Fprintf(w, "%s   %.1fh   %s\n", day, e.Hours, e.Message); err != nil {
			return err
		}
		total += e.Hours
	}

	_, err := p.Fprintf(w, "%s\nTotal: %.1f hours\n", rule, total)
	return err
}
