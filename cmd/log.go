package cmd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wlog/internal/billing"
	"wlog/internal/logger"
	"wlog/internal/storage"
)

var logCmd = &cobra.Command{
	Use:   "log <client> <hours> [message...]",
	Short: "Record hours worked for a client",
	Long: `Record the hours worked for a client on one day, with an optional
description. Logging the same client and day again replaces the earlier
entry.`,
	Example: `  # Log 7.5 hours for today
  wlog log globex 7.5 Sprint planning and backlog grooming

  # Log hours for an earlier day
  wlog log globex 4 --date 2026-01-15 Code review`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().StringP("date", "d", "", "Day worked, YYYY-MM-DD (default: today)")
}

func runLog(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("log")
	clientID := args[0]

	hours, err := strconv.ParseFloat(args[1], 64)
	if err != nil || math.IsInf(hours, 0) || math.IsNaN(hours) {
		return fmt.Errorf("invalid hours %q. Use a number such as 7.5", args[1])
	}
	message := strings.Join(args[2:], " ")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = billing.FormatDate(a.now())
	}

	if err := a.store.AddWorkLog(clientID, date, hours, message); err != nil {
		if errors.Is(err, billing.ErrInvalidDate) {
			return fmt.Errorf("invalid --date %q. Use YYYY-MM-DD", date)
		}
		var fieldErr *storage.FieldError
		if errors.As(err, &fieldErr) && fieldErr.Field == "Hours" {
			return fmt.Errorf("hours must be greater than zero")
		}
		return handleStorageError(err, log)
	}

	log.Info().
		Str("client", clientID).
		Str("date", date).
		Float64("hours", hours).
		Msg("Work logged")
	fmt.Fprintf(cmd.OutOrStdout(), "Logged %s hours for %s on %s\n", strconv.FormatFloat(hours, 'f', -1, 64), clientID, date)
	return nil
}
