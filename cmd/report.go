package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wlog/internal/logger"
)

var reportCmd = &cobra.Command{
	Use:   "report <client>",
	Short: "Generate a PDF work-log report for a month",
	Long: `Generate a PDF listing every day worked for a client in a month with its
description, followed by the total hours, the hourly rate and the amount
(without VAT). Long months continue on further pages.

The file is named worklog-{client}-{YYYY-MM}.pdf and written to the output
directory.`,
	Example: `  # Report last month
  wlog report globex

  # Report March of the current year
  wlog report globex --month 3`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	addMonthFlag(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report")
	clientID := args[0]

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	month, err := a.monthFlag(cmd)
	if err != nil {
		return err
	}

	log.Info().
		Str("client", clientID).
		Str("month", month.String()).
		Msg("Starting work log report generation")

	path, err := a.generator.GenerateWorkLogReport(clientID, month)
	if err != nil {
		return handleGenerateError(err, clientID, log)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Work log report written to %s\n", path)
	return nil
}
