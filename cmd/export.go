package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wlog/internal/logger"
)

var exportCmd = &cobra.Command{
	Use:   "export <client>",
	Short: "Export a month of work logs to an Excel workbook",
	Long: `Write the same rows and totals as the work-log report to an .xlsx
workbook, for bookkeeping tools that import spreadsheets.

The file is named worklog-{client}-{YYYY-MM}.xlsx and written to the output
directory.`,
	Example: `  # Export last month
  wlog export globex

  # Export a specific month
  wlog export globex --month 2026-01 --output-dir ~/bookkeeping`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addMonthFlag(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")
	clientID := args[0]

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	month, err := a.monthFlag(cmd)
	if err != nil {
		return err
	}

	path, err := a.generator.ExportWorkLog(clientID, month)
	if err != nil {
		return handleGenerateError(err, clientID, log)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Work log exported to %s\n", path)
	return nil
}
