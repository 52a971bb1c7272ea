package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wlog/internal/layout"
	"wlog/internal/logger"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice <client>",
	Short: "Generate a PDF invoice for a month of logged hours",
	Long: `Generate a one-page PDF invoice for all hours logged for a client in a
month, billed at the client's hourly rate plus 21% VAT.

The file is named {companyTag}-{clientTag}-{YYYY-MM}.pdf and written to the
output directory. Generating the same month again replaces the file.`,
	Example: `  # Invoice last month's hours
  wlog invoice globex

  # Invoice a specific month into a given directory
  wlog invoice globex --month 2026-03 --output-dir ~/invoices

  # Preview the amounts without writing a file
  wlog invoice globex --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoice,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)

	addMonthFlag(invoiceCmd)
	invoiceCmd.Flags().Bool("dry-run", false, "Print the invoice amounts without writing a file")
}

func runInvoice(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")
	clientID := args[0]

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	month, err := a.monthFlag(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	log.Info().
		Str("client", clientID).
		Str("month", month.String()).
		Bool("dry_run", dryRun).
		Msg("Starting invoice generation")

	if dryRun {
		doc, err := a.generator.PrepareInvoice(clientID, month)
		if err != nil {
			return handleGenerateError(err, clientID, log)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Invoice %s for %s\n", doc.Number, doc.Payer.Name)
		fmt.Fprintf(out, "  Hours:    %s at %s/h\n", layout.FormatHours(doc.Hours, 2), layout.FormatRate(doc.Currency, doc.HourlyRate))
		fmt.Fprintf(out, "  Subtotal: %s\n", layout.FormatCurrency(doc.Currency, doc.Subtotal))
		fmt.Fprintf(out, "  VAT 21%%:  %s\n", layout.FormatCurrency(doc.Currency, doc.Tax))
		fmt.Fprintf(out, "  Total:    %s\n", layout.FormatCurrency(doc.Currency, doc.Total))
		fmt.Fprintf(out, "  Due:      %s\n", layout.FormatDay(doc.DueDate))
		return nil
	}

	path, err := a.generator.GenerateInvoice(clientID, month)
	if err != nil {
		return handleGenerateError(err, clientID, log)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Invoice written to %s\n", path)
	return nil
}
