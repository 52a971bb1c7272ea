package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wlog/internal/layout"
	"wlog/internal/logger"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List configured clients",
	Args:  cobra.NoArgs,
	RunE:  runClients,
}

func init() {
	rootCmd.AddCommand(clientsCmd)
}

func runClients(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("clients")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ids, err := a.store.ListClients()
	if err != nil {
		return handleStorageError(err, log)
	}
	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, "No clients yet. Add one with: wlog setup client <id> ...")
		return nil
	}

	currency := ""
	if cfg, err := a.store.LoadConfig(); err == nil {
		currency = cfg.Company.Currency
	}

	for _, id := range ids {
		client, err := a.store.LoadClient(id)
		if err != nil {
			log.Warn().Err(err).Str("client", id).Msg("Skipping unreadable client record")
			continue
		}
		fmt.Fprintf(out, "%-16s %-30s %s/h, %d days\n",
			id, client.Name, layout.FormatRate(currency, client.HourlyRate), client.PaymentTermDays)
	}
	return nil
}
