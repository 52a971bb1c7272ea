package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wlog/internal/logger"
	"wlog/internal/storage"
	"wlog/pkg/models"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the invoicing company and its clients",
	Long: `Create or update the records invoices are built from.

The company record holds the issuer shown on every invoice. Each client
record holds the billing address, hourly rate and payment terms. Flags that
are not given keep their stored value, so a single field can be changed
without repeating the others.`,
}

var setupCompanyCmd = &cobra.Command{
	Use:   "company",
	Short: "Create or update the invoicing company",
	Example: `  # First-time setup
  wlog setup company --name "Acme Consulting" --address1 "Keizersgracht 1" \
    --address2 "1015 CJ Amsterdam" --kvk 12345678 --btw NL001234567B01 \
    --bank NL91ABNA0417164300 --tag ACME --logo ~/brand/logo.png

  # Change only the bank account
  wlog setup company --bank NL02RABO0123456789`,
	Args: cobra.NoArgs,
	RunE: runSetupCompany,
}

var setupClientCmd = &cobra.Command{
	Use:   "client <id>",
	Short: "Create or update a client",
	Example: `  # Add a client billed at 85/h with 30 day terms
  wlog setup client globex --name "Globex B.V." --address1 "Main Street 5" \
    --address2 "3011 AA Rotterdam" --rate 85 --terms 30 --tag GLX

  # Raise the rate
  wlog setup client globex --rate 95`,
	Args: cobra.ExactArgs(1),
	RunE: runSetupClient,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.AddCommand(setupCompanyCmd)
	setupCmd.AddCommand(setupClientCmd)

	f := setupCompanyCmd.Flags()
	f.String("name", "", "Company name")
	f.String("address1", "", "First address line")
	f.String("address2", "", "Second address line")
	f.String("kvk", "", "Chamber of commerce (KvK) number")
	f.String("btw", "", "VAT (BTW) number")
	f.String("bank", "", "Bank account (IBAN)")
	f.String("tag", "", "Short code used in invoice numbers")
	f.String("logo", "", "Path to a JPEG, PNG or GIF logo to import")
	f.String("currency", models.DefaultCurrency, "ISO 4217 currency code")

	f = setupClientCmd.Flags()
	f.String("name", "", "Client name")
	f.String("address1", "", "First address line")
	f.String("address2", "", "Second address line")
	f.Float64("rate", 0, "Hourly rate")
	f.Int("terms", models.DefaultPaymentTermDays, "Payment term in days")
	f.String("tag", "", "Short code used in invoice numbers")
}

func runSetupCompany(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("setup")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	cfg, err := a.store.LoadConfig()
	switch {
	case errors.Is(err, storage.ErrConfigNotFound):
		cfg = models.NewAppConfig()
		log.Info().Msg("Creating company configuration")
	case err != nil:
		return handleStorageError(err, log)
	}

	company := &cfg.Company
	setString(cmd, "name", &company.Name)
	setString(cmd, "address1", &company.AddressLine1)
	setString(cmd, "address2", &company.AddressLine2)
	setString(cmd, "kvk", &company.KvK)
	setString(cmd, "btw", &company.BTW)
	setString(cmd, "bank", &company.BankAccount)
	setString(cmd, "tag", &company.Tag)
	if cmd.Flags().Changed("currency") || company.Currency == "" {
		currency, _ := cmd.Flags().GetString("currency")
		company.Currency = strings.ToUpper(strings.TrimSpace(currency))
	}

	if src, _ := cmd.Flags().GetString("logo"); src != "" {
		dst, err := a.store.ImportLogo(src)
		if err != nil {
			return handleStorageError(err, log)
		}
		company.LogoPath = dst
	}

	if err := a.store.SaveConfig(cfg); err != nil {
		return handleStorageError(err, log)
	}

	log.Info().
		Str("company", company.Name).
		Str("tag", company.Tag).
		Msg("Company configuration saved")
	fmt.Fprintf(cmd.OutOrStdout(), "Company %q saved to %s\n", company.Name, a.store.Root())
	return nil
}

func runSetupClient(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("setup")
	id := args[0]

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.requireSetup(); err != nil {
		return err
	}

	exists, err := a.store.ClientExists(id)
	if err != nil {
		return handleStorageError(err, log)
	}
	created := !exists

	client := models.NewClient()
	if exists {
		if client, err = a.store.LoadClient(id); err != nil {
			return handleStorageError(err, log)
		}
	}

	setString(cmd, "name", &client.Name)
	setString(cmd, "address1", &client.AddressLine1)
	setString(cmd, "address2", &client.AddressLine2)
	setString(cmd, "tag", &client.Tag)
	if cmd.Flags().Changed("rate") {
		client.HourlyRate, _ = cmd.Flags().GetFloat64("rate")
	}
	if cmd.Flags().Changed("terms") {
		client.PaymentTermDays, _ = cmd.Flags().GetInt("terms")
	}

	if err := a.store.SaveClient(id, client); err != nil {
		return handleStorageError(err, log)
	}

	log.Info().
		Str("client", id).
		Bool("created", created).
		Float64("rate", client.HourlyRate).
		Msg("Client saved")
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Client %s created\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Client %s updated\n", id)
	}
	return nil
}

// setString copies a string flag into dst when it was given.
func setString(cmd *cobra.Command, name string, dst *string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	v, _ := cmd.Flags().GetString(name)
	*dst = strings.TrimSpace(v)
}

// handleStorageError provides user-friendly error messages for record failures
func handleStorageError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Storage operation failed")

	var fieldErr *storage.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return fmt.Errorf("invalid value for %s (%s check failed). Nothing was saved", fieldErr.Field, fieldErr.Tag)
	case errors.Is(err, storage.ErrInvalidClientID):
		return fmt.Errorf("client ids must be a plain name without slashes or surrounding spaces")
	case errors.Is(err, storage.ErrClientNotFound):
		return fmt.Errorf("client not found. Create it with: wlog setup client <id> ...")
	case errors.Is(err, storage.ErrCorruptRecord):
		return fmt.Errorf("a stored record could not be read. Check the JSON files under the storage root: %w", err)
	default:
		return fmt.Errorf("storage operation failed: %w", err)
	}
}
