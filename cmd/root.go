package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wlog/internal/config"
	"wlog/internal/logger"
)

var version = "1.0.0"

// appConfig is set by Execute before any command runs.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "wlog",
	Short: "wlog - log working hours and bill them",
	Long: `wlog records hours worked per client and day and turns a month of
records into a PDF invoice or a PDF work-log report.

Records live as JSON files under the storage root ($HOME/.wlog by default).
Run "wlog setup company" once and "wlog setup client" per client before
logging hours.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("wlog executed without a command")

		_ = cmd.Help()
	},
}

// Execute runs the root command with the loaded configuration.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")
	appConfig = cfg

	if err := rootCmd.Execute(); err != nil {
		log.Debug().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("home", "", "Storage root (default: $WLOG_HOME or $HOME/.wlog)")
	rootCmd.PersistentFlags().String("output-dir", "", "Directory for generated files (default: $WLOG_OUTPUT_DIR or current directory)")
}
