package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Brayaaan/Finbot/internal/invoice"
	"github.com/Brayaaan/Finbot/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "finbot",
	Short: "FinBot - rachunek generation service for freelancers",
	Long: `FinBot accepts structured rachunek (invoice-for-services) data,
validates and auto-completes it against Polish tax-document conventions,
and renders it into a PDF document.

Run "finbot serve" to start the HTTP API, or "finbot render" to turn a
single JSON file into a PDF without the server.`,
	Version: invoice.FormatVersion,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("FinBot - rachunki freelancerskie")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
