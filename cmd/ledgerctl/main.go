package main

import (
	"fmt"
	"os"

	"shopledger/internal/logger"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Offline tools for shop ledger journals and snapshots",
	Long: `ledgerctl rebuilds ledger snapshots from an event journal and prints
summaries of snapshot documents, without a running server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// stdout carries command output
	logCfg := logger.DefaultConfig()
	logCfg.Output = "stderr"
	if err := logger.Setup(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
	}
	log := logger.WithComponent("ledgerctl")

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
