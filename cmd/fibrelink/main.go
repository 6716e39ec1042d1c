package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fibrelink-inc/fibrelink/internal/interfaces/cli/migrate"
	"github.com/fibrelink-inc/fibrelink/internal/interfaces/cli/server"
	"github.com/fibrelink-inc/fibrelink/internal/interfaces/cli/sweep"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fibrelink",
		Short: "FibreLink subscription billing and renewal engine",
		Long:  `FibreLink manages ISP subscriber billing: plan catalog, renewals, payment tracking and the change ledger.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		sweep.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
