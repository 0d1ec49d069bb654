package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shopledger",
	Short: "Inventory and sales ledger for neighbourhood shopkeepers",
	Long: "shopledger tracks stock lots, sales, expiry and resale/discount listings for " +
		"small shops, and lets shopkeepers trade surplus stock with each other.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sweepCmd)
}
