package cmd

import (
	"github.com/spf13/cobra"
)

// queryCmd groups the read-only and action subcommands for the CLI.
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query and control Yandex Cloud compute instances",
	Long:  `Query instance lists and details, and start or stop single instances from the command line.`,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
