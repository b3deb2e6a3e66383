package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build-time values, injected with -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("version:    %s\n", Version)
		fmt.Printf("git commit: %s\n", GitCommit)
		fmt.Printf("build time: %s\n", BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
