package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/config"
	_ "github.com/Egoriy286/yandex-cloud-instance-start/internal/provider/yandex"
)

var (
	cfgFile   string
	appConfig *config.Config
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "yandex-cloud-instance-start",
	Short: "Yandex Cloud instance dashboard and auto-start service",
	Long: `A small dashboard and API for Yandex Cloud compute instances.

It lists the instances of one folder, starts and stops them on demand, and
periodically restarts instances that went into STOPPED state. Authentication
uses a service-account key file exchanged for an IAM token.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default config.yaml)")
}

// loadConfig loads and caches the configuration for subcommands.
func loadConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appConfig = cfg
	return cfg, nil
}

// loadCredential reads the service-account key file named by the config.
func loadCredential(cfg *config.Config) (*config.Credential, error) {
	cred, err := config.LoadCredential(cfg.Yandex.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load service account key: %w", err)
	}
	return cred, nil
}
