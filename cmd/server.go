package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/spf13/cobra"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/database"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/server"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 15 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the dashboard server and the auto-start scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cred, err := loadCredential(cfg)
		if err != nil {
			return err
		}

		sm, err := server.NewServiceManager(cfg, cred, Version)
		if err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- sm.Start()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case sig := <-quit:
			logx.Info("Received signal %s, shutting down", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := sm.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop service: %w", err)
		}

		if err := database.Close(); err != nil {
			logx.Warn("Failed to close database: %v", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
