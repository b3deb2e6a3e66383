package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/provider"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/tokencache"
)

var (
	computePageSize   int
	computePageToken  string
	computeOutputType string
	computeFetchAll   bool
)

// computeCmd groups the compute instance subcommands.
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Query Yandex Cloud compute instances",
	Long:  `List compute instances of the configured folder, inspect details, and start or stop them.`,
}

// computeListCmd lists instances.
var computeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List compute instances",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		p, err := initYandexProvider()
		if err != nil {
			return err
		}

		var instances []*model.Instance

		if computeFetchAll {
			pageToken := ""
			for {
				list, err := p.ListInstances(ctx, &provider.QueryOptions{
					PageSize:  computePageSize,
					PageToken: pageToken,
				})
				if err != nil {
					return fmt.Errorf("failed to list instances: %w", err)
				}

				instances = append(instances, list.Instances...)

				if list.NextPageToken == "" {
					break
				}
				pageToken = list.NextPageToken
				logx.Debug("Fetching next page, current_total: %d", len(instances))
			}
		} else {
			list, err := p.ListInstances(ctx, &provider.QueryOptions{
				PageSize:  computePageSize,
				PageToken: computePageToken,
			})
			if err != nil {
				return fmt.Errorf("failed to list instances: %w", err)
			}
			instances = list.Instances
			if list.NextPageToken != "" {
				logx.Info("More pages available, next page token: %s", list.NextPageToken)
			}
		}

		if computeOutputType == "json" {
			data, _ := json.MarshalIndent(instances, "", "  ")
			fmt.Println(string(data))
			return nil
		}

		rows := [][]string{}
		for _, inst := range instances {
			rows = append(rows, []string{
				inst.ID, inst.Name, inst.Status, inst.Zone,
				inst.Resources.Cores, inst.Resources.Memory,
				inst.Network.PrivateIP, inst.Network.PublicIP, inst.Uptime,
			})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
			Headers("ID", "Name", "Status", "Zone", "vCPU", "Memory", "Private IP", "Public IP", "Uptime").
			Rows(rows...)

		fmt.Println(t)
		fmt.Println()
		logx.Info("Query completed, count %d", len(instances))

		return nil
	},
}

// computeGetCmd shows one instance.
var computeGetCmd = &cobra.Command{
	Use:   "get <instance-id>",
	Short: "Get compute instance details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := initYandexProvider()
		if err != nil {
			return err
		}

		instance, err := p.GetInstance(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get instance: %w", err)
		}

		data, _ := json.MarshalIndent(instance, "", "  ")
		fmt.Println(string(data))

		return nil
	},
}

// computeStartCmd starts a stopped instance.
var computeStartCmd = &cobra.Command{
	Use:   "start <instance-id>",
	Short: "Start a stopped compute instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := initYandexProvider()
		if err != nil {
			return err
		}

		operationID, err := p.StartInstance(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to start instance: %w", err)
		}

		logx.Info("Start requested, instance %s, operation %s", args[0], operationID)
		return nil
	},
}

// computeStopCmd stops a running instance.
var computeStopCmd = &cobra.Command{
	Use:   "stop <instance-id>",
	Short: "Stop a running compute instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := initYandexProvider()
		if err != nil {
			return err
		}

		operationID, err := p.StopInstance(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to stop instance: %w", err)
		}

		logx.Info("Stop requested, instance %s, operation %s", args[0], operationID)
		return nil
	},
}

// initYandexProvider loads config and key file and initializes the provider.
func initYandexProvider() (provider.Provider, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	cred, err := loadCredential(cfg)
	if err != nil {
		return nil, err
	}

	p, err := provider.GetProvider("yandex")
	if err != nil {
		return nil, fmt.Errorf("failed to get yandex provider: %w", err)
	}

	providerConfig := map[string]any{
		"credential":       cred,
		"iam_endpoint":     cfg.Yandex.IAMEndpoint,
		"compute_endpoint": cfg.Yandex.ComputeEndpoint,
		"cache":            tokencache.NewStore(cfg.Cache),
	}

	if err := p.Initialize(providerConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize yandex provider: %w", err)
	}

	return p, nil
}

func init() {
	computeListCmd.Flags().IntVar(&computePageSize, "page-size", 50, "page size")
	computeListCmd.Flags().StringVar(&computePageToken, "page-token", "", "page token from a previous listing")
	computeListCmd.Flags().StringVarP(&computeOutputType, "output", "o", "table", "output format (table|json)")
	computeListCmd.Flags().BoolVar(&computeFetchAll, "all", false, "follow pagination and fetch every instance")

	computeCmd.AddCommand(computeListCmd)
	computeCmd.AddCommand(computeGetCmd)
	computeCmd.AddCommand(computeStartCmd)
	computeCmd.AddCommand(computeStopCmd)
	queryCmd.AddCommand(computeCmd)
}
