// Package autostart finds stopped instances and brings them back up, either
// on a schedule or on demand.
package autostart

import (
	"context"

	"cnb.cool/zhiqiangwang/pkg/logx"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/config"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/provider"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/service"
)

// statusStopped is the provider status an instance must have to be restarted.
const statusStopped = "STOPPED"

// Controller runs auto-start cycles against one provider. Per-instance
// failures are collected, never raised: one broken instance must not abort
// the batch, and a cycle invoked from the background loop must never crash
// the process.
type Controller struct {
	provider     provider.Provider
	records      *service.AutoStartRecordService
	pageSize     int
	scanAllPages bool
}

// NewController creates a controller. records may be nil to skip persistence.
func NewController(p provider.Provider, records *service.AutoStartRecordService, cfg config.AutoStartConfig) *Controller {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	return &Controller{
		provider:     p,
		records:      records,
		pageSize:     pageSize,
		scanAllPages: cfg.ScanAllPages,
	}
}

// Run executes one auto-start cycle and returns its outcome. A listing
// failure yields an empty result with Error set instead of an error return.
func (c *Controller) Run(ctx context.Context, trigger string) *model.AutoStartResult {
	logx.Info("Running auto-start check for stopped instances, trigger %s", trigger)

	result := &model.AutoStartResult{
		Started: []model.InstanceRef{},
		Failed:  []model.InstanceFailure{},
	}

	instances, err := c.listInstances(ctx)
	if err != nil {
		logx.Error("Auto-start check failed to list instances: %v", err)
		result.Error = err.Error()
		c.persist(trigger, result)
		return result
	}

	var stopped []*model.Instance
	for _, inst := range instances {
		if inst.Status == statusStopped {
			stopped = append(stopped, inst)
		}
	}
	result.TotalStopped = len(stopped)

	for _, inst := range stopped {
		if _, err := c.provider.StartInstance(ctx, inst.ID); err != nil {
			logx.Error("Failed to auto-start instance %s (%s): %v", inst.Name, inst.ID, err)
			result.Failed = append(result.Failed, model.InstanceFailure{
				ID:    inst.ID,
				Name:  inst.Name,
				Error: err.Error(),
			})
			continue
		}

		logx.Info("Auto-started instance %s (%s)", inst.Name, inst.ID)
		result.Started = append(result.Started, model.InstanceRef{
			ID:   inst.ID,
			Name: inst.Name,
		})
	}

	logx.Info("Auto-start cycle finished, stopped %d, started %d, failed %d",
		result.TotalStopped, len(result.Started), len(result.Failed))

	c.persist(trigger, result)
	return result
}

// listInstances scans the first page, or the whole fleet when scan_all_pages
// is enabled.
func (c *Controller) listInstances(ctx context.Context) ([]*model.Instance, error) {
	var all []*model.Instance
	pageToken := ""

	for {
		list, err := c.provider.ListInstances(ctx, &provider.QueryOptions{
			PageSize:  c.pageSize,
			PageToken: pageToken,
		})
		if err != nil {
			return nil, err
		}

		all = append(all, list.Instances...)

		if !c.scanAllPages || list.NextPageToken == "" {
			break
		}
		pageToken = list.NextPageToken
	}

	return all, nil
}

// persist records the cycle outcome; a storage failure never fails the cycle.
func (c *Controller) persist(trigger string, result *model.AutoStartResult) {
	if c.records == nil {
		return
	}
	if _, err := c.records.Record(trigger, result); err != nil {
		logx.Error("Failed to persist auto-start record: %v", err)
	}
}
