package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/autostart"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/config"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/provider"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/service"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/tokencache"
)

// ServiceManager owns the process lifecycle: the initialized provider, the
// auto-start controller and scheduler, and the HTTP server.
type ServiceManager struct {
	mu sync.RWMutex

	config *config.Config
	cred   *config.Credential

	provider   provider.Provider
	controller *autostart.Controller
	scheduler  *autostart.Scheduler
	records    *service.AutoStartRecordService
	httpServer *HTTPGinServer

	version   string
	startedAt time.Time
	running   bool
}

// NewServiceManager initializes the provider and assembles the service.
func NewServiceManager(cfg *config.Config, cred *config.Credential, version string) (*ServiceManager, error) {
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

	records := service.NewAutoStartRecordService()
	controller := autostart.NewController(p, records, cfg.AutoStart)

	sm := &ServiceManager{
		config:     cfg,
		cred:       cred,
		provider:   p,
		controller: controller,
		records:    records,
		version:    version,
		startedAt:  time.Now(),
	}

	if cfg.AutoStart.Enabled {
		sm.scheduler = autostart.NewScheduler(controller, cfg.AutoStart.Interval)
	}

	sm.httpServer = NewHTTPGinServer(cfg, sm)

	return sm, nil
}

// urlSecret returns the path prefix secret. The key file value wins over the
// config file so rotating the key rotates the URL too.
func (sm *ServiceManager) urlSecret() string {
	if sm.cred.URLSecret != "" {
		return sm.cred.URLSecret
	}
	return sm.config.Server.HTTP.URLSecret
}

// Start boots the scheduler and then serves HTTP, blocking until shutdown.
func (sm *ServiceManager) Start() error {
	sm.mu.Lock()
	if sm.running {
		sm.mu.Unlock()
		return fmt.Errorf("service manager is already running")
	}
	sm.running = true
	sm.startedAt = time.Now()
	scheduler := sm.scheduler
	sm.mu.Unlock()

	if scheduler != nil {
		if err := scheduler.Start(); err != nil {
			return err
		}
	} else {
		logx.Info("Auto-start scheduler disabled")
	}

	if err := sm.httpServer.Start(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the scheduler and shuts the HTTP server down.
func (sm *ServiceManager) Stop(ctx context.Context) error {
	sm.mu.Lock()
	if !sm.running {
		sm.mu.Unlock()
		logx.Debug("Service manager is not running, nothing to stop")
		return nil
	}
	sm.running = false
	scheduler := sm.scheduler
	sm.mu.Unlock()

	if scheduler != nil {
		scheduler.Stop()
	}

	if err := sm.httpServer.Stop(ctx); err != nil {
		logx.Warn("Failed to stop HTTP server gracefully: %v", err)
		return err
	}

	logx.Info("Service stopped")
	return nil
}
