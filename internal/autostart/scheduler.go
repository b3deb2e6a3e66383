package autostart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
)

// Scheduler runs one auto-start cycle per interval on a background goroutine.
// Every iteration is isolated: an error or panic in one cycle never
// terminates the loop. Cancellation is cooperative and observed at the next
// tick; an in-flight cycle is bounded by the client's per-call timeout.
type Scheduler struct {
	mu         sync.Mutex
	controller *Controller
	interval   time.Duration
	cancel     context.CancelFunc
	done       chan struct{}
	running    bool
}

// NewScheduler creates a scheduler running controller cycles at interval.
func NewScheduler(controller *Controller, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		controller: controller,
		interval:   interval,
	}
}

// Start launches the background loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("auto-start scheduler is already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx)

	logx.Info("Auto-start scheduler started, interval %s", s.interval)
	return nil
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		logx.Debug("Auto-start scheduler is not running, nothing to stop")
		return
	}
	cancel := s.cancel
	done := s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done

	logx.Info("Auto-start scheduler stopped")
}

// loop sleeps one interval, then runs a cycle, until cancelled.
func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes one isolated cycle.
func (s *Scheduler) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error("Auto-start cycle panicked: %v", r)
		}
	}()

	logx.Info("Running scheduled auto-start check")
	result := s.controller.Run(ctx, model.TriggerScheduled)
	if result.Error != "" {
		logx.Error("Scheduled auto-start failed: %s", result.Error)
	}
}
