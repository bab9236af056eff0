package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mgirault/lexicard/internal/domain"
	"github.com/mgirault/lexicard/internal/events"
)

// MonitorConfig holds configuration for the periodic queue monitor.
type MonitorConfig struct {
	// Interval is how often the monitor scans the queue.
	Interval time.Duration

	// StuckItemAge fails processing items older than this. It guards
	// against a worker that died mid-item without updating status.
	StuckItemAge time.Duration

	// CompletedRetention prunes completed items older than this.
	CompletedRetention time.Duration
}

// DefaultMonitorConfig returns a MonitorConfig with the standard intervals.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Interval:           10 * time.Second,
		StuckItemAge:       15 * time.Minute,
		CompletedRetention: time.Hour,
	}
}

// Monitor runs the periodic health check over the queue file, independent
// of the worker loop: it only rewrites persisted statuses and never touches
// the worker goroutine.
type Monitor struct {
	queue   Queue
	emitter events.EventEmitter
	config  MonitorConfig
	logger  *slog.Logger
	nowFn   func() time.Time
}

// NewMonitor creates a Monitor over the given queue.
func NewMonitor(q Queue, emitter events.EventEmitter, config MonitorConfig, logger *slog.Logger) *Monitor {
	if config.Interval <= 0 {
		config.Interval = 10 * time.Second
	}
	return &Monitor{
		queue:   q,
		emitter: emitter,
		config:  config,
		logger:  logger.With("component", "queue_monitor"),
		nowFn:   time.Now,
	}
}

// Run scans the queue on a ticker until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single scan: timeout conversion and completed pruning.
func (m *Monitor) RunOnce(ctx context.Context) {
	items, err := m.queue.ListAll()
	if err != nil {
		if errors.Is(err, ErrQueueCorrupt) {
			m.logger.Warn("queue file corrupt, skipping scan", "error", err)
		} else {
			m.logger.Error("failed to scan queue", "error", err)
		}
		return
	}

	now := m.nowFn()
	updated := false

	for _, item := range items {
		switch item.Status {
		case domain.WorkItemStatusProcessing:
			if item.ProcessingStartedAt == nil {
				continue
			}
			if age := now.Sub(*item.ProcessingStartedAt); age > m.config.StuckItemAge {
				msg := fmt.Sprintf("timeout - processing exceeded %s", m.config.StuckItemAge)
				m.logger.Warn("entry stuck in processing, converting to error",
					"id", item.ID,
					"age", age,
					"question", preview(item.Payload.Question))

				failed, err := m.queue.MarkError(item.ID, msg)
				if err != nil {
					m.logger.Error("failed to fail stuck entry", "id", item.ID, "error", err)
					continue
				}
				updated = true
				m.emit(ctx, events.NewEntryProcessedEvent(failed, false, msg))
			}

		case domain.WorkItemStatusCompleted:
			if m.config.CompletedRetention <= 0 || item.CompletedAt == nil {
				continue
			}
			if now.Sub(*item.CompletedAt) > m.config.CompletedRetention {
				if _, err := m.queue.Remove(item.ID); err != nil {
					m.logger.Error("failed to prune completed entry", "id", item.ID, "error", err)
					continue
				}
				updated = true
				m.logger.Debug("pruned completed entry", "id", item.ID)
			}
		}
	}

	if updated {
		m.emit(ctx, events.NewQueueUpdatedEvent())
	}
}

func (m *Monitor) emit(ctx context.Context, event *events.QueueEvent) {
	if err := m.emitter.EmitEvent(ctx, event); err != nil {
		m.logger.Error("failed to emit event", "event_type", event.Type, "error", err)
	}
}
