package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mgirault/lexicard/internal/domain"
	"github.com/mgirault/lexicard/internal/events"
)

// Storage is the collaborator performing the actual record insertion,
// including media processing and speech synthesis. Calls are blocking and
// may take tens of seconds; the worker stays busy for the full duration.
type Storage interface {
	// Insert persists one flashcard record from the payload and returns
	// the new record's ID. Implementations should return a human-readable
	// error on failure.
	Insert(ctx context.Context, payload domain.WorkPayload) (uuid.UUID, error)
}

// WorkerConfig holds configuration for the background worker.
type WorkerConfig struct {
	// IdlePollInterval is the sleep between polls when no work is pending.
	IdlePollInterval time.Duration

	// ItemPause is the pause after finalizing an item before claiming the
	// next one, bounding throughput so the interactive side is not starved.
	ItemPause time.Duration

	// StopWait bounds how long Stop blocks for the worker goroutine to exit.
	StopWait time.Duration
}

// DefaultWorkerConfig returns a WorkerConfig with the standard intervals.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		IdlePollInterval: 5 * time.Second,
		ItemPause:        time.Second,
		StopWait:         3 * time.Second,
	}
}

// Worker is the single background goroutine draining the queue. Exactly one
// item is ever in processing state: one worker exists and it fully
// finalizes each claim before the next.
type Worker struct {
	queue      Queue
	storage    Storage
	cancels    *CancellationRegistry
	emitter    events.EventEmitter
	config     WorkerConfig
	logger     *slog.Logger
	ctx        context.Context
	cancelFunc context.CancelFunc
	done       chan struct{}
}

// NewWorker creates a Worker. The registry is shared with the cancellation
// API; the worker only ever reads and consumes marks from it.
func NewWorker(
	q Queue,
	storage Storage,
	cancels *CancellationRegistry,
	emitter events.EventEmitter,
	config WorkerConfig,
	logger *slog.Logger,
) *Worker {
	if config.IdlePollInterval <= 0 {
		config.IdlePollInterval = 5 * time.Second
	}
	if config.ItemPause <= 0 {
		config.ItemPause = time.Second
	}
	if config.StopWait <= 0 {
		config.StopWait = 3 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		queue:      q,
		storage:    storage,
		cancels:    cancels,
		emitter:    emitter,
		config:     config,
		logger:     logger.With("component", "queue_worker"),
		ctx:        ctx,
		cancelFunc: cancel,
		done:       make(chan struct{}),
	}
}

// Start launches the worker goroutine. It logs a resume report first so a
// restart after a crash is visible in the logs.
func (w *Worker) Start() {
	w.logResumeReport()
	go w.run()
}

// Stop requests a cooperative shutdown and blocks until the worker exits
// or the bounded wait elapses. The queue file is consistent either way:
// every mutation is persisted immediately.
func (w *Worker) Stop() {
	w.logger.Info("stopping queue worker")
	w.cancelFunc()

	select {
	case <-w.done:
		w.logger.Info("queue worker stopped")
	case <-time.After(w.config.StopWait):
		w.logger.Warn("queue worker did not stop within bounded wait",
			"wait", w.config.StopWait)
	}
}

// logResumeReport counts entries left over from a previous run.
func (w *Worker) logResumeReport() {
	items, err := w.queue.ListAll()
	if err != nil {
		if errors.Is(err, ErrQueueCorrupt) {
			w.logger.Warn("queue file corrupt at startup, treating as empty", "error", err)
			return
		}
		w.logger.Error("failed to read queue at startup", "error", err)
		return
	}

	var pending, processing, failed int
	for _, item := range items {
		switch item.Status {
		case domain.WorkItemStatusPending:
			pending++
		case domain.WorkItemStatusProcessing:
			processing++
		case domain.WorkItemStatusError:
			failed++
		}
	}
	if pending > 0 || processing > 0 || failed > 0 {
		w.logger.Info("resuming existing queue",
			"pending", pending,
			"processing", processing,
			"error", failed)
	}
}

// run is the worker loop: claim one pending item, drive it to a terminal
// state, pause, repeat. All failures stay inside the loop.
func (w *Worker) run() {
	defer close(w.done)
	w.logger.Debug("queue worker started")

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("queue worker loop exiting")
			return
		default:
		}

		item, err := w.queue.PeekNextPending()
		if err != nil {
			if errors.Is(err, ErrQueueCorrupt) {
				w.logger.Warn("queue file corrupt, treating as empty", "error", err)
			} else {
				w.logger.Error("failed to claim next entry", "error", err)
			}
			w.sleep(w.config.IdlePollInterval)
			continue
		}
		if item == nil {
			w.sleep(w.config.IdlePollInterval)
			continue
		}

		// Fast path: cancelled while still pending, never reaches processing.
		if w.dropIfCancelled(item) {
			continue
		}

		w.process(item)
	}
}

// process drives one claimed item through processing to a terminal state.
func (w *Worker) process(item *domain.WorkItem) {
	logger := w.logger.With("id", item.ID, "correlation_key", item.CorrelationKey())

	// Persist the transition first so a crash mid-processing is observable
	// on restart.
	claimed, err := w.queue.MarkProcessing(item.ID)
	if err != nil {
		logger.Error("failed to mark entry processing", "error", err)
		w.sleep(w.config.IdlePollInterval)
		return
	}

	// Covers the race where cancellation arrives between claim and start.
	if w.dropIfCancelled(claimed) {
		return
	}

	logger.Info("processing entry", "question", preview(claimed.Payload.Question))
	started := time.Now()

	recordID, insertErr := w.storage.Insert(w.ctx, claimed.Payload)

	if insertErr != nil {
		logger.Error("entry processing failed", "error", insertErr)
		failed, err := w.queue.MarkError(claimed.ID, insertErr.Error())
		if err != nil {
			logger.Error("failed to mark entry errored", "error", err)
			failed = claimed
		}
		w.emit(events.NewEntryProcessedEvent(failed, false, insertErr.Error()))
	} else {
		completed, err := w.queue.MarkCompleted(claimed.ID)
		if err != nil {
			logger.Error("failed to mark entry completed", "error", err)
			completed = claimed
		}
		elapsed := time.Since(started)
		logger.Info("entry processed",
			"record_id", recordID,
			"duration_ms", elapsed.Milliseconds())
		w.emit(events.NewEntryProcessedEvent(completed, true,
			fmt.Sprintf("processed in %.1fs", elapsed.Seconds())))
	}

	w.emit(events.NewQueueUpdatedEvent())
	w.sleep(w.config.ItemPause)
}

// dropIfCancelled removes the item and fires entry_cancelled when a
// cancellation mark exists for it. Returns true when the item was dropped.
func (w *Worker) dropIfCancelled(item *domain.WorkItem) bool {
	key := item.CorrelationKey()
	if !w.cancels.IsCancelled(key) {
		return false
	}

	w.logger.Info("entry cancelled, removing from queue",
		"id", item.ID,
		"correlation_key", key,
		"question", preview(item.Payload.Question))

	removed, err := w.queue.Remove(item.ID)
	if err != nil {
		w.logger.Error("failed to remove cancelled entry", "error", err, "id", item.ID)
		return false
	}
	w.cancels.Consume(key)
	w.emit(events.NewEntryCancelledEvent(removed))
	return true
}

func (w *Worker) emit(event *events.QueueEvent) {
	if err := w.emitter.EmitEvent(w.ctx, event); err != nil {
		w.logger.Error("failed to emit event", "event_type", event.Type, "error", err)
	}
}

// sleep waits for d or until shutdown, whichever comes first.
func (w *Worker) sleep(d time.Duration) {
	select {
	case <-w.ctx.Done():
	case <-time.After(d):
	}
}

// preview shortens question text for log lines without splitting a
// multi-byte rune.
func preview(s string) string {
	const max = 50
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
