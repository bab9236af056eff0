package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mgirault/lexicard/internal/domain"
)

// Queue is the persistent FIFO consumed by the worker and exposed to the
// front-end for enqueueing and status display.
type Queue interface {
	// Enqueue validates and appends a new pending item, persisting the
	// queue before returning. Returns ErrDuplicateEntry when an identical
	// payload is still live inside the dedup window.
	Enqueue(payload domain.WorkPayload) (*domain.WorkItem, error)

	// PeekNextPending returns the oldest pending item, or nil when none.
	PeekNextPending() (*domain.WorkItem, error)

	// MarkProcessing transitions a pending item to processing.
	MarkProcessing(id uuid.UUID) (*domain.WorkItem, error)

	// MarkCompleted transitions a processing item to completed.
	MarkCompleted(id uuid.UUID) (*domain.WorkItem, error)

	// MarkError transitions a pending or processing item to error,
	// recording the message.
	MarkError(id uuid.UUID, message string) (*domain.WorkItem, error)

	// Retry resets an errored item to pending so the worker picks it up again.
	Retry(id uuid.UUID) (*domain.WorkItem, error)

	// Remove deletes an item regardless of status.
	Remove(id uuid.UUID) (*domain.WorkItem, error)

	// ListAll returns every item in insertion order.
	ListAll() ([]*domain.WorkItem, error)
}

// FileQueue is the JSON-file-backed Queue implementation. Every mutation
// rewrites the whole file via a temp file and rename; write amplification
// is an accepted tradeoff at human-paced submission volume.
type FileQueue struct {
	path        string
	dedupWindow time.Duration
	mu          sync.Mutex
	logger      *slog.Logger
	nowFn       func() time.Time
}

// NewFileQueue creates a FileQueue persisting to path. The parent directory
// is created if needed.
func NewFileQueue(path string, dedupWindow time.Duration, logger *slog.Logger) (*FileQueue, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create queue directory: %w", err)
	}
	return &FileQueue{
		path:        path,
		dedupWindow: dedupWindow,
		logger:      logger.With("component", "file_queue"),
		nowFn:       time.Now,
	}, nil
}

// Load reads the queue file. A missing file is an empty queue, not an
// error; a malformed file returns ErrQueueCorrupt.
func (q *FileQueue) Load() ([]*domain.WorkItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

func (q *FileQueue) load() ([]*domain.WorkItem, error) {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read queue file: %w", err)
	}

	var items []*domain.WorkItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueueCorrupt, err)
	}
	return items, nil
}

// persist writes the full queue atomically: marshal, write to a temp file
// in the same directory, then rename over the live file.
func (q *FileQueue) persist(items []*domain.WorkItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal queue: %w", err)
	}

	tmp := q.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write queue temp file: %w", err)
	}
	if err := os.Rename(tmp, q.path); err != nil {
		return fmt.Errorf("failed to replace queue file: %w", err)
	}
	return nil
}

// Enqueue implements Queue.
func (q *FileQueue) Enqueue(payload domain.WorkPayload) (*domain.WorkItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return nil, err
	}

	now := q.nowFn()
	item, err := domain.NewWorkItem(payload, now)
	if err != nil {
		return nil, err
	}

	for _, existing := range items {
		if existing.Terminal() {
			continue
		}
		if existing.SamePayload(item) && now.Sub(existing.EnqueuedAt).Abs() < q.dedupWindow {
			q.logger.Warn("identical entry already queued, rejecting",
				"existing_id", existing.ID,
				"enqueued_at", existing.EnqueuedAt)
			return nil, ErrDuplicateEntry
		}
	}

	items = append(items, item)
	if err := q.persist(items); err != nil {
		return nil, err
	}

	q.logger.Debug("entry enqueued",
		"id", item.ID,
		"correlation_key", item.CorrelationKey(),
		"queue_len", len(items))
	return item, nil
}

// PeekNextPending implements Queue. FIFO: insertion order, no priorities.
func (q *FileQueue) PeekNextPending() (*domain.WorkItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Status == domain.WorkItemStatusPending {
			return item, nil
		}
	}
	return nil, nil
}

// MarkProcessing implements Queue.
func (q *FileQueue) MarkProcessing(id uuid.UUID) (*domain.WorkItem, error) {
	return q.mutate(id, func(item *domain.WorkItem) error {
		if item.Status != domain.WorkItemStatusPending {
			return fmt.Errorf("%w: %s -> processing", ErrInvalidTransition, item.Status)
		}
		now := q.nowFn().UTC()
		item.Status = domain.WorkItemStatusProcessing
		item.ProcessingStartedAt = &now
		return nil
	})
}

// MarkCompleted implements Queue.
func (q *FileQueue) MarkCompleted(id uuid.UUID) (*domain.WorkItem, error) {
	return q.mutate(id, func(item *domain.WorkItem) error {
		if item.Status != domain.WorkItemStatusProcessing {
			return fmt.Errorf("%w: %s -> completed", ErrInvalidTransition, item.Status)
		}
		now := q.nowFn().UTC()
		item.Status = domain.WorkItemStatusCompleted
		item.CompletedAt = &now
		return nil
	})
}

// MarkError implements Queue. Allowed from pending as well as processing so
// the timeout monitor and validation failures share one path.
func (q *FileQueue) MarkError(id uuid.UUID, message string) (*domain.WorkItem, error) {
	return q.mutate(id, func(item *domain.WorkItem) error {
		if item.Terminal() {
			return fmt.Errorf("%w: %s -> error", ErrInvalidTransition, item.Status)
		}
		now := q.nowFn().UTC()
		item.Status = domain.WorkItemStatusError
		item.ErrorAt = &now
		item.ErrorMessage = message
		return nil
	})
}

// Retry implements Queue.
func (q *FileQueue) Retry(id uuid.UUID) (*domain.WorkItem, error) {
	return q.mutate(id, func(item *domain.WorkItem) error {
		if item.Status != domain.WorkItemStatusError {
			return fmt.Errorf("%w: %s -> pending", ErrInvalidTransition, item.Status)
		}
		item.Status = domain.WorkItemStatusPending
		item.ProcessingStartedAt = nil
		item.ErrorAt = nil
		item.ErrorMessage = ""
		return nil
	})
}

// Remove implements Queue.
func (q *FileQueue) Remove(id uuid.UUID) (*domain.WorkItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return nil, err
	}

	for i, item := range items {
		if item.ID == id {
			items = append(items[:i], items[i+1:]...)
			if err := q.persist(items); err != nil {
				return nil, err
			}
			q.logger.Debug("entry removed", "id", id, "status", item.Status)
			return item, nil
		}
	}
	return nil, ErrEntryNotFound
}

// ListAll implements Queue.
func (q *FileQueue) ListAll() ([]*domain.WorkItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

// mutate loads the queue, applies fn to the item with the given ID, and
// persists the result.
func (q *FileQueue) mutate(id uuid.UUID, fn func(*domain.WorkItem) error) (*domain.WorkItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if item.ID == id {
			if err := fn(item); err != nil {
				return nil, err
			}
			if err := q.persist(items); err != nil {
				return nil, err
			}
			return item, nil
		}
	}
	return nil, ErrEntryNotFound
}
