package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mgirault/lexicard/internal/domain"
)

// EventType identifies the kind of queue lifecycle event.
type EventType string

// Event types emitted by the queue worker.
const (
	// EventEntryProcessed fires when the worker finalizes an entry,
	// successfully or not.
	EventEntryProcessed EventType = "entry_processed"

	// EventEntryCancelled fires when the worker drops a cancelled entry.
	EventEntryCancelled EventType = "entry_cancelled"

	// EventQueueUpdated fires after any worker-side queue mutation so
	// displays can refresh.
	EventQueueUpdated EventType = "queue_updated"
)

// QueueEvent is a single notification from the worker to its observers.
type QueueEvent struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// Type indicates the lifecycle transition that occurred.
	Type EventType `json:"type"`

	// Item is the affected queue entry; nil for queue_updated events.
	Item *domain.WorkItem `json:"item,omitempty"`

	// Success reports the processing outcome for entry_processed events.
	Success bool `json:"success,omitempty"`

	// Message carries a human-readable summary or error description.
	Message string `json:"message,omitempty"`

	// OccurredAt is the timestamp when the event was created.
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEntryProcessedEvent creates the event fired after an entry is finalized.
func NewEntryProcessedEvent(item *domain.WorkItem, success bool, message string) *QueueEvent {
	return &QueueEvent{
		ID:         uuid.New(),
		Type:       EventEntryProcessed,
		Item:       item,
		Success:    success,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}
}

// NewEntryCancelledEvent creates the event fired when an entry is dropped
// before or during processing because of a cancellation request.
func NewEntryCancelledEvent(item *domain.WorkItem) *QueueEvent {
	return &QueueEvent{
		ID:         uuid.New(),
		Type:       EventEntryCancelled,
		Item:       item,
		OccurredAt: time.Now().UTC(),
	}
}

// NewQueueUpdatedEvent creates the generic refresh notification.
func NewQueueUpdatedEvent() *QueueEvent {
	return &QueueEvent{
		ID:         uuid.New(),
		Type:       EventQueueUpdated,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *QueueEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows the worker to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *QueueEvent) error
}
