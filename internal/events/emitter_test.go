package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgirault/lexicard/internal/domain"
	"github.com/mgirault/lexicard/internal/events"
)

type captureHandler struct {
	mu     sync.Mutex
	seen   []*events.QueueEvent
	retErr error
}

func (h *captureHandler) HandleEvent(_ context.Context, e *events.QueueEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, e)
	return h.retErr
}

func (h *captureHandler) events() []*events.QueueEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*events.QueueEvent(nil), h.seen...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInMemoryEventEmitter_DispatchesToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEventEmitter(discardLogger())
	h1 := &captureHandler{}
	h2 := &captureHandler{}
	emitter.RegisterHandler(h1)
	emitter.RegisterHandler(h2)

	item := &domain.WorkItem{Payload: domain.WorkPayload{Question: "(?)", Response: "mot"}}
	event := events.NewEntryProcessedEvent(item, true, "done in 1.2s")

	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	require.Len(t, h1.events(), 1)
	require.Len(t, h2.events(), 1)
	assert.Equal(t, events.EventEntryProcessed, h1.events()[0].Type)
	assert.True(t, h1.events()[0].Success)
}

func TestInMemoryEventEmitter_HandlerErrorDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEventEmitter(discardLogger())
	failing := &captureHandler{retErr: errors.New("boom")}
	ok := &captureHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(ok)

	err := emitter.EmitEvent(context.Background(), events.NewQueueUpdatedEvent())

	assert.Error(t, err)
	assert.Len(t, ok.events(), 1, "second handler still receives the event")
}

func TestInMemoryEventEmitter_NoHandlers(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEventEmitter(discardLogger())
	assert.NoError(t, emitter.EmitEvent(context.Background(), events.NewQueueUpdatedEvent()))
}

func TestRecentEvents_EvictsOldest(t *testing.T) {
	t.Parallel()

	ring := events.NewRecentEvents(3)
	var emitted []*events.QueueEvent
	for i := 0; i < 5; i++ {
		e := events.NewQueueUpdatedEvent()
		emitted = append(emitted, e)
		require.NoError(t, ring.HandleEvent(context.Background(), e))
	}

	got := ring.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, emitted[2].ID, got[0].ID, "oldest retained event")
	assert.Equal(t, emitted[4].ID, got[2].ID, "newest retained event")
	assert.Equal(t, 2, ring.Dropped())
}
