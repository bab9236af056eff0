package queue

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgirault/lexicard/internal/domain"
	"github.com/mgirault/lexicard/internal/events"
)

// mockStorage implements Storage with an overridable insert function.
type mockStorage struct {
	mu       sync.Mutex
	InsertFn func(ctx context.Context, payload domain.WorkPayload) (uuid.UUID, error)
	inserted []domain.WorkPayload
}

func newMockStorage() *mockStorage {
	s := &mockStorage{}
	s.InsertFn = func(ctx context.Context, payload domain.WorkPayload) (uuid.UUID, error) {
		return uuid.New(), nil
	}
	return s
}

func (s *mockStorage) Insert(ctx context.Context, payload domain.WorkPayload) (uuid.UUID, error) {
	s.mu.Lock()
	s.inserted = append(s.inserted, payload)
	fn := s.InsertFn
	s.mu.Unlock()
	return fn(ctx, payload)
}

func (s *mockStorage) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserted)
}

// eventRecorder collects emitted events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []*events.QueueEvent
}

func (r *eventRecorder) HandleEvent(_ context.Context, e *events.QueueEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) byType(et events.EventType) []*events.QueueEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*events.QueueEvent
	for _, e := range r.events {
		if e.Type == et {
			out = append(out, e)
		}
	}
	return out
}

func writeCorruptQueueFile(path string) error {
	return os.WriteFile(path, []byte("{corrupt"), 0o644)
}

func fastWorkerConfig() WorkerConfig {
	return WorkerConfig{
		IdlePollInterval: 5 * time.Millisecond,
		ItemPause:        time.Millisecond,
		StopWait:         time.Second,
	}
}

func newWorkerFixture(t *testing.T) (*FileQueue, *mockStorage, *CancellationRegistry, *eventRecorder, *Worker) {
	t.Helper()

	q := newTestQueue(t)
	storage := newMockStorage()
	cancels := NewCancellationRegistry()
	recorder := &eventRecorder{}
	emitter := events.NewInMemoryEventEmitter(discardLogger())
	emitter.RegisterHandler(recorder)

	w := NewWorker(q, storage, cancels, emitter, fastWorkerConfig(), discardLogger())
	return q, storage, cancels, recorder, w
}

func TestWorker_ProcessesPendingEntry(t *testing.T) {
	t.Parallel()

	q, storage, _, recorder, w := newWorkerFixture(t)

	item, err := q.Enqueue(payload("le (?) dort", "chat"))
	require.NoError(t, err)

	w.Start()
	defer w.Stop()

	require.Eventually(t, func() bool {
		return len(recorder.byType(events.EventEntryProcessed)) == 1
	}, time.Second, time.Millisecond)

	processed := recorder.byType(events.EventEntryProcessed)[0]
	assert.True(t, processed.Success)
	assert.Equal(t, item.ID, processed.Item.ID)
	assert.Equal(t, domain.WorkItemStatusCompleted, processed.Item.Status)

	assert.NotEmpty(t, recorder.byType(events.EventQueueUpdated))
	assert.Equal(t, 1, storage.insertCount())

	items, err := q.ListAll()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.WorkItemStatusCompleted, items[0].Status)
	assert.NotNil(t, items[0].CompletedAt)
}

func TestWorker_StorageFailureBecomesErrorStatus(t *testing.T) {
	t.Parallel()

	q, storage, _, recorder, w := newWorkerFixture(t)
	storage.InsertFn = func(ctx context.Context, payload domain.WorkPayload) (uuid.UUID, error) {
		return uuid.Nil, errors.New("ffmpeg exited with status 1")
	}

	_, err := q.Enqueue(payload("la (?) chante", "fille"))
	require.NoError(t, err)

	w.Start()
	defer w.Stop()

	require.Eventually(t, func() bool {
		return len(recorder.byType(events.EventEntryProcessed)) >= 1
	}, time.Second, time.Millisecond)

	processed := recorder.byType(events.EventEntryProcessed)[0]
	assert.False(t, processed.Success)
	assert.Equal(t, "ffmpeg exited with status 1", processed.Message)

	items, err := q.ListAll()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.WorkItemStatusError, items[0].Status)
	assert.Equal(t, "ffmpeg exited with status 1", items[0].ErrorMessage)
}

func TestWorker_CancellationBeforeProcessing(t *testing.T) {
	t.Parallel()

	q, storage, cancels, recorder, w := newWorkerFixture(t)

	item, err := q.Enqueue(payload("le (?) court", "chien"))
	require.NoError(t, err)
	cancels.MarkCancelled(item.CorrelationKey())

	w.Start()
	defer w.Stop()

	require.Eventually(t, func() bool {
		return len(recorder.byType(events.EventEntryCancelled)) >= 1
	}, time.Second, time.Millisecond)

	// Give the worker a couple more polls to prove no duplicate event fires.
	time.Sleep(20 * time.Millisecond)

	cancelled := recorder.byType(events.EventEntryCancelled)
	require.Len(t, cancelled, 1, "entry_cancelled fires exactly once")
	assert.Equal(t, item.ID, cancelled[0].Item.ID)

	items, err := q.ListAll()
	require.NoError(t, err)
	assert.Empty(t, items, "cancelled entry leaves no trace in the queue")

	assert.Zero(t, storage.insertCount(), "cancellation fast path never reaches storage")
	assert.False(t, cancels.IsCancelled(item.CorrelationKey()), "mark is consumed")
}

func TestWorker_ProcessesInFIFOOrder(t *testing.T) {
	t.Parallel()

	q, storage, _, recorder, w := newWorkerFixture(t)

	_, err := q.Enqueue(payload("(?) premier", "un"))
	require.NoError(t, err)
	_, err = q.Enqueue(payload("(?) second", "deux"))
	require.NoError(t, err)

	w.Start()
	defer w.Stop()

	require.Eventually(t, func() bool {
		return len(recorder.byType(events.EventEntryProcessed)) == 2
	}, 2*time.Second, time.Millisecond)

	storage.mu.Lock()
	defer storage.mu.Unlock()
	require.Len(t, storage.inserted, 2)
	assert.Equal(t, "(?) premier", storage.inserted[0].Question)
	assert.Equal(t, "(?) second", storage.inserted[1].Question)
}

func TestWorker_StopIsBounded(t *testing.T) {
	t.Parallel()

	_, _, _, _, w := newWorkerFixture(t)
	w.Start()

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return within the bounded wait")
	}
}

func TestWorker_CorruptQueueDoesNotCrashLoop(t *testing.T) {
	t.Parallel()

	q := newTestQueue(t)
	require.NoError(t, writeCorruptQueueFile(q.path))

	storage := newMockStorage()
	emitter := events.NewInMemoryEventEmitter(discardLogger())
	w := NewWorker(q, storage, NewCancellationRegistry(), emitter, fastWorkerConfig(), discardLogger())

	w.Start()
	time.Sleep(30 * time.Millisecond)
	w.Stop()

	assert.Zero(t, storage.insertCount())
}

func TestPreviewKeepsRunesIntact(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "court", preview("court"))

	long := strings.Repeat("é", 60)
	got := preview(long)
	assert.Equal(t, strings.Repeat("é", 50)+"...", got)
	assert.True(t, utf8.ValidString(got))
}
