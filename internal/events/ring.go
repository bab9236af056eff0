package events

import (
	"context"
	"sync"
)

// RecentEvents is an EventHandler keeping a bounded buffer of the latest
// events. A polling front-end reads the buffer instead of holding a live
// subscription; once the buffer is full the oldest events are evicted.
type RecentEvents struct {
	mu	sync.Mutex
	buf	[]*QueueEvent
	limit	int
	evicted	int
}

// NewRecentEvents creates a RecentEvents buffer holding at most limit events.
func NewRecentEvents(limit int) *RecentEvents {
	if limit <= 0 {
		limit = 64
	}
	return &RecentEvents{limit: limit}
}

// HandleEvent appends the event, evicting the oldest when full.
func (r *RecentEvents) HandleEvent(_ context.Context, event *QueueEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.buf) == r.limit {
		copy(r.buf, r.buf[1:])
		r.buf[len(r.buf)-1] = event
		r.evicted++
		return nil
	}
	r.buf = append(r.buf, event)
	return nil
}

// Snapshot returns the retained events, oldest first.
func (r *RecentEvents) Snapshot() []*QueueEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*QueueEvent, len(r.buf))
	copy(out, r.buf)
	return out
}

// Dropped returns how many events were evicted since creation.
func (r *RecentEvents) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evicted
}
