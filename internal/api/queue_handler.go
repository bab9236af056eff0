package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mgirault/lexicard/internal/api/shared"
	"github.com/mgirault/lexicard/internal/domain"
	"github.com/mgirault/lexicard/internal/events"
	"github.com/mgirault/lexicard/internal/queue"
)

// QueueHandler serves the queue endpoints: submission, status display,
// retry, discard and cancellation.
type QueueHandler struct {
	queue   queue.Queue
	cancels *queue.CancellationRegistry
	emitter events.EventEmitter
	recent  *events.RecentEvents
	logger  *slog.Logger
}

// NewQueueHandler creates a QueueHandler.
func NewQueueHandler(
	q queue.Queue,
	cancels *queue.CancellationRegistry,
	emitter events.EventEmitter,
	recent *events.RecentEvents,
	logger *slog.Logger,
) *QueueHandler {
	return &QueueHandler{
		queue:   q,
		cancels: cancels,
		emitter: emitter,
		recent:  recent,
		logger:  logger.With(slog.String("component", "queue_handler")),
	}
}

// CreateEntry handles POST /api/queue/entries.
func (h *QueueHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req EnqueueRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "question and response are required")
		return
	}

	startMs, err := parseOptionalClock(req.Start)
	if err != nil {
		HandleAPIError(w, r, err, "invalid start timestamp")
		return
	}
	endMs, err := parseOptionalClock(req.End)
	if err != nil {
		HandleAPIError(w, r, err, "invalid end timestamp")
		return
	}

	item, err := h.queue.Enqueue(domain.WorkPayload{
		MediaPath:   req.MediaPath,
		Question:    req.Question,
		Response:    req.Response,
		StartMs:     startMs,
		EndMs:       endMs,
		Attribution: req.Attribution,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.notifyQueueUpdated(r)
	shared.RespondWithJSON(w, r, http.StatusCreated, newEntryResponse(item))
}

// ListEntries handles GET /api/queue/entries.
func (h *QueueHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	items, err := h.queue.ListAll()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := QueueListResponse{
		Entries: make([]EntryResponse, 0, len(items)),
		Counts:  make(map[string]int),
	}
	for _, item := range items {
		resp.Entries = append(resp.Entries, newEntryResponse(item))
		resp.Counts[string(item.Status)]++
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// RetryEntry handles POST /api/queue/entries/{id}/retry.
func (h *QueueHandler) RetryEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	item, err := h.queue.Retry(id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.logger.Info("entry queued for retry", slog.String("id", id.String()))
	h.notifyQueueUpdated(r)
	shared.RespondWithJSON(w, r, http.StatusOK, newEntryResponse(item))
}

// DiscardEntry handles DELETE /api/queue/entries/{id}.
func (h *QueueHandler) DiscardEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	item, err := h.queue.Remove(id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.cancels.Consume(item.CorrelationKey())

	h.logger.Info("entry discarded",
		slog.String("id", id.String()),
		slog.String("status", string(item.Status)))
	h.notifyQueueUpdated(r)
	shared.RespondWithJSON(w, r, http.StatusOK, newEntryResponse(item))
}

// CancelEntry handles POST /api/queue/cancel. Pending entries are
// removed on the spot; an entry the worker already picked up is flagged
// so the worker abandons it; finished entries are left alone.
func (h *QueueHandler) CancelEntry(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "entry id is required")
		return
	}

	item, err := h.findEntry(req.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	switch item.Status {
	case domain.WorkItemStatusPending:
		removed, err := h.queue.Remove(item.ID)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		h.cancels.Consume(removed.CorrelationKey())
		h.emit(r, events.NewEntryCancelledEvent(removed))
		h.notifyQueueUpdated(r)
		entry := newEntryResponse(removed)
		shared.RespondWithJSON(w, r, http.StatusOK, CancelResponse{
			Outcome: CancelOutcomeCancelled,
			Entry:   &entry,
		})

	case domain.WorkItemStatusProcessing:
		h.cancels.MarkCancelled(item.CorrelationKey())
		h.logger.Info("cancellation requested for in-flight entry",
			slog.String("id", item.ID.String()))
		entry := newEntryResponse(item)
		shared.RespondWithJSON(w, r, http.StatusAccepted, CancelResponse{
			Outcome: CancelOutcomeRequested,
			Entry:   &entry,
		})

	default:
		entry := newEntryResponse(item)
		shared.RespondWithJSON(w, r, http.StatusConflict, CancelResponse{
			Outcome: CancelOutcomeRejected,
			Entry:   &entry,
		})
	}
}

// ListEvents handles GET /api/queue/events.
func (h *QueueHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	snapshot := h.recent.Snapshot()
	if snapshot == nil {
		snapshot = []*events.QueueEvent{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, EventsResponse{
		Events:  snapshot,
		Dropped: h.recent.Dropped(),
	})
}

func (h *QueueHandler) findEntry(id uuid.UUID) (*domain.WorkItem, error) {
	items, err := h.queue.ListAll()
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, queue.ErrEntryNotFound
}

func (h *QueueHandler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid entry id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *QueueHandler) notifyQueueUpdated(r *http.Request) {
	h.emit(r, events.NewQueueUpdatedEvent())
}

func (h *QueueHandler) emit(r *http.Request, event *events.QueueEvent) {
	if err := h.emitter.EmitEvent(r.Context(), event); err != nil {
		h.logger.Warn("event emission failed",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()))
	}
}

// parseOptionalClock converts an optional clock string to milliseconds.
// A blank string means the timestamp was not supplied.
func parseOptionalClock(s string) (*int64, error) {
	ms, err := domain.ParseTimeToMillis(s)
	if err != nil {
		if errors.Is(err, domain.ErrNoTimestamp) {
			return nil, nil
		}
		return nil, err
	}
	return &ms, nil
}
