package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/mgirault/lexicard/internal/domain"
	"github.com/mgirault/lexicard/internal/events"
)

// EnqueueRequest is the payload for submitting a new entry. Start and
// End are clock strings ("mm:ss", "hh:mm:ss" or bare seconds) and only
// make sense together with a media path.
type EnqueueRequest struct {
	MediaPath   string `json:"media_path"`
	Question    string `json:"question"    validate:"required"`
	Response    string `json:"response"    validate:"required"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Attribution string `json:"attribution"`
}

// CancelRequest identifies the entry whose processing should be
// abandoned.
type CancelRequest struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

// Cancellation outcomes reported by the cancel endpoint.
const (
	CancelOutcomeCancelled = "cancelled"
	CancelOutcomeRequested = "cancel_requested"
	CancelOutcomeRejected  = "cannot_cancel"
)

// CancelResponse reports what the cancel request achieved: pending
// entries are dropped immediately, in-flight entries are flagged for
// the worker, finished entries cannot be touched.
type CancelResponse struct {
	Outcome string         `json:"outcome"`
	Entry   *EntryResponse `json:"entry,omitempty"`
}

// GradeRequest carries the user's answers and the stored response text
// they are graded against.
type GradeRequest struct {
	Answers          []string `json:"answers"           validate:"required,min=1"`
	AcceptedResponse string   `json:"accepted_response" validate:"required"`
}

// EntryResponse is the API representation of a queue entry.
type EntryResponse struct {
	ID                  uuid.UUID  `json:"id"`
	CorrelationKey      int64      `json:"correlation_key"`
	MediaPath           string     `json:"media_path,omitempty"`
	Question            string     `json:"question"`
	Response            string     `json:"response"`
	StartMs             *int64     `json:"start_ms,omitempty"`
	EndMs               *int64     `json:"end_ms,omitempty"`
	Attribution         string     `json:"attribution,omitempty"`
	Status              string     `json:"status"`
	EnqueuedAt          time.Time  `json:"enqueued_at"`
	ProcessingStartedAt *time.Time `json:"processing_started_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	ErrorAt             *time.Time `json:"error_at,omitempty"`
	ErrorMessage        string     `json:"error_message,omitempty"`
}

// QueueListResponse is the full queue state plus per-status counts for
// the status display.
type QueueListResponse struct {
	Entries []EntryResponse `json:"entries"`
	Counts  map[string]int  `json:"counts"`
}

// EventsResponse returns the recent queue events, oldest first, and how
// many older events fell out of the buffer.
type EventsResponse struct {
	Events  []*events.QueueEvent `json:"events"`
	Dropped int                  `json:"dropped"`
}

func newEntryResponse(item *domain.WorkItem) EntryResponse {
	return EntryResponse{
		ID:                  item.ID,
		CorrelationKey:      item.CorrelationKey(),
		MediaPath:           item.Payload.MediaPath,
		Question:            item.Payload.Question,
		Response:            item.Payload.Response,
		StartMs:             item.Payload.StartMs,
		EndMs:               item.Payload.EndMs,
		Attribution:         item.Payload.Attribution,
		Status:              string(item.Status),
		EnqueuedAt:          item.EnqueuedAt,
		ProcessingStartedAt: item.ProcessingStartedAt,
		CompletedAt:         item.CompletedAt,
		ErrorAt:             item.ErrorAt,
		ErrorMessage:        item.ErrorMessage,
	}
}
