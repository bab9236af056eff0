package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkItemStatus represents the current state of a queued insertion.
type WorkItemStatus string

// Possible work item status values. An item is created Pending, claimed by
// the worker as Processing, and ends Completed or Error. Cancellation does
// not have a persisted terminal status: a cancelled item is removed.
const (
	WorkItemStatusPending    WorkItemStatus = "pending"
	WorkItemStatusProcessing WorkItemStatus = "processing"
	WorkItemStatusCompleted  WorkItemStatus = "completed"
	WorkItemStatusError      WorkItemStatus = "error"
)

// BlankToken is the placeholder marking a fill-in blank inside a question.
const BlankToken = "(?)"

// ResponseSeparator splits a multi-answer response string into blanks.
const ResponseSeparator = ";"

// WorkPayload carries everything needed to insert one flashcard record.
type WorkPayload struct {
	MediaPath   string `json:"media_path,omitempty"`
	Question    string `json:"question"`
	Response    string `json:"response"`
	StartMs     *int64 `json:"start_ms,omitempty"`
	EndMs       *int64 `json:"end_ms,omitempty"`
	Attribution string `json:"attribution,omitempty"`
}

// Responses splits the response field on the separator, dropping empty parts.
func (p WorkPayload) Responses() []string {
	var out []string
	for _, r := range strings.Split(p.Response, ResponseSeparator) {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// CountBlanks returns the number of (?) placeholders in a question.
func CountBlanks(question string) int {
	return strings.Count(question, BlankToken)
}

// WorkItem is one unit of record-insertion work in the persistent queue.
type WorkItem struct {
	ID                  uuid.UUID      `json:"id"`
	Payload             WorkPayload    `json:"payload"`
	Status              WorkItemStatus `json:"status"`
	EnqueuedAt          time.Time      `json:"enqueued_at"`
	ProcessingStartedAt *time.Time     `json:"processing_started_at,omitempty"`
	CompletedAt         *time.Time     `json:"completed_at,omitempty"`
	ErrorAt             *time.Time     `json:"error_at,omitempty"`
	ErrorMessage        string         `json:"error_message,omitempty"`
}

// NewWorkItem creates a pending WorkItem for the given payload.
// Returns an error if the payload fails validation.
func NewWorkItem(payload WorkPayload, now time.Time) (*WorkItem, error) {
	item := &WorkItem{
		ID:         uuid.New(),
		Payload:    payload,
		Status:     WorkItemStatusPending,
		EnqueuedAt: now.UTC(),
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks that the payload describes a well-formed insertion.
func (w *WorkItem) Validate() error {
	if strings.TrimSpace(w.Payload.Question) == "" {
		return ErrEmptyQuestion
	}
	responses := w.Payload.Responses()
	if len(responses) == 0 {
		return ErrEmptyResponse
	}
	if CountBlanks(w.Payload.Question) != len(responses) {
		return ErrBlankArity
	}
	return nil
}

// CorrelationKey identifies the item for cancellation. Identifiers are only
// known once the enqueue returns, so the enqueue timestamp doubles as the
// key the submitting side can hold on to.
func (w *WorkItem) CorrelationKey() int64 {
	return w.EnqueuedAt.UnixMilli()
}

// Terminal reports whether the item has reached a final status.
func (w *WorkItem) Terminal() bool {
	return w.Status == WorkItemStatusCompleted || w.Status == WorkItemStatusError
}

// SamePayload reports whether two items carry identical question and
// response content. Used by the enqueue dedup guard.
func (w *WorkItem) SamePayload(other *WorkItem) bool {
	return w.Payload.Question == other.Payload.Question &&
		w.Payload.Response == other.Payload.Response
}
