package api

import (
	"errors"
	"net/http"

	"github.com/mgirault/lexicard/internal/api/shared"
	"github.com/mgirault/lexicard/internal/domain"
	"github.com/mgirault/lexicard/internal/grader"
	"github.com/mgirault/lexicard/internal/queue"
)

// HandleAPIError maps an error to an HTTP status code and writes a
// sanitized error response. userMessage overrides the default message
// for the mapped status when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyQuestion),
		errors.Is(err, domain.ErrEmptyResponse),
		errors.Is(err, domain.ErrBlankArity),
		errors.Is(err, domain.ErrInvalidTimestamp),
		errors.Is(err, grader.ErrArityMismatch):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, queue.ErrEntryNotFound):
		status = http.StatusNotFound
		message = "entry not found"
	case errors.Is(err, queue.ErrDuplicateEntry),
		errors.Is(err, domain.ErrDuplicateRecord):
		status = http.StatusConflict
		message = "an identical entry already exists"
	case errors.Is(err, queue.ErrInvalidTransition):
		status = http.StatusConflict
		message = "entry status does not allow this operation"
	case errors.Is(err, queue.ErrQueueCorrupt):
		status = http.StatusInternalServerError
		message = "queue file is corrupt"
	}

	if userMessage != "" {
		message = userMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
