package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mgirault/lexicard/internal/api/shared"
	"github.com/mgirault/lexicard/internal/domain"
	"github.com/mgirault/lexicard/internal/grader"
)

// GradeHandler serves the stateless answer grading endpoint.
type GradeHandler struct {
	logger *slog.Logger
}

// NewGradeHandler creates a GradeHandler.
func NewGradeHandler(logger *slog.Logger) *GradeHandler {
	return &GradeHandler{
		logger: logger.With(slog.String("component", "grade_handler")),
	}
}

// Grade handles POST /api/grade. The accepted response text is split on
// the response separator, one accepted answer per blank.
func (h *GradeHandler) Grade(w http.ResponseWriter, r *http.Request) {
	var req GradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "answers and accepted_response are required")
		return
	}

	accepted := splitResponses(req.AcceptedResponse)
	result, err := grader.GradeAll(req.Answers, accepted)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

func splitResponses(response string) []string {
	var out []string
	for _, p := range strings.Split(response, domain.ResponseSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
