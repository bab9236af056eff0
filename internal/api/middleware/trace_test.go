package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mgirault/lexicard/internal/api/middleware"
	"github.com/mgirault/lexicard/internal/api/shared"
)

func TestTraceMiddlewareSetsTraceID(t *testing.T) {
	t.Parallel()

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	middleware.TraceMiddleware(next).ServeHTTP(rec, req)

	assert.NotEmpty(t, seen)
	assert.Len(t, seen, shared.TraceIDLength*2)
}

func TestTraceMiddlewareUniquePerRequest(t *testing.T) {
	t.Parallel()

	ids := make(map[string]struct{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids[shared.GetTraceID(r.Context())] = struct{}{}
	})
	handler := middleware.TraceMiddleware(next)

	for i := 0; i < 5; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	assert.Len(t, ids, 5)
}
