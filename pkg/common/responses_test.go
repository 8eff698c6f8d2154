package common

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestExtractRequestIDPrefersHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/prehires", nil)
	r.Header.Set("X-Request-ID", "req-123")

	assert.Equal(t, "req-123", ExtractRequestID(r))
}

func TestExtractRequestIDTraceHeaderFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/prehires", nil)
	r.Header.Set("X-Amzn-Trace-Id", "Root=1-abc")

	assert.Equal(t, "Root=1-abc", ExtractRequestID(r))
}

func TestExtractRequestIDFromMiddlewareContext(t *testing.T) {
	r := httptest.NewRequest("GET", "/prehires", nil)
	ctx := context.WithValue(r.Context(), middleware.RequestIDKey, "generated-7")

	assert.Equal(t, "generated-7", ExtractRequestID(r.WithContext(ctx)))
}

func TestExtractRequestIDEmpty(t *testing.T) {
	r := httptest.NewRequest("GET", "/prehires", nil)

	assert.Equal(t, "", ExtractRequestID(r))
}
