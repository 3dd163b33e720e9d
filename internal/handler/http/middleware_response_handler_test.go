package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResponseWriter_ImplicitHeader verifies that Write without a prior
// WriteHeader records 200 and the byte count.
func TestResponseWriter_ImplicitHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	n, err := w.Write([]byte("hello"))

	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 200, w.status)
	assert.Equal(t, 5, w.size)
}

// TestResponseWriter_SecondWriteHeaderIgnored verifies that only the first
// status code sticks.
func TestResponseWriter_SecondWriteHeaderIgnored(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	w.WriteHeader(404)
	w.WriteHeader(500)

	assert.Equal(t, 404, w.status)
	assert.Equal(t, 404, rec.Code)
}

// TestResponseWriter_AccumulatesSize verifies that size sums across writes.
func TestResponseWriter_AccumulatesSize(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	_, _ = w.Write([]byte("hello "))
	_, _ = w.Write([]byte("world"))

	assert.Equal(t, 11, w.size)
}
