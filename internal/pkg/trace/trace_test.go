package trace

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractFromHeaderPriority(t *testing.T) {
	h := http.Header{}
	h.Set("X-Request-Id", "req-1")
	h.Set("Traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	require.Equal(t, "req-1", ExtractFromHeader(h))

	h.Set("X-Trace-Id", "trace-1")
	require.Equal(t, "trace-1", ExtractFromHeader(h))
}

func TestExtractFromHeaderTraceparent(t *testing.T) {
	h := http.Header{}
	h.Set("Traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", ExtractFromHeader(h))
}

func TestExtractFromHeaderGenerates(t *testing.T) {
	id := ExtractFromHeader(http.Header{})
	require.Len(t, id, 32)
	require.NotEqual(t, id, GenerateTraceID())
}
