package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetFormatter(&log.JSONFormatter{})
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&log.TextFormatter{})
	})
	return &buf
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
		wantMsg   string
	}{
		{"success", http.StatusCreated, `"level":"info"`, "Request handled"},
		{"client error", http.StatusBadRequest, `"level":"warning"`, "Request rejected"},
		{"server error", http.StatusInternalServerError, `"level":"error"`, "Request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("created"))
			})

			req := httptest.NewRequest(http.MethodPost, "/api/users/u1/orders", nil)
			req.Header.Set("User-Agent", "test-agent")
			rr := httptest.NewRecorder()

			RequestIDMiddleware(LoggingMiddleware(handler)).ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)

			logOutput := buf.String()
			assert.Contains(t, logOutput, tt.wantLevel)
			assert.Contains(t, logOutput, tt.wantMsg)
			assert.Contains(t, logOutput, `"path":"/api/users/u1/orders"`)
			assert.Contains(t, logOutput, `"bytes":7`)
			assert.Contains(t, logOutput, "test-agent")
			assert.Contains(t, logOutput, rr.Header().Get(RequestIDHeader))
		})
	}
}

func TestResponseWriter(t *testing.T) {
	recorder := httptest.NewRecorder()
	rw := &responseWriter{
		ResponseWriter: recorder,
		statusCode:     http.StatusOK,
	}

	rw.WriteHeader(http.StatusNotFound)
	n, err := rw.Write([]byte("test data"))

	assert.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, http.StatusNotFound, rw.statusCode)
	assert.Equal(t, 9, rw.size)
	assert.Equal(t, "test data", recorder.Body.String())
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Forwarded-For header",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.1",
		},
		{
			name:       "X-Real-IP header",
			headers:    map[string]string{"X-Real-IP": "203.0.113.2"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.2",
		},
		{
			name:       "RemoteAddr fallback",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.1:12345",
			expected:   "192.168.1.1:12345",
		},
		{
			name: "X-Forwarded-For takes precedence",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.1",
				"X-Real-IP":       "203.0.113.2",
			},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = tt.remoteAddr

			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	})

	t.Run("generates an ID", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RequestIDMiddleware(handler).ServeHTTP(rr, httptest.NewRequest("GET", "/api/live", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
	})

	t.Run("reuses the caller's ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/live", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		rr := httptest.NewRecorder()
		RequestIDMiddleware(handler).ServeHTTP(rr, req)

		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", rr.Header().Get(RequestIDHeader))
	})
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, GetRequestID(req.Context()))
}
