package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdesk/crewdesk/internal/infra/logger"
)

func TestRouter_Health(t *testing.T) {
	router := NewRouter(ServerConfig{}, &MockFTLUseCase{}, &MockEntryUseCase{}, logger.NewNop())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(CorrelationIDHeader))
}

func TestRouter_NotFound(t *testing.T) {
	router := NewRouter(ServerConfig{}, &MockFTLUseCase{}, &MockEntryUseCase{}, logger.NewNop())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", decodeEnvelope(t, rr).Code)
}

func TestRouter_MiddlewareCoversUnmatchedRoutes(t *testing.T) {
	const origin = "https://ops.example.com"
	router := NewRouter(ServerConfig{CORSOrigins: []string{origin}}, &MockFTLUseCase{}, &MockEntryUseCase{}, logger.NewNop())

	tests := []struct {
		name         string
		method       string
		path         string
		expectedCode int
		expectedErr  string
	}{
		{"preflight for entry post", "OPTIONS", "/api/v1/staff/" + testStaffID + "/flight-hours", http.StatusNoContent, ""},
		{"preflight for duty post", "OPTIONS", "/api/v1/staff/" + testStaffID + "/duties", http.StatusNoContent, ""},
		{"unknown route", "GET", "/api/v1/nowhere", http.StatusNotFound, "not_found"},
		{"wrong method", "DELETE", "/api/v1/limits", http.StatusMethodNotAllowed, "method_not_allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Origin", origin)
			req.Header.Set("Access-Control-Request-Method", "POST")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, origin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.NotEmpty(t, rr.Header().Get(CorrelationIDHeader))
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, decodeEnvelope(t, rr).Code)
			} else {
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
			}
		})
	}
}

func TestCorrelationMiddleware(t *testing.T) {
	var seen string
	h := correlationMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationID(r.Context())
	}))

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(CorrelationIDHeader, "abc-123")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rr.Header().Get(CorrelationIDHeader))
	})

	t.Run("generates id when absent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		assert.Len(t, seen, 32)
		assert.Equal(t, seen, rr.Header().Get(CorrelationIDHeader))
	})
}

func TestCORSMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name          string
		allowed       []string
		origin        string
		method        string
		expectedAllow string
		expectedCode  int
	}{
		{"allowed origin", []string{"https://ops.example.com"}, "https://ops.example.com", "GET", "https://ops.example.com", http.StatusOK},
		{"foreign origin", []string{"https://ops.example.com"}, "https://evil.example.com", "GET", "", http.StatusOK},
		{"wildcard", []string{"*"}, "https://any.example.com", "GET", "https://any.example.com", http.StatusOK},
		{"preflight", []string{"https://ops.example.com"}, "https://ops.example.com", "OPTIONS", "https://ops.example.com", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			corsMiddleware(tt.allowed)(ok).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedAllow, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	router.Use(recoveryMiddleware(logger.NewNop()))

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/boom", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal_error", decodeEnvelope(t, rr).Code)
}
