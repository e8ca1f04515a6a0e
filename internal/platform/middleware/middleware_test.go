// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/legitexchange/internal/platform/ctxutil"
	"github.com/taibuivan/legitexchange/internal/platform/middleware"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

func TestCORSPolicy_Allows(t *testing.T) {
	policy := middleware.CORSPolicy{HostSuffix: "legitexchange.com"}

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://legitexchange.com", true},
		{"https://app.legitexchange.com", true},
		{"https://evillegitexchange.com", false},
		{"http://app.legitexchange.com", false},
		{"https://legitexchange.com.evil.io", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, policy.Allows(tt.origin), tt.origin)
	}

	assert.True(t, middleware.CORSPolicy{AllowAll: true}.Allows("http://localhost:3000"))
}

func TestCORS_Preflight(t *testing.T) {
	handler := middleware.CORS(middleware.CORSPolicy{HostSuffix: "legitexchange.com"})(http.NotFoundHandler())

	request := httptest.NewRequest(http.MethodOptions, "/api/auth/signin", nil)
	request.Header.Set("Origin", "https://app.legitexchange.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://app.legitexchange.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	// Well-formed client IDs are kept
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "abc-123")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", recorder.Header().Get("X-Request-ID"))

	// Anything else is replaced
	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "bad id\nwith newline")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.NotEqual(t, "bad id\nwith newline", seen)
	assert.Len(t, seen, 36)
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 1, 2)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "203.0.113.7:4000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)

		if recorder.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, recorder.Header().Get("Retry-After"))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "boom")
}

func TestStructuredLogger_RecordsSessionUser(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	// Stands in for the request gate attaching verified claims.
	attachSession := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := &sec.AuthClaims{UserID: "user-42", Role: sec.RoleLawyer}
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithSession(request.Context(), claims)))
		})
	}
	handler := middleware.StructuredLogger(logger)(attachSession(middleware.SessionUser(
		http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusAccepted)
		}),
	)))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/lawyer", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "http_request_finished", entry["msg"])
	assert.Equal(t, "user-42", entry["user_id"])
	assert.Equal(t, "LAWYER", entry["role"])
	assert.Equal(t, float64(http.StatusAccepted), entry["status"])
}

func TestStructuredLogger_AnonymousHasNoUser(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))
	handler := middleware.StructuredLogger(logger)(middleware.SessionUser(http.NotFoundHandler()))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.NotContains(t, entry, "user_id")
	assert.NotContains(t, entry, "role")
}
