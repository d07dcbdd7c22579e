package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/shishalog/internal/metrics"
	"github.com/vbonduro/shishalog/internal/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.0.2.1:4321", want: "192.0.2.1"},
		{name: "ipv6 remote addr", remoteAddr: "[2001:db8::1]:4321", want: "2001:db8::1"},
		{name: "no port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
		{
			name:       "forwarded for ignored",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			want:       "10.0.0.1",
		},
		{
			name:       "real ip ignored",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "10.0.0.1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(r))
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := securityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
}

func TestRateLimitOnlyThrottlesWrites(t *testing.T) {
	limiter := ratelimit.New(0.001, 1)
	t.Cleanup(limiter.Stop)

	h := rateLimit(limiter, discardLogger(), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	do := func(method, ip string) int {
		r := httptest.NewRequest(method, "/shops", nil)
		r.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodDelete, "192.0.2.1"))
	assert.Equal(t, http.StatusNoContent, do(http.MethodGet, "192.0.2.1"))
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "192.0.2.2"))
}

func TestRateLimitIgnoresSpoofedForwardingHeaders(t *testing.T) {
	limiter := ratelimit.New(0.001, 1)
	t.Cleanup(limiter.Stop)

	h := rateLimit(limiter, discardLogger(), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	do := func(forwarded string) int {
		r := httptest.NewRequest(http.MethodPost, "/shops", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		r.Header.Set("X-Forwarded-For", forwarded)
		r.Header.Set("X-Real-IP", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.3"))
}

func TestRateLimitDisabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})
	h := rateLimit(nil, discardLogger(), next)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/shops", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	m := metrics.New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /shops/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := requestLogger(discardLogger(), m, mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/shops/abc", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `shishalog_http_requests_total{method="GET",route="GET /shops/{id}",status="418"} 1`)
	assert.Contains(t, body, `shishalog_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}

func TestScoreParam(t *testing.T) {
	n, err := scoreParam("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = scoreParam("4")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = scoreParam("six")
	assert.Error(t, err)
	_, err = scoreParam("6")
	assert.Error(t, err)
	_, err = scoreParam("-1")
	assert.Error(t, err)
}
