package web

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/vbonduro/shishalog/internal/metrics"
	"github.com/vbonduro/shishalog/internal/ratelimit"
	"github.com/vbonduro/shishalog/internal/service"
)

type Server struct {
	service *service.RecordService
	metrics *metrics.Metrics
	mux     *http.ServeMux
	handler http.Handler
	logger  *slog.Logger
}

// NewServer builds the JSON API. m and limiter may be nil, which turns off
// request metrics and rate limiting. An empty corsOrigins list disables CORS.
func NewServer(
	svc *service.RecordService,
	m *metrics.Metrics,
	limiter *ratelimit.KeyedRateLimiter,
	corsOrigins []string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		service: svc,
		metrics: m,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()

	var h http.Handler = s.mux
	h = rateLimit(limiter, logger, h)
	h = securityHeaders(h)
	if len(corsOrigins) > 0 {
		h = cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		})(h)
	}
	s.handler = requestLogger(logger, m, h)
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
	s.mux.HandleFunc("GET /dashboard", s.handleDashboard)

	s.mux.HandleFunc("GET /shops", s.handleListShops)
	s.mux.HandleFunc("POST /shops", s.handleCreateShop)
	s.mux.HandleFunc("POST /shops/validate", s.handleValidateShop)
	s.mux.HandleFunc("GET /shops/{id}", s.handleGetShop)
	s.mux.HandleFunc("PATCH /shops/{id}", s.handleUpdateShop)
	s.mux.HandleFunc("DELETE /shops/{id}", s.handleDeleteShop)

	s.mux.HandleFunc("GET /flavors", s.handleListFlavors)
	s.mux.HandleFunc("POST /flavors", s.handleCreateFlavor)
	s.mux.HandleFunc("POST /flavors/validate", s.handleValidateFlavor)
	s.mux.HandleFunc("GET /flavors/{id}", s.handleGetFlavor)
	s.mux.HandleFunc("PATCH /flavors/{id}", s.handleUpdateFlavor)
	s.mux.HandleFunc("DELETE /flavors/{id}", s.handleDeleteFlavor)

	s.mux.HandleFunc("GET /settings", s.handleGetSettings)
	s.mux.HandleFunc("PATCH /settings", s.handleUpdateSettings)

	s.mux.HandleFunc("GET /backup", s.handleExportBackup)
	s.mux.HandleFunc("POST /restore", s.handleRestoreBackup)
	s.mux.HandleFunc("POST /backups", s.handleArchiveBackup)
	s.mux.HandleFunc("GET /backups", s.handleListBackups)
	s.mux.HandleFunc("GET /backups/{key}", s.handleGetBackup)
	s.mux.HandleFunc("DELETE /backups/{key}", s.handleDeleteBackup)
	s.mux.HandleFunc("POST /backups/{key}/restore", s.handleRestoreArchivedBackup)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger logs every request and records it in m when m is set. The
// route label is the mux pattern, which ServeMux sets on r while routing.
func requestLogger(logger *slog.Logger, m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)
		if m != nil {
			m.ObserveRequest(r.Method, r.Pattern, rec.status, elapsed)
		}
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

// rateLimit throttles mutating requests per client IP. Reads are never
// limited.
func rateLimit(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
			key := clientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
				writeError(w, http.StatusTooManyRequests, codeRateLimited, "too many requests, please try again later")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the connection's remote address without its port. Forwarding
// headers are client supplied and never used as the rate limit key.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// HTTPServer returns an http.Server for addr serving s.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}
