// Package api exposes the generation pipeline over HTTP: a single
// generation endpoint plus health and metrics.
package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"tcgen/config"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterEntry holds a per-client limiter with its last seen time so
// stale entries can be evicted.
type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterTTL is how long an idle client keeps its limiter entry.
const limiterTTL = 10 * time.Minute

// API holds the HTTP server and its dependencies.
type API struct {
	cfg      *config.Config
	pipeline PipelineRunner
	logger   *zap.SugaredLogger
	server   *http.Server

	limiterMu sync.Mutex
	limiters  map[string]*rateLimiterEntry
}

// New creates the API server around a pipeline.
func New(cfg *config.Config, pipeline PipelineRunner, logger *zap.SugaredLogger) *API {
	a := &API{
		cfg:      cfg,
		pipeline: pipeline,
		logger:   logger,
		limiters: make(map[string]*rateLimiterEntry),
	}

	r := mux.NewRouter()
	r.Use(a.loggingMiddleware, a.rateLimitMiddleware)
	r.HandleFunc("/api/generate", a.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	a.server = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, portString(cfg.Server.Port)),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return a
}

// Router returns the configured handler, for tests.
func (a *API) Router() http.Handler {
	return a.server.Handler
}

// Start runs the server until it fails or is shut down.
func (a *API) Start() error {
	a.logger.Infow("API server starting", "addr", a.server.Addr)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// loggingMiddleware logs every request with method, path, and duration.
func (a *API) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		a.logger.Debugw("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start))
	})
}

// rateLimitMiddleware enforces a per-client token bucket.
func (a *API) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow fetches or creates the client's limiter and evicts stale
// entries opportunistically.
func (a *API) allow(client string) bool {
	a.limiterMu.Lock()
	defer a.limiterMu.Unlock()

	now := time.Now()
	entry, ok := a.limiters[client]
	if !ok {
		entry = &rateLimiterEntry{
			limiter: rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RequestsPerSecond), a.cfg.RateLimit.Burst),
		}
		a.limiters[client] = entry
	}
	entry.lastSeen = now

	for key, e := range a.limiters {
		if now.Sub(e.lastSeen) > limiterTTL {
			delete(a.limiters, key)
		}
	}
	return entry.limiter.Allow()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func portString(port int) string {
	return strconv.Itoa(port)
}
