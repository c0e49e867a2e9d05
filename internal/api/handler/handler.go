// Package handler provides HTTP handlers for all API endpoints.
// Handlers call the league service, marshal its typed results once and keep
// the bytes in the TTL cache keyed under the owning group, so a result
// write drops exactly the responses it affects.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/scoracle-tournament/internal/api/respond"
	"github.com/albapepper/scoracle-tournament/internal/cache"
	"github.com/albapepper/scoracle-tournament/internal/config"
	"github.com/albapepper/scoracle-tournament/internal/jobs"
	"github.com/albapepper/scoracle-tournament/internal/league"
)

// maxBodyBytes bounds request bodies for result entry and job creation.
const maxBodyBytes = 1 << 20

// DBChecker verifies database connectivity. *db.Pool satisfies it.
type DBChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	ctx    context.Context
	svc    *league.Service
	jobs   *jobs.Runner
	db     DBChecker
	cache  *cache.Cache
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Handler with shared dependencies. ctx bounds background
// scenario jobs and should live as long as the server. db may be nil when
// the league is served from data files.
func New(ctx context.Context, svc *league.Service, runner *jobs.Runner, db DBChecker, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		ctx:    ctx,
		svc:    svc,
		jobs:   runner,
		db:     db,
		cache:  svc.Cache(),
		cfg:    cfg,
		logger: logger,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and the active data source.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":        "Scoracle Tournament API",
		"version":     "1.0.0",
		"status":      "running",
		"docs":        "/docs",
		"data_source": h.cfg.DataSource,
		"optimizations": []string{
			"in_memory_snapshot",
			"gzip_compression",
			"in_memory_cache",
			"etag_support",
			"background_scenario_jobs",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity. Reports not_configured when serving data files.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not_configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"jobs":      h.jobs.Len(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// --------------------------------------------------------------------------
// Shared helpers
// --------------------------------------------------------------------------

// serveCached writes the cached response for key, building and caching it
// on a miss. Honors If-None-Match on both paths.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func(ctx context.Context) (any, error)) {
	ttl = h.ttl(ttl)
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, err := build(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Failed to encode response", "key", key, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to encode response")
		return
	}
	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}

// ttl caps a response class TTL at the configured cache TTL.
func (h *Handler) ttl(d time.Duration) time.Duration {
	if h.cfg.CacheTTL > 0 && h.cfg.CacheTTL < d {
		return h.cfg.CacheTTL
	}
	return d
}

// writeError maps service errors onto the API error shape.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if !respond.WriteServiceError(w, err) {
		h.logger.Error("Request failed", "error", err)
	}
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, respond.CodeBadRequest, "Invalid JSON body", err.Error())
		return false
	}
	return true
}
