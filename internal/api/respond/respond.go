// Package respond writes the API's JSON bodies: cached league payloads with
// ETags, uncached status objects and the error envelope. It also owns the
// mapping from league and job errors to HTTP status codes.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/albapepper/scoracle-tournament/internal/jobs"
	"github.com/albapepper/scoracle-tournament/internal/league"
)

// Error codes carried in ErrorResponse.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeBadRequest   = "BAD_REQUEST"
	CodeConflict     = "CONFLICT"
	CodeReadOnly     = "READ_ONLY"
	CodeCancelled    = "CANCELLED"
	CodeInternal     = "INTERNAL_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
)

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	} `json:"error"`
}

// serviceError maps a sentinel to its response. detail controls whether the
// wrapped error text (which names the offending id) is echoed back.
type serviceError struct {
	target  error
	status  int
	code    string
	message string
	detail  bool
}

var serviceErrors = []serviceError{
	{league.ErrNotFound, http.StatusNotFound, CodeNotFound, "Resource not found", true},
	{jobs.ErrNotFound, http.StatusNotFound, CodeNotFound, "Scenario job not found", true},
	{league.ErrInvalid, http.StatusBadRequest, CodeBadRequest, "Invalid request", true},
	{league.ErrConflict, http.StatusConflict, CodeConflict, "Result already recorded", true},
	{league.ErrReadOnly, http.StatusMethodNotAllowed, CodeReadOnly, "Result entry is not available", false},
	{context.Canceled, http.StatusServiceUnavailable, CodeCancelled, "Request cancelled", false},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, CodeCancelled, "Request cancelled", false},
}

// StatusFor returns the HTTP status and error code for err. ok is false for
// errors the league service does not classify; those are internal errors.
func StatusFor(err error) (status int, code string, ok bool) {
	for _, se := range serviceErrors {
		if errors.Is(err, se.target) {
			return se.status, se.code, true
		}
	}
	return http.StatusInternalServerError, CodeInternal, false
}

// WriteServiceError writes the error envelope for a league or job error.
// It returns false, writing a bare 500, when err is unclassified so the
// caller can log it.
func WriteServiceError(w http.ResponseWriter, err error) bool {
	for _, se := range serviceErrors {
		if !errors.Is(err, se.target) {
			continue
		}
		detail := ""
		if se.detail {
			detail = err.Error()
		}
		WriteErrorDetail(w, se.status, se.code, se.message, detail)
		return true
	}
	WriteError(w, http.StatusInternalServerError, CodeInternal, "Internal server error")
	return false
}

// WriteJSON writes a cached league payload with its ETag. ttl drives
// Cache-Control; cacheHit sets X-Cache.
func WriteJSON(w http.ResponseWriter, data []byte, etag string, ttl time.Duration, cacheHit bool) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	setCacheHeaders(w, ttl, cacheHit)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// WriteNotModified answers a conditional GET whose ETag still matches.
func WriteNotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// WriteError sends a structured JSON error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteErrorDetail(w, status, code, message, "")
}

// WriteErrorDetail sends a structured error with additional detail.
func WriteErrorDetail(w http.ResponseWriter, status int, code, message, detail string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Detail = detail
	WriteJSONObject(w, status, resp)
}

// WriteJSONObject marshals v and writes it without caching. Used for health
// checks, job status and write acknowledgements.
func WriteJSONObject(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteCreated acknowledges a write (201) or a queued job (202) and points
// Location at the resource to poll.
func WriteCreated(w http.ResponseWriter, status int, location string, v any) {
	if location != "" {
		w.Header().Set("Location", location)
	}
	WriteJSONObject(w, status, v)
}

func setCacheHeaders(w http.ResponseWriter, ttl time.Duration, cacheHit bool) {
	maxAge := int(ttl.Seconds())
	if cacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	// Standings change only on result entry; clients may reuse a stale
	// table for half the TTL while revalidating.
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, maxAge/2))
}
