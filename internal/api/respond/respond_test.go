package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-tournament/internal/jobs"
	"github.com/albapepper/scoracle-tournament/internal/league"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDetail bool
	}{
		{"unknown team", fmt.Errorf("team %q: %w", "ghost", league.ErrNotFound), http.StatusNotFound, CodeNotFound, true},
		{"unknown job", fmt.Errorf("job x: %w", jobs.ErrNotFound), http.StatusNotFound, CodeNotFound, true},
		{"bad round", fmt.Errorf("exclude round -1: %w", league.ErrInvalid), http.StatusBadRequest, CodeBadRequest, true},
		{"duplicate", fmt.Errorf("append A-r01-m01: %w", league.ErrConflict), http.StatusConflict, CodeConflict, true},
		{"read only", league.ErrReadOnly, http.StatusMethodNotAllowed, CodeReadOnly, false},
		{"cancelled", fmt.Errorf("analyze: %w", context.Canceled), http.StatusServiceUnavailable, CodeCancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			assert.True(t, WriteServiceError(rec, tt.err))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.wantDetail {
				assert.Equal(t, tt.err.Error(), resp.Error.Detail)
			} else {
				assert.Empty(t, resp.Error.Detail)
			}

			status, code, ok := StatusFor(tt.err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestWriteServiceError_Unclassified(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.False(t, WriteServiceError(rec, errors.New("connection reset")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, CodeInternal, resp.Error.Code)
	assert.Empty(t, resp.Error.Detail, "internal errors are not echoed")
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, []byte(`{"group_id":"A"}`), `"abc"`, 5*time.Minute, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"abc"`, rec.Header().Get("ETag"))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "public, max-age=300, stale-while-revalidate=150", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"group_id":"A"}`, rec.Body.String())
}

func TestWriteCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteCreated(rec, http.StatusAccepted, "/api/v1/scenarios/jobs/1", map[string]string{"status": "pending"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "/api/v1/scenarios/jobs/1", rec.Header().Get("Location"))
	assert.JSONEq(t, `{"status":"pending"}`, rec.Body.String())
}
