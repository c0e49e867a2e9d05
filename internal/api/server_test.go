package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-tournament/internal/api/handler"
	"github.com/albapepper/scoracle-tournament/internal/cache"
	"github.com/albapepper/scoracle-tournament/internal/config"
	"github.com/albapepper/scoracle-tournament/internal/jobs"
	"github.com/albapepper/scoracle-tournament/internal/league"
	"github.com/albapepper/scoracle-tournament/internal/store"
	"github.com/albapepper/scoracle-tournament/internal/store/storetest"
)

const adminToken = "s3cret"

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	cfg := &config.Config{
		DataSource:           config.SourceFile,
		DataDir:              storetest.CopySample(t),
		CORSAllowOrigins:     []string{"http://localhost:3000"},
		CacheEnabled:         true,
		ScenarioGapLimit:     3,
		ScenarioComboCeiling: 10,
		HomeAdvantage:        0.3,
		ForecastSimRuns:      200,
		ForecastWorkers:      2,
		AdminToken:           adminToken,
		JobTTL:               time.Minute,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fs := store.NewFileStore(cfg.DataDir)
	c := cache.New(cfg.CacheEnabled)
	t.Cleanup(c.Close)
	svc := league.New(fs, fs, c, league.SettingsFrom(cfg), logger)

	ctx, cancel := context.WithCancel(context.Background())
	runner := jobs.NewRunner(cfg.JobTTL, logger)
	t.Cleanup(func() {
		cancel()
		runner.Wait()
	})

	h := handler.New(ctx, svc, runner, nil, cfg, logger)
	return NewRouter(h, cfg)
}

func do(t *testing.T, r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, rec)
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return e["code"].(string)
}

func firstTeam(t *testing.T, r http.Handler, group string) string {
	t.Helper()
	rec := do(t, r, http.MethodGet, "/api/v1/groups/"+group+"/standings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode(t, rec)["rows"].([]any)
	return rows[0].(map[string]any)["team_id"].(string)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))

	rec = do(t, r, http.MethodGet, "/health/db", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "not_configured", decode(t, rec)["database"])

	rec = do(t, r, http.MethodGet, "/health/cache", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGroups_CacheAndETag(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/api/v1/groups", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	var groups []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	assert.Len(t, groups, 2)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	rec = do(t, r, http.MethodGet, "/api/v1/groups", "", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = do(t, r, http.MethodGet, "/api/v1/groups", "", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestStandingsRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"table", "/api/v1/groups/A/standings", http.StatusOK, ""},
		{"exclude round", "/api/v1/groups/A/standings?exclude_round=2", http.StatusOK, ""},
		{"bad exclude round", "/api/v1/groups/A/standings?exclude_round=abc", http.StatusBadRequest, "INVALID_ROUND"},
		{"unknown group", "/api/v1/groups/Z/standings", http.StatusNotFound, "NOT_FOUND"},
		{"fixtures", "/api/v1/groups/A/fixtures", http.StatusOK, ""},
		{"forecast", "/api/v1/groups/B/forecast", http.StatusOK, ""},
		{"odds", "/api/v1/groups/A/odds?runs=100", http.StatusOK, ""},
		{"bad runs", "/api/v1/groups/A/odds?runs=0", http.StatusBadRequest, "INVALID_RUNS"},
		{"too many runs", "/api/v1/groups/A/odds?runs=1000000", http.StatusBadRequest, "BAD_REQUEST"},
		{"prediction", "/api/v1/matches/A-r03-m01/prediction", http.StatusOK, ""},
		{"unknown match", "/api/v1/matches/nope/prediction", http.StatusNotFound, "NOT_FOUND"},
		{"scenarios", "/api/v1/teams/POL/scenarios", http.StatusOK, ""},
		{"scenarios gap", "/api/v1/teams/POL/scenarios?gap=1", http.StatusOK, ""},
		{"bad gap", "/api/v1/teams/POL/scenarios?gap=-2", http.StatusBadRequest, "INVALID_GAP"},
		{"unknown team", "/api/v1/teams/XXX/scenarios", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, rec))
			}
		})
	}
}

func TestScenarios_Body(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/api/v1/teams/POL/scenarios", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "enumerated", body["kind"])
	assert.EqualValues(t, 3, body["round"])
	assert.Len(t, body["scenarios"], 3)
}

func TestResultEntry(t *testing.T) {
	r := newTestRouter(t)
	body := `{"match_id":"A-r03-m01","home_score":0,"away_score":2}`
	auth := map[string]string{AdminTokenHeader: adminToken}

	assert.Equal(t, "POL", firstTeam(t, r, "A"))

	rec := do(t, r, http.MethodPost, "/api/v1/results", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/v1/results", body, map[string]string{AdminTokenHeader: "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/v1/results", body, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "A", decode(t, rec)["group_id"])

	// The cached table was dropped by the write.
	assert.Equal(t, "ARG", firstTeam(t, r, "A"))

	rec = do(t, r, http.MethodPost, "/api/v1/results", body, auth)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, rec))

	rec = do(t, r, http.MethodPost, "/api/v1/results", `{"match_id":"A-r03-m02","bogus":1}`, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/v1/results", `{"match_id":"A-r03-m02","home_score":-1}`, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPut, "/api/v1/results/A-r03-m01", `{"home_score":3,"away_score":0}`, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 3, decode(t, rec)["home_score"])
	assert.Equal(t, "POL", firstTeam(t, r, "A"))

	rec = do(t, r, http.MethodPut, "/api/v1/results/A-r03-m02", `{"home_score":1,"away_score":1}`, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPut, "/api/v1/results/A-r01-m01", `{"home_score":1}`, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_SCORE", errorCode(t, rec))
}

func TestScenarioJobs(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/v1/scenarios/jobs", `{"team_id":"FRA","gap":3}`, nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	id := decode(t, rec)["id"].(string)
	assert.Equal(t, "/api/v1/scenarios/jobs/"+id, rec.Header().Get("Location"))

	var job map[string]any
	require.Eventually(t, func() bool {
		rec := do(t, r, http.MethodGet, "/api/v1/scenarios/jobs/"+id, "", nil)
		if rec.Code != http.StatusOK {
			return false
		}
		job = decode(t, rec)
		return job["status"] == "done"
	}, 5*time.Second, 10*time.Millisecond)
	result := job["result"].(map[string]any)
	assert.Equal(t, "FRA", result["team_id"])

	rec = do(t, r, http.MethodDelete, "/api/v1/scenarios/jobs/"+id, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", decode(t, rec)["status"])

	rec = do(t, r, http.MethodGet, "/api/v1/scenarios/jobs/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodDelete, "/api/v1/scenarios/jobs/2b0d7c1e-0c6e-4f57-9b5a-2f6f0f4b8f10", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/v1/scenarios/jobs", `{"team_id":"XXX"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/v1/scenarios/jobs", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
