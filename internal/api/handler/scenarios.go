package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/albapepper/scoracle-tournament/internal/api/respond"
	"github.com/albapepper/scoracle-tournament/internal/cache"
	"github.com/albapepper/scoracle-tournament/internal/league"
)

// scenarioJobKind tags jobs created by StartScenarioJob.
const scenarioJobKind = "scenarios"

// ScenarioJobRequest is the body of POST /scenarios/jobs.
type ScenarioJobRequest struct {
	TeamID string `json:"team_id"`
	Gap    *int   `json:"gap,omitempty"`
}

// GetScenarios runs the what-if engine synchronously.
// @Summary Get team scenarios
// @Description For each of the team's possible results in the next round, enumerates every result combination of the teams within the points gap and classifies where the team ends up.
// @Tags scenarios
// @Produce json
// @Param teamID path string true "Team ID"
// @Param gap query int false "Points gap defining relevant teams (defaults to SCENARIO_GAP_LIMIT)"
// @Success 200 {object} scenario.Analysis
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /teams/{teamID}/scenarios [get]
func (h *Handler) GetScenarios(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	gap, ok := parseGap(w, r.URL.Query().Get("gap"))
	if !ok {
		return
	}
	groupID, err := h.svc.GroupOfTeam(r.Context(), teamID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	key := fmt.Sprintf("%steam:%s:gap:%d", league.GroupCachePrefix(groupID), teamID, gap)
	h.serveCached(w, r, key, cache.TTLScenarios, func(ctx context.Context) (any, error) {
		return h.svc.Scenarios(ctx, teamID, gap)
	})
}

// StartScenarioJob queues a scenario analysis in the background.
// @Summary Start scenario job
// @Description Starts a scenario analysis off the request goroutine and returns the job for polling.
// @Tags scenarios
// @Accept json
// @Produce json
// @Param request body ScenarioJobRequest true "Team and optional gap"
// @Success 202 {object} jobs.Job
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /scenarios/jobs [post]
func (h *Handler) StartScenarioJob(w http.ResponseWriter, r *http.Request) {
	var req ScenarioJobRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TeamID == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_TEAM", "team_id is required")
		return
	}
	gap := -1
	if req.Gap != nil {
		if *req.Gap < 0 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_GAP", "gap must not be negative")
			return
		}
		gap = *req.Gap
	}
	if _, err := h.svc.GroupOfTeam(r.Context(), req.TeamID); err != nil {
		h.writeError(w, err)
		return
	}

	teamID := req.TeamID
	job := h.jobs.Start(h.ctx, scenarioJobKind, func(ctx context.Context) (any, error) {
		return h.svc.Scenarios(ctx, teamID, gap)
	})
	h.logger.Info("Scenario job started", "job_id", job.ID, "team_id", teamID, "gap", gap)

	respond.WriteCreated(w, http.StatusAccepted, "/api/v1/scenarios/jobs/"+job.ID.String(), job)
}

// GetScenarioJob returns a job's status and, once done, its analysis.
// @Summary Get scenario job
// @Tags scenarios
// @Produce json
// @Param jobID path string true "Job ID (uuid)"
// @Success 200 {object} jobs.Job
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /scenarios/jobs/{jobID} [get]
func (h *Handler) GetScenarioJob(w http.ResponseWriter, r *http.Request) {
	id, ok := parseJobID(w, chi.URLParam(r, "jobID"))
	if !ok {
		return
	}
	job, err := h.jobs.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, job)
}

// CancelScenarioJob stops a pending or running job.
// @Summary Cancel scenario job
// @Tags scenarios
// @Produce json
// @Param jobID path string true "Job ID (uuid)"
// @Success 200 {object} jobs.Job
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /scenarios/jobs/{jobID} [delete]
func (h *Handler) CancelScenarioJob(w http.ResponseWriter, r *http.Request) {
	id, ok := parseJobID(w, chi.URLParam(r, "jobID"))
	if !ok {
		return
	}
	job, err := h.jobs.Cancel(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, job)
}

// parseGap returns -1 (configured default) for an empty value.
func parseGap(w http.ResponseWriter, s string) (int, bool) {
	if s == "" {
		return -1, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_GAP", "gap must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func parseJobID(w http.ResponseWriter, s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "job ID must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}
