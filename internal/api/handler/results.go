package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/scoracle-tournament/internal/api/respond"
	"github.com/albapepper/scoracle-tournament/internal/league"
)

// ScoreEdit is the body of PUT /results/{matchID}.
type ScoreEdit struct {
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
}

// SubmitResult records a played match.
// @Summary Submit result
// @Description Records the score of a scheduled match. Requires the X-Admin-Token header when ADMIN_TOKEN is set.
// @Tags results
// @Accept json
// @Produce json
// @Param X-Admin-Token header string false "Admin token"
// @Param request body league.ResultInput true "Result"
// @Success 201 {object} model.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 401 {object} respond.ErrorResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /results [post]
func (h *Handler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	var in league.ResultInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := h.svc.SubmitResult(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteCreated(w, http.StatusCreated, "/api/v1/matches/"+res.MatchID+"/prediction", res)
}

// EditResult replaces the score of a recorded result.
// @Summary Edit result
// @Description Replaces the score of an already recorded match. Requires the X-Admin-Token header when ADMIN_TOKEN is set.
// @Tags results
// @Accept json
// @Produce json
// @Param X-Admin-Token header string false "Admin token"
// @Param matchID path string true "Match ID"
// @Param request body ScoreEdit true "New score"
// @Success 200 {object} model.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 401 {object} respond.ErrorResponse
// @Failure 403 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /results/{matchID} [put]
func (h *Handler) EditResult(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")

	var edit ScoreEdit
	if !decodeBody(w, r, &edit) {
		return
	}
	if edit.HomeScore == nil || edit.AwayScore == nil {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_SCORE", "home_score and away_score are required")
		return
	}
	res, err := h.svc.EditResult(r.Context(), matchID, *edit.HomeScore, *edit.AwayScore)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, res)
}
