package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/scoracle-tournament/internal/api/respond"
	"github.com/albapepper/scoracle-tournament/internal/cache"
	"github.com/albapepper/scoracle-tournament/internal/league"
)

// ListGroups returns every group with its teams and progress.
// @Summary List groups
// @Description Returns every group with teams, played/remaining match counts, next round and current leader.
// @Tags groups
// @Produce json
// @Success 200 {array} league.GroupSummary
// @Router /groups [get]
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, league.CacheKeyGroups, cache.TTLGroups, func(ctx context.Context) (any, error) {
		return h.svc.Groups(ctx)
	})
}

// GetStandings returns a group's ordered table.
// @Summary Get group standings
// @Description Returns the league table ordered by points, goal difference, goals scored, head-to-head wins and name. Ties between adjacent teams on points are explained in tie_breaks.
// @Tags groups
// @Produce json
// @Param groupID path string true "Group ID"
// @Param exclude_round query int false "Leave this round's results out (table as if the round was not played)"
// @Success 200 {object} league.Table
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /groups/{groupID}/standings [get]
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	exclude := 0
	if s := r.URL.Query().Get("exclude_round"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_ROUND", "exclude_round must be a positive integer")
			return
		}
		exclude = n
	}

	key := fmt.Sprintf("%sstandings:%d", league.GroupCachePrefix(groupID), exclude)
	h.serveCached(w, r, key, cache.TTLStandings, func(ctx context.Context) (any, error) {
		return h.svc.Standings(ctx, groupID, exclude)
	})
}

// GetFixtures returns a group's schedule with results attached.
// @Summary Get group fixtures
// @Description Returns every fixture round of the group, with the recorded result of each played match and the next unplayed round.
// @Tags groups
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} league.Fixtures
// @Failure 404 {object} respond.ErrorResponse
// @Router /groups/{groupID}/fixtures [get]
func (h *Handler) GetFixtures(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	h.serveCached(w, r, league.GroupCachePrefix(groupID)+"fixtures", cache.TTLStandings, func(ctx context.Context) (any, error) {
		return h.svc.Fixtures(ctx, groupID)
	})
}

// GetForecast returns a group's season projection.
// @Summary Get group forecast
// @Description Projects each team's final points from points-per-match and recent form, and estimates qualification chances.
// @Tags forecast
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} league.Forecast
// @Failure 404 {object} respond.ErrorResponse
// @Router /groups/{groupID}/forecast [get]
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	h.serveCached(w, r, league.GroupCachePrefix(groupID)+"forecast", cache.TTLStandings, func(ctx context.Context) (any, error) {
		return h.svc.Forecast(ctx, groupID)
	})
}

// GetChampionOdds simulates the group's remaining fixtures.
// @Summary Get champion odds
// @Description Plays the remaining fixtures many times from predicted outcome probabilities and reports how often each team finishes first.
// @Tags forecast
// @Produce json
// @Param groupID path string true "Group ID"
// @Param runs query int false "Number of simulated seasons (defaults to FORECAST_SIM_RUNS)"
// @Success 200 {object} league.ChampionOdds
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /groups/{groupID}/odds [get]
func (h *Handler) GetChampionOdds(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	runs := 0
	if s := r.URL.Query().Get("runs"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_RUNS", "runs must be a positive integer")
			return
		}
		runs = n
	}

	key := fmt.Sprintf("%sodds:%d", league.GroupCachePrefix(groupID), runs)
	h.serveCached(w, r, key, cache.TTLScenarios, func(ctx context.Context) (any, error) {
		return h.svc.ChampionOdds(ctx, groupID, runs)
	})
}

// GetPrediction forecasts a single match.
// @Summary Get match prediction
// @Description Predicts win/draw/loss percentages, a score and a rationale from both teams' performance profiles. Played matches are predicted from the table before their round.
// @Tags matches
// @Produce json
// @Param matchID path string true "Match ID"
// @Success 200 {object} league.MatchPrediction
// @Failure 404 {object} respond.ErrorResponse
// @Router /matches/{matchID}/prediction [get]
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")

	groupID, err := h.svc.GroupOfMatch(r.Context(), matchID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	key := league.GroupCachePrefix(groupID) + "match:" + matchID
	h.serveCached(w, r, key, cache.TTLPrediction, func(ctx context.Context) (any, error) {
		return h.svc.Prediction(ctx, matchID)
	})
}
