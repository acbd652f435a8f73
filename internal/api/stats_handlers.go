package api

import (
	"net/http"

	"github.com/vytor/gauntlet/internal/errors"
	"github.com/vytor/gauntlet/internal/gauntlet"
	"github.com/vytor/gauntlet/internal/logger"
	"github.com/vytor/gauntlet/internal/models"
	"github.com/vytor/gauntlet/internal/services"
)

type sessionResponse struct {
	models.GauntletSessionStats
	TotalTime string `json:"totalTime"`
}

func newSessionResponses(sessions []models.GauntletSessionStats) []sessionResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{GauntletSessionStats: s, TotalTime: gauntlet.FormatTime(s.TotalTimeMs)})
	}
	return out
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	dojo, err := dojoParam(r, "dojo")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", services.DefaultHistoryLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	history := s.StatsService.SessionHistory(r.Context(), dojo, limit)
	writeJSON(w, r, http.StatusOK, map[string]any{
		"dojoType": dojo,
		"sessions": newSessionResponses(history),
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	dojo, err := dojoParam(r, "dojo")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", services.DefaultLeaderboardLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var difficulty models.Difficulty
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		difficulty, err = models.ParseDifficulty(raw)
		if err != nil {
			handleError(w, r, errors.NewValidationError("difficulty", err.Error()))
			return
		}
	}

	board := s.StatsService.Leaderboard(r.Context(), dojo, difficulty, limit)
	writeJSON(w, r, http.StatusOK, map[string]any{
		"dojoType":   dojo,
		"difficulty": difficulty,
		"sessions":   newSessionResponses(board),
	})
}

func (s *Server) handleBestTime(w http.ResponseWriter, r *http.Request) {
	dojo, err := dojoParam(r, "dojo")
	if err != nil {
		handleError(w, r, err)
		return
	}
	q := r.URL.Query()
	difficulty, err := models.ParseDifficulty(q.Get("difficulty"))
	if err != nil {
		handleError(w, r, errors.NewValidationError("difficulty", err.Error()))
		return
	}
	mode, err := models.ParseGameMode(q.Get("gameMode"))
	if err != nil {
		handleError(w, r, errors.NewValidationError("gameMode", err.Error()))
		return
	}
	reps, err := queryInt(r, "repetitionsPerChar", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	total, err := queryInt(r, "totalCharacters", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if reps == 0 || total == 0 {
		handleError(w, r, errors.NewBadRequestError("repetitionsPerChar and totalCharacters are required"))
		return
	}

	resp := map[string]any{"key": models.BestTimeKey(difficulty, reps, mode, total), "bestTimeMs": nil}
	if best, ok := s.StatsService.BestTime(r.Context(), dojo, difficulty, reps, mode, total); ok {
		resp["bestTimeMs"] = best
		resp["bestTime"] = gauntlet.FormatTime(best)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleOverallStats(w http.ResponseWriter, r *http.Request) {
	dojo, err := dojoParam(r, "dojo")
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.StatsService.OverallStats(r.Context(), dojo))
}

func (s *Server) handleClearStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if err := s.StatsService.ClearAllStats(r.Context()); err != nil {
		handleError(w, r, errors.NewUnavailableError("stats storage unavailable", err))
		return
	}
	log.Info("gauntlet stats cleared")
	w.WriteHeader(http.StatusNoContent)
}
