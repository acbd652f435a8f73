package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/gauntlet/internal/errors"
	"github.com/vytor/gauntlet/internal/gauntlet"
	"github.com/vytor/gauntlet/internal/logger"
	"github.com/vytor/gauntlet/internal/models"
	"github.com/vytor/gauntlet/internal/services"
)

// runResponse adds the host-side strings a client would otherwise have to
// format itself.
type runResponse struct {
	*models.RunView
	Elapsed   string `json:"elapsed"`
	Feedback  string `json:"feedback,omitempty"`
	RegenHint string `json:"regenHint,omitempty"`
	TotalTime string `json:"totalTime,omitempty"`
}

func newRunResponse(v *models.RunView) runResponse {
	resp := runResponse{
		RunView:   v,
		Elapsed:   gauntlet.FormatElapsed(v.ElapsedTimeMs),
		Feedback:  gauntlet.FeedbackMessage(v.GameMode, v.LastAnswerCorrect, v.ExpectedAnswer),
		RegenHint: gauntlet.RegenHint(v.RegenRemaining),
	}
	if v.Summary != nil {
		resp.TotalTime = gauntlet.FormatTime(v.Summary.TotalTimeMs)
	}
	return resp
}

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req startRunRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	dojo, err := models.ParseDojoType(req.DojoType)
	if err != nil {
		handleError(w, r, errors.NewValidationError("dojoType", err.Error()))
		return
	}
	difficulty, err := models.ParseDifficulty(req.Difficulty)
	if err != nil {
		handleError(w, r, errors.NewValidationError("difficulty", err.Error()))
		return
	}
	mode, err := models.ParseGameMode(req.GameMode)
	if err != nil {
		handleError(w, r, errors.NewValidationError("gameMode", err.Error()))
		return
	}

	view, err := s.GauntletService.StartRun(r.Context(), services.StartRunRequest{
		DojoType:           dojo,
		Difficulty:         difficulty,
		GameMode:           mode,
		RepetitionsPerChar: req.RepetitionsPerChar,
		Sets:               req.SelectedSets,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("run created: id=%s", view.ID)
	writeJSON(w, r, http.StatusCreated, newRunResponse(view))
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	view, err := s.GauntletService.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newRunResponse(view))
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	view, err := s.GauntletService.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newRunResponse(view))
}

func (s *Server) handleSelectOption(w http.ResponseWriter, r *http.Request) {
	var req pickRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	view, err := s.GauntletService.SelectOption(r.Context(), chi.URLParam(r, "id"), req.Option)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newRunResponse(view))
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req tickRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	view, err := s.GauntletService.Tick(r.Context(), chi.URLParam(r, "id"), req.DeltaMs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newRunResponse(view))
}

func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	view, err := s.GauntletService.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newRunResponse(view))
}
