package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/gauntlet/internal/catalog"
	"github.com/vytor/gauntlet/internal/errors"
	"github.com/vytor/gauntlet/internal/logger"
	"github.com/vytor/gauntlet/internal/models"
	"github.com/vytor/gauntlet/internal/services"
)

// Server exposes runs, stats and the item catalog over JSON.
type Server struct {
	GauntletService services.GauntletService
	StatsService    services.GauntletStatsService
	Catalog         catalog.Provider

	// ReadyCheck reports whether storage can take traffic. Nil means always ready.
	ReadyCheck func(ctx context.Context) error
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON reads the request body into dst and validates it.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewBadRequestError("invalid JSON body")
	}
	return validateRequest(dst)
}

func dojoParam(r *http.Request, name string) (models.DojoType, error) {
	dojo, err := models.ParseDojoType(chi.URLParam(r, name))
	if err != nil {
		return "", errors.NewNotFoundError("dojo", chi.URLParam(r, name))
	}
	return dojo, nil
}

// queryInt parses a positive integer query parameter, falling back to def
// when it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.NewValidationError(name, "must be a positive integer")
	}
	return n, nil
}
