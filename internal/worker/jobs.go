package worker

import (
	"context"
	"fmt"

	"github.com/vytor/gauntlet/internal/models"
)

// SessionSaver persists a finished session. services.GauntletStatsService
// satisfies it.
type SessionSaver interface {
	SaveSession(ctx context.Context, stats models.GauntletSessionStats) models.SaveResult
}

// SaveSessionJob hands a terminal run summary to the stats store off the
// caller's goroutine.
type SaveSessionJob struct {
	Saver   SessionSaver
	Session models.GauntletSessionStats
	OnSaved func(models.SaveResult)
}

func (j *SaveSessionJob) Name() string { return "save_session" }

func (j *SaveSessionJob) Run(ctx context.Context) error {
	result := j.Saver.SaveSession(ctx, j.Session)
	if j.OnSaved != nil {
		j.OnSaved(result)
	}
	if !result.Saved {
		return fmt.Errorf("session %s was not persisted", result.Session.ID)
	}
	return nil
}
