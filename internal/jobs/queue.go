package jobs

import "github.com/vytor/gauntlet/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	// EnqueueSessionSave persists stats in the background and reports the
	// outcome to onSaved, which may be nil.
	EnqueueSessionSave(stats models.GauntletSessionStats, onSaved func(models.SaveResult)) error
}
