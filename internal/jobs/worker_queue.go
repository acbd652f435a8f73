package jobs

import (
	"github.com/vytor/gauntlet/internal/models"
	"github.com/vytor/gauntlet/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	savePool *worker.Pool
	saver    worker.SessionSaver
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(savePool *worker.Pool, saver worker.SessionSaver) JobQueue {
	return &WorkerQueue{savePool: savePool, saver: saver}
}

func (q *WorkerQueue) EnqueueSessionSave(stats models.GauntletSessionStats, onSaved func(models.SaveResult)) error {
	return q.savePool.Submit(&worker.SaveSessionJob{
		Saver:   q.saver,
		Session: stats,
		OnSaved: onSaved,
	})
}
