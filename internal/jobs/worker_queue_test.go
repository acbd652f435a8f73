package jobs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/gauntlet/internal/jobs"
	"github.com/vytor/gauntlet/internal/models"
	"github.com/vytor/gauntlet/internal/repository/memory"
	"github.com/vytor/gauntlet/internal/services"
	"github.com/vytor/gauntlet/internal/worker"
)

func TestWorkerQueue_EnqueueSessionSave(t *testing.T) {
	stats := services.NewGauntletStatsService(memory.NewKVRepository(), "stats")
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	queue := jobs.NewWorkerQueue(pool, stats)

	results := make(chan models.SaveResult, 1)
	err := queue.EnqueueSessionSave(models.GauntletSessionStats{
		DojoType:    models.DojoKanji,
		Difficulty:  models.DifficultyHard,
		GameMode:    models.ModeType,
		TotalTimeMs: 1234,
		Completed:   true,
	}, func(r models.SaveResult) { results <- r })
	require.NoError(t, err)

	res := <-results
	pool.Stop()

	assert.True(t, res.Saved)
	assert.True(t, res.IsNewBest)
	assert.Len(t, stats.SessionHistory(context.Background(), models.DojoKanji, 10), 1)
}

func TestWorkerQueue_StoppedPool(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())
	pool.Stop()

	queue := jobs.NewWorkerQueue(pool, services.NewGauntletStatsService(memory.NewKVRepository(), "stats"))
	assert.ErrorIs(t, queue.EnqueueSessionSave(models.GauntletSessionStats{}, nil), worker.ErrPoolStopped)
}
