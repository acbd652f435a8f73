package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/gauntlet/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueSessionSave(stats models.GauntletSessionStats, onSaved func(models.SaveResult)) error {
	args := m.Called(stats, onSaved)
	return args.Error(0)
}
