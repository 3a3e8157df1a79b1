package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderdesk/internal/jobs"
	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockListRefresher struct{ mock.Mock }

func (m *MockListRefresher) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type probe bool

func (p probe) Connected() bool { return bool(p) }

type MockTicketSweeper struct{ mock.Mock }

func (m *MockTicketSweeper) SweepSettled(before time.Time) int {
	return m.Called(before).Int(0)
}

func TestPollingFallbackJob_Tick(t *testing.T) {
	t.Run("should not poll while connected", func(t *testing.T) {
		list := new(MockListRefresher)
		job := jobs.NewPollingFallbackJob(list, probe(true), time.Second, zap.NewNop())

		assert.False(t, job.Tick(t.Context()))
		list.AssertNotCalled(t, "Refresh", mock.Anything)
	})

	t.Run("should poll while disconnected", func(t *testing.T) {
		list := new(MockListRefresher)
		list.On("Refresh", mock.Anything).Return(nil).Once()
		job := jobs.NewPollingFallbackJob(list, probe(false), time.Second, zap.NewNop())

		assert.True(t, job.Tick(t.Context()))
		list.AssertExpectations(t)
	})

	t.Run("should survive refetch errors", func(t *testing.T) {
		list := new(MockListRefresher)
		list.On("Refresh", mock.Anything).Return(errors.New("offline")).Twice()
		job := jobs.NewPollingFallbackJob(list, probe(false), time.Second, zap.NewNop())

		assert.False(t, job.Tick(t.Context()))
		assert.False(t, job.Tick(t.Context()))
		list.AssertExpectations(t)
	})
}

func TestTicketSweepJob_Tick(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sweeper := new(MockTicketSweeper)
	sweeper.On("SweepSettled", now.Add(-10*time.Minute)).Return(3).Once()
	job := jobs.NewTicketSweepJob(sweeper, 10*time.Minute, zap.NewNop())

	assert.Equal(t, 3, job.Tick(now))
	sweeper.AssertExpectations(t)
}

func TestJobManager(t *testing.T) {
	t.Run("should reject empty schedules", func(t *testing.T) {
		_, err := jobs.NewJobManager(new(MockListRefresher), probe(true), new(MockTicketSweeper), jobs.Config{}, zap.NewNop())

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should start and stop", func(t *testing.T) {
		jm, err := jobs.NewJobManager(new(MockListRefresher), probe(true), new(MockTicketSweeper), jobs.Config{
			PollInterval:    time.Second,
			TicketRetention: time.Minute,
		}, zap.NewNop())
		require.NoError(t, err)

		require.NoError(t, jm.StartAll())
		jm.StopAll()
	})
}
