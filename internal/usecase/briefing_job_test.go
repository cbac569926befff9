package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"AntVillage/internal/domain/models"
	"AntVillage/pkg/logger"
)

func TestBriefingJobHandlesPayload(t *testing.T) {
	fx := newPipelineFixture(t)
	job := NewBriefingJob(fx.pipeline, logger.NewNop())

	require.Equal(t, "scheduled-briefing", job.Name())
	require.Equal(t, BriefingJobType, job.Type())

	err := job.Handle(context.Background(), map[string]interface{}{
		"user_id":      float64(7),
		"user_name":    "개미",
		"portfolio_id": float64(1),
		"time_slot":    models.SlotMorning,
	})
	require.NoError(t, err)
	require.Equal(t, 1, fx.store.count())
}

func TestBriefingJobSkipsUnknownPortfolio(t *testing.T) {
	fx := newPipelineFixture(t)
	job := NewBriefingJob(fx.pipeline, logger.NewNop())

	// Bad input is swallowed so the queue does not retry it.
	err := job.Handle(context.Background(), &BriefingJobPayload{UserID: 7, PortfolioID: 99})
	require.NoError(t, err)
	require.Zero(t, fx.store.count())
}

func TestBriefingJobDefaultsTimeSlot(t *testing.T) {
	fx := newPipelineFixture(t)
	job := NewBriefingJob(fx.pipeline, logger.NewNop())

	require.NoError(t, job.Handle(context.Background(), &BriefingJobPayload{UserID: 7, PortfolioID: 1, UserName: "개미"}))

	snap, err := fx.store.Latest(context.Background(), 7, 1)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Contains(t, []string{models.SlotMorning, models.SlotEvening}, snap.TimeSlot)
}

func TestBriefingJobRejectsBadPayload(t *testing.T) {
	fx := newPipelineFixture(t)
	job := NewBriefingJob(fx.pipeline, logger.NewNop())

	require.Error(t, job.Handle(context.Background(), 42))
}
