package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"AntVillage/pkg/logger"
	"AntVillage/pkg/queue"
	"AntVillage/pkg/util"
)

// BriefingJobType is the queue message type for scheduled briefings.
const BriefingJobType = "briefing.generate"

// BriefingJobPayload is the enqueued request for one scheduled run.
type BriefingJobPayload struct {
	UserID      int64  `json:"user_id"`
	UserName    string `json:"user_name"`
	PortfolioID int64  `json:"portfolio_id"`
	TimeSlot    string `json:"time_slot"`
}

// BriefingJob runs scheduled briefing generation off the request path.
// Transient failures are retried by the queue; caller input errors are
// swallowed so they do not churn the retry loop.
type BriefingJob struct {
	pipeline *BriefingPipeline
	log      *logger.Logger
}

func NewBriefingJob(pipeline *BriefingPipeline, log *logger.Logger) *BriefingJob {
	return &BriefingJob{pipeline: pipeline, log: log}
}

func (j *BriefingJob) Name() string { return "scheduled-briefing" }

func (j *BriefingJob) Type() string { return BriefingJobType }

func (j *BriefingJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[BriefingJobPayload](payload)
	if err != nil {
		return fmt.Errorf("parse briefing payload: %w", err)
	}
	if p.TimeSlot == "" {
		p.TimeSlot = util.SlotForTime(time.Now())
	}

	_, err = j.pipeline.Generate(ctx, p.UserID, p.PortfolioID, p.UserName, p.TimeSlot)
	if err != nil {
		// Bad input will not get better on retry.
		if errors.Is(err, ErrPortfolioNotFound) || errors.Is(err, ErrNoHoldings) {
			j.log.Warn("scheduled briefing skipped",
				logger.Int64("user_id", p.UserID),
				logger.Int64("portfolio_id", p.PortfolioID),
				logger.Error(err))
			return nil
		}
		return err
	}

	j.log.Info("scheduled briefing generated",
		logger.Int64("user_id", p.UserID),
		logger.Int64("portfolio_id", p.PortfolioID),
		logger.String("time_slot", p.TimeSlot))
	return nil
}

var _ queue.Job = (*BriefingJob)(nil)
