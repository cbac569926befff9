package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"AntVillage/internal/domain/repository"
	"AntVillage/pkg/logger"
	"AntVillage/pkg/util"
)

// JobEnqueuer pushes a typed payload onto the job queue.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, msgType string, payload interface{}) error
}

// BriefingScheduler fires at the configured morning and evening hours
// and enqueues one briefing job per known portfolio. Generation itself
// runs on the queue workers, so a slow or failing portfolio never
// blocks the trigger.
type BriefingScheduler struct {
	cron    *cron.Cron
	lister  repository.PortfolioLister
	queue   JobEnqueuer
	metrics repository.Metrics
	log     *logger.Logger
}

func NewBriefingScheduler(
	lister repository.PortfolioLister,
	queue JobEnqueuer,
	metrics repository.Metrics,
	log *logger.Logger,
	loc *time.Location,
) *BriefingScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &BriefingScheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		lister:  lister,
		queue:   queue,
		metrics: metrics,
		log:     log,
	}
}

// Register adds the two daily triggers. Specs use the six-field cron
// format with a leading seconds column.
func (s *BriefingScheduler) Register(morningSpec, eveningSpec string) error {
	if _, err := s.cron.AddFunc(morningSpec, s.fire); err != nil {
		return fmt.Errorf("register morning briefing: %w", err)
	}
	if _, err := s.cron.AddFunc(eveningSpec, s.fire); err != nil {
		return fmt.Errorf("register evening briefing: %w", err)
	}
	return nil
}

// Start starts the cron loop.
func (s *BriefingScheduler) Start() {
	s.cron.Start()
	s.log.Info("briefing scheduler started")
}

// Stop stops the cron loop; already-running trigger functions finish.
func (s *BriefingScheduler) Stop() {
	s.cron.Stop()
	s.log.Info("briefing scheduler stopped")
}

func (s *BriefingScheduler) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slot := util.SlotForTime(time.Now())
	n, err := s.EnqueueAll(ctx, slot)
	if err != nil {
		s.metrics.RecordError("briefing_schedule")
		s.log.Error("scheduled briefing trigger failed", logger.Error(err))
		return
	}
	s.log.Info("scheduled briefings enqueued",
		logger.String("time_slot", slot),
		logger.Int("count", n))
}

// EnqueueAll lists every portfolio and enqueues one briefing job each.
// A failed enqueue is logged and skipped; the returned count is the
// number of jobs accepted by the queue.
func (s *BriefingScheduler) EnqueueAll(ctx context.Context, slot string) (int, error) {
	if slot == "" {
		slot = util.SlotForTime(time.Now())
	}

	villages, err := s.lister.AllPortfolios(ctx)
	if err != nil {
		return 0, fmt.Errorf("list portfolios: %w", err)
	}

	enqueued := 0
	for _, v := range villages {
		payload := BriefingJobPayload{
			UserID:      v.UserID,
			PortfolioID: v.ID,
			TimeSlot:    slot,
		}
		if err := s.queue.Enqueue(ctx, BriefingJobType, payload); err != nil {
			s.metrics.RecordError("briefing_enqueue")
			s.log.Warn("briefing enqueue failed",
				logger.Int64("user_id", v.UserID),
				logger.Int64("portfolio_id", v.ID),
				logger.Error(err))
			continue
		}
		enqueued++
	}
	return enqueued, nil
}
