package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"AntVillage/internal/domain/models"
	"AntVillage/pkg/logger"
)

type fakeLister struct {
	villages []models.Village
	err      error
}

func (f *fakeLister) AllPortfolios(ctx context.Context) ([]models.Village, error) {
	return f.villages, f.err
}

type captureEnqueuer struct {
	types    []string
	payloads []BriefingJobPayload
	failFor  map[int64]bool
}

func (c *captureEnqueuer) Enqueue(ctx context.Context, msgType string, payload interface{}) error {
	p := payload.(BriefingJobPayload)
	if c.failFor[p.PortfolioID] {
		return errors.New("queue full")
	}
	c.types = append(c.types, msgType)
	c.payloads = append(c.payloads, p)
	return nil
}

func newSchedulerFixture(lister *fakeLister, q *captureEnqueuer) *BriefingScheduler {
	return NewBriefingScheduler(lister, q, nopMetrics{}, logger.NewNop(), time.UTC)
}

func TestSchedulerEnqueueAll(t *testing.T) {
	lister := &fakeLister{villages: []models.Village{
		{ID: 1, UserID: 7, Name: "성장주"},
		{ID: 2, UserID: 7, Name: "배당주"},
		{ID: 5, UserID: 9, Name: "기술주"},
	}}
	q := &captureEnqueuer{}
	s := newSchedulerFixture(lister, q)

	n, err := s.EnqueueAll(context.Background(), models.SlotMorning)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	require.Equal(t, []string{BriefingJobType, BriefingJobType, BriefingJobType}, q.types)
	require.Equal(t, BriefingJobPayload{UserID: 7, PortfolioID: 1, TimeSlot: models.SlotMorning}, q.payloads[0])
	require.Equal(t, BriefingJobPayload{UserID: 9, PortfolioID: 5, TimeSlot: models.SlotMorning}, q.payloads[2])
}

func TestSchedulerEnqueueAllDefaultsSlot(t *testing.T) {
	lister := &fakeLister{villages: []models.Village{{ID: 1, UserID: 7}}}
	q := &captureEnqueuer{}
	s := newSchedulerFixture(lister, q)

	n, err := s.EnqueueAll(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Contains(t, []string{models.SlotMorning, models.SlotEvening}, q.payloads[0].TimeSlot)
}

func TestSchedulerEnqueueAllSkipsFailedEnqueues(t *testing.T) {
	lister := &fakeLister{villages: []models.Village{
		{ID: 1, UserID: 7},
		{ID: 2, UserID: 7},
	}}
	q := &captureEnqueuer{failFor: map[int64]bool{1: true}}
	s := newSchedulerFixture(lister, q)

	n, err := s.EnqueueAll(context.Background(), models.SlotEvening)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, int64(2), q.payloads[0].PortfolioID)
}

func TestSchedulerEnqueueAllListerError(t *testing.T) {
	s := newSchedulerFixture(&fakeLister{err: errors.New("db down")}, &captureEnqueuer{})

	_, err := s.EnqueueAll(context.Background(), models.SlotMorning)
	require.Error(t, err)
}

func TestSchedulerRegister(t *testing.T) {
	s := newSchedulerFixture(&fakeLister{}, &captureEnqueuer{})

	require.NoError(t, s.Register("0 0 9 * * *", "0 0 17 * * *"))
	require.Error(t, s.Register("not a cron spec", "0 0 17 * * *"))
}
