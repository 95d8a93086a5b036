package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-commerce/meridian/internal/cart"
	jobmetrics "github.com/meridian-commerce/meridian/internal/jobs"
)

type sweepRepo struct {
	cutoff time.Time
	ids    []int64
	err    error
}

func (s *sweepRepo) MarkAbandoned(_ context.Context, cutoff time.Time) ([]int64, error) {
	s.cutoff = cutoff
	return s.ids, s.err
}

func (s *sweepRepo) CreateCart(context.Context, int64, string, *time.Time) (cart.Cart, error) {
	return cart.Cart{}, nil
}
func (s *sweepRepo) GetCart(context.Context, int64, int64) (cart.Cart, error) {
	return cart.Cart{}, nil
}
func (s *sweepRepo) ListCarts(context.Context, int64) ([]cart.Cart, error) { return nil, nil }
func (s *sweepRepo) UpdateCartStatus(context.Context, int64, int64, string) (cart.Cart, error) {
	return cart.Cart{}, nil
}
func (s *sweepRepo) DeleteCart(context.Context, int64, int64) error { return nil }
func (s *sweepRepo) ListItems(context.Context, int64) ([]cart.Item, error) {
	return nil, nil
}
func (s *sweepRepo) UpsertItem(context.Context, int64, int64, int) (cart.Item, error) {
	return cart.Item{}, nil
}
func (s *sweepRepo) RemoveItem(context.Context, int64, int64) error      { return nil }
func (s *sweepRepo) RecordCheckout(context.Context, int64, string) error { return nil }

func testMetrics() *jobmetrics.Metrics {
	return jobmetrics.NewMetrics(prometheus.NewRegistry())
}

func TestAbandonmentScanUsesPayloadThreshold(t *testing.T) {
	repo := &sweepRepo{ids: []int64{3, 9}}
	job := NewAbandonmentScanJob(cart.NewService(repo, nil), nil, testMetrics())

	task, err := NewAbandonmentTask(AbandonmentPayload{IdleHours: 48})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	assert.WithinDuration(t, time.Now().Add(-48*time.Hour), repo.cutoff, time.Minute)
}

func TestAbandonmentScanDefaultsToOneDay(t *testing.T) {
	repo := &sweepRepo{}
	job := NewAbandonmentScanJob(cart.NewService(repo, nil), nil, testMetrics())

	task, err := NewAbandonmentTask(AbandonmentPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), repo.cutoff, time.Minute)
}

func TestAbandonmentScanPropagatesStorageError(t *testing.T) {
	repo := &sweepRepo{err: errors.New("db down")}
	job := NewAbandonmentScanJob(cart.NewService(repo, nil), nil, testMetrics())

	task, err := NewAbandonmentTask(AbandonmentPayload{IdleHours: 1})
	require.NoError(t, err)
	assert.Error(t, job.Handle(context.Background(), task))
}

func TestAbandonmentScanSkipsRetryOnBadPayload(t *testing.T) {
	job := NewAbandonmentScanJob(cart.NewService(&sweepRepo{}, nil), nil, testMetrics())
	task := asynq.NewTask(TaskCartAbandonment, []byte("{not json"))
	assert.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
}
