package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-commerce/meridian/internal/cart"
	jobmetrics "github.com/meridian-commerce/meridian/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// AbandonmentScanJob sweeps carts that have sat idle past a threshold and
// marks them abandoned.
type AbandonmentScanJob struct {
	Carts   *cart.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewAbandonmentScanJob initialises the sweep handler.
func NewAbandonmentScanJob(carts *cart.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *AbandonmentScanJob {
	return &AbandonmentScanJob{
		Carts:   carts,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the sweep.
func (j *AbandonmentScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Carts == nil {
		return errors.New("abandonment scan: handler not configured")
	}
	var payload AbandonmentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.IdleHours <= 0 {
		payload.IdleHours = 24
	}

	start := j.now()
	tracker := j.metrics().Track(TaskCartAbandonment)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("idle_hours", payload.IdleHours))
	logger.Info("starting abandonment sweep")

	ids, err := j.Carts.MarkAbandoned(ctx, time.Duration(payload.IdleHours)*time.Hour)
	if err != nil {
		resultErr = err
		logger.Error("sweep failed", slog.Any("error", err))
		return resultErr
	}
	j.metrics().AddAbandonedCarts(len(ids))

	logger.Info("completed abandonment sweep",
		slog.Int("abandoned", len(ids)),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *AbandonmentScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCartAbandonment))
	}
	return slog.Default().With(slog.String("job", TaskCartAbandonment))
}

func (j *AbandonmentScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *AbandonmentScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

// HandleSendReminderTask processes TaskSendReminder tasks.
// TODO: deliver through SMTP once the notification channel lands.
func HandleSendReminderTask(ctx context.Context, t *asynq.Task) error {
	var payload ReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	slog.Default().Info("cart reminder due",
		slog.Int64("cart_id", payload.CartID),
		slog.Int64("user_id", payload.UserID),
	)
	return nil
}
