package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCartAbandonment is the task type for the idle-cart sweep.
	TaskCartAbandonment = "cart:abandonment"
	// TaskSendReminder is the task type for cart reminder emails.
	TaskSendReminder = "cart:reminder"
)

// AbandonmentPayload configures one idle-cart sweep.
type AbandonmentPayload struct {
	// IdleHours is how long a cart may sit untouched before it counts
	// as abandoned.
	IdleHours int `json:"idle_hours"`
}

// NewAbandonmentTask constructs an Asynq task for the sweep.
func NewAbandonmentTask(payload AbandonmentPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartAbandonment, data), nil
}

// ReminderPayload describes a cart reminder notification.
type ReminderPayload struct {
	CartID int64 `json:"cart_id"`
	UserID int64 `json:"user_id"`
}

// NewReminderTask constructs an Asynq task for a reminder.
func NewReminderTask(payload ReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSendReminder, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	client := asynq.NewClient(redisOpts)
	return &Client{client: client}, nil
}

// ScheduleReminder queues a cart reminder for delivery at the given time.
// It satisfies cart.ReminderScheduler.
func (c *Client) ScheduleReminder(ctx context.Context, cartID, userID int64, at time.Time) error {
	task, err := NewReminderTask(ReminderPayload{CartID: cartID, UserID: userID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.ProcessAt(at))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
