// Package scheduler runs delayed appointment work, reminder delivery in
// particular, through asynq on Redis.
package scheduler

import (
	"context"
	"time"

	"agenda_backend/platform/config"

	"github.com/hibiken/asynq"
)

// ReminderScheduler is the enqueue surface the appointments service
// books reminders through. A nil *Client satisfies it as a no-op, so
// the API can run without Redis configured.
type ReminderScheduler interface {
	ScheduleAppointmentReminder(ctx context.Context, payload AppointmentReminderPayload, runAt time.Time) error
}

// Client enqueues reminder tasks for the worker to pick up at their
// scheduled instant.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	conn, err := newConnection(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(conn.opt),
		queue:  conn.queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleAppointmentReminder enqueues a reminder to be processed at
// runAt.
func (c *Client) ScheduleAppointmentReminder(ctx context.Context, payload AppointmentReminderPayload, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewAppointmentReminderTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}
