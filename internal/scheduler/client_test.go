package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "appointments" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error for missing redis url")
	}
}

func TestScheduleAppointmentReminderEnqueues(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer func() { _ = client.Close() }()

	runAt := time.Now().Add(23 * time.Hour)
	err = client.ScheduleAppointmentReminder(context.Background(), AppointmentReminderPayload{
		AppointmentID: uuid.New().String(),
	}, runAt)
	if err != nil {
		t.Fatalf("ScheduleAppointmentReminder failed: %v", err)
	}

	if len(srv.Keys()) == 0 {
		t.Fatal("expected the task to be persisted in redis")
	}
}

func TestReminderPayloadRoundTrip(t *testing.T) {
	id := uuid.New().String()
	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{AppointmentID: id})
	if err != nil {
		t.Fatalf("NewAppointmentReminderTask failed: %v", err)
	}
	if task.Type() != TaskAppointmentReminder {
		t.Errorf("task type = %q, want %q", task.Type(), TaskAppointmentReminder)
	}

	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		t.Fatalf("ParseAppointmentReminderPayload failed: %v", err)
	}
	if payload.AppointmentID != id {
		t.Errorf("appointment id = %q, want %q", payload.AppointmentID, id)
	}
}

func TestNilClientSchedulesNothing(t *testing.T) {
	var client *Client
	err := client.ScheduleAppointmentReminder(context.Background(), AppointmentReminderPayload{
		AppointmentID: uuid.New().String(),
	}, time.Now())
	if err != nil {
		t.Fatalf("nil client must be a no-op, got %v", err)
	}
}
