package scheduler

import (
	"context"

	"agenda_backend/internal/appointments/repository"
	"agenda_backend/internal/clock"
	"agenda_backend/internal/email"
	"agenda_backend/platform/apperr"
	"agenda_backend/platform/config"
	"agenda_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) (*Worker, error) {
	conn, err := newConnection(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(conn.opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			conn.queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleAppointmentReminder delivers the 24h reminder email to the provider.
// Appointments canceled after the task was enqueued are silently skipped.
func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return err
	}

	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return err
	}

	appt, err := w.repo.GetByIDWithParties(ctx, apptID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}

	if appt.CanceledAt != nil {
		return nil
	}

	err = w.sender.SendReminderEmail(ctx,
		appt.ProviderEmail, appt.ProviderName, appt.ClientName,
		clock.FormatSlot(appt.Date))
	if err != nil {
		w.log.MailError("reminder", appt.ProviderEmail, err)
		return err
	}

	return nil
}
