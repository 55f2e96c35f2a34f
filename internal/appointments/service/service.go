package service

import (
	"context"
	"time"

	"agenda_backend/internal/appointments/repository"
	"agenda_backend/internal/appointments/transport"
	"agenda_backend/internal/clock"
	"agenda_backend/internal/events"
	"agenda_backend/internal/scheduler"
	usersrepo "agenda_backend/internal/users/repository"
	"agenda_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	dayFormat = "2006-01-02"

	// Cancellation closes this long before the appointment instant.
	// Exactly two hours of lead time is still allowed.
	cancelLeadTime = 2 * time.Hour

	// Reminders fire this long before the appointment instant.
	reminderLeadTime = 24 * time.Hour

	listPageSize = 20
)

// Repository defines the data access contract for the appointments service
type Repository interface {
	Create(ctx context.Context, appt *repository.Appointment) error
	GetByIDWithParties(ctx context.Context, id uuid.UUID) (*repository.AppointmentWithParties, error)
	Cancel(ctx context.Context, id uuid.UUID, canceledAt time.Time) error
	ListActiveForClient(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]repository.AppointmentWithProvider, error)
	ListForProviderDay(ctx context.Context, providerID uuid.UUID, dayStart, dayEnd time.Time) ([]repository.AppointmentWithClient, error)
}

// ProviderDirectory provides the minimal user lookups booking needs.
// Implemented by the users service.
type ProviderDirectory interface {
	IsProvider(ctx context.Context, id uuid.UUID) (bool, error)
	GetContact(ctx context.Context, id uuid.UUID) (*usersrepo.Contact, error)
}

// Service provides business logic for appointments
type Service struct {
	repo              Repository
	providers         ProviderDirectory
	eventBus          events.Bus
	reminderScheduler scheduler.ReminderScheduler
	clk               clock.Clock
}

// New creates a new appointments service
func New(repo Repository, providers ProviderDirectory, eventBus events.Bus, reminderScheduler scheduler.ReminderScheduler, clk clock.Clock) *Service {
	return &Service{
		repo:              repo,
		providers:         providers,
		eventBus:          eventBus,
		reminderScheduler: reminderScheduler,
		clk:               clk,
	}
}

// Book creates a new appointment for the caller.
// The requested instant is truncated to the start of its hour before any
// availability or past-date check so that 10:03 and 10:47 contend for
// the same slot.
func (s *Service) Book(ctx context.Context, clientID uuid.UUID, req transport.CreateAppointmentRequest) (*transport.AppointmentResponse, error) {
	if req.ProviderID == clientID {
		return nil, apperr.Validation("cannot book an appointment with yourself").WithCode("validation_failed")
	}

	isProvider, err := s.providers.IsProvider(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if !isProvider {
		return nil, apperr.BadRequest("provider not found").WithCode("invalid_provider")
	}

	now := s.clk.Now()
	slot := clock.SlotOf(req.Date)
	if clock.IsPast(slot, now) {
		return nil, apperr.BadRequest("cannot book an appointment in the past").WithCode("past_date")
	}

	// The client snapshot goes into the booked event. Resolving it before
	// the insert means a booking never commits without its notification.
	client, err := s.providers.GetContact(ctx, clientID)
	if err != nil {
		return nil, err
	}

	appt := &repository.Appointment{
		ID:         uuid.New(),
		ProviderID: req.ProviderID,
		ClientID:   clientID,
		Date:       req.Date,
		SlotTime:   slot,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.AppointmentBooked{
			BaseEvent:     events.NewBaseEvent(),
			AppointmentID: appt.ID,
			ClientID:      clientID,
			ClientName:    client.Name,
			ProviderID:    req.ProviderID,
			Date:          req.Date,
			Slot:          slot,
		})
	}

	if s.reminderScheduler != nil {
		runAt := req.Date.Add(-reminderLeadTime)
		if runAt.After(now) {
			_ = s.reminderScheduler.ScheduleAppointmentReminder(ctx, scheduler.AppointmentReminderPayload{
				AppointmentID: appt.ID.String(),
			}, runAt)
		}
	}

	resp := toResponse(appt)
	return &resp, nil
}

// Cancel cancels the caller's appointment. Only the booking client may
// cancel, and only while at least two hours remain before the
// appointment instant.
func (s *Service) Cancel(ctx context.Context, callerID uuid.UUID, appointmentID uuid.UUID) (*transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByIDWithParties(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if appt.ClientID != callerID {
		return nil, apperr.Forbidden("you can only cancel your own appointments").WithCode("forbidden")
	}

	if appt.CanceledAt != nil {
		return nil, apperr.Gone("appointment is already canceled").WithCode("already_canceled")
	}

	now := s.clk.Now()
	if appt.Date.Sub(now) < cancelLeadTime {
		return nil, apperr.Forbidden("appointments can only be canceled at least 2 hours in advance").WithCode("too_late")
	}

	if err := s.repo.Cancel(ctx, appointmentID, now); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.AppointmentCanceled{
			BaseEvent:     events.NewBaseEvent(),
			AppointmentID: appt.ID,
			ClientName:    appt.ClientName,
			ProviderName:  appt.ProviderName,
			ProviderEmail: appt.ProviderEmail,
			Date:          appt.Date,
			CanceledAt:    now,
		})
	}

	appt.CanceledAt = &now
	resp := toResponse(&appt.Appointment)
	return &resp, nil
}

// ListActive returns the caller's non-canceled appointments, oldest
// first, one page at a time.
func (s *Service) ListActive(ctx context.Context, clientID uuid.UUID, req transport.ListAppointmentsRequest) ([]transport.AppointmentResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	items, err := s.repo.ListActiveForClient(ctx, clientID, page, listPageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.AppointmentResponse, 0, len(items))
	for i := range items {
		resp := toResponse(&items[i].Appointment)
		resp.Provider = &transport.ProviderInfo{
			ID:        items[i].ProviderID,
			Name:      items[i].ProviderName,
			AvatarURL: items[i].ProviderAvatarURL,
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

// Schedule returns the provider's active appointments for a single day.
// Only providers can read their schedule.
func (s *Service) Schedule(ctx context.Context, callerID uuid.UUID, isProvider bool, req transport.ScheduleRequest) ([]transport.AppointmentResponse, error) {
	if !isProvider {
		return nil, apperr.Forbidden("only providers can view their schedule").WithCode("forbidden")
	}

	dayStart, err := time.Parse(dayFormat, req.Date)
	if err != nil {
		return nil, apperr.BadRequest("invalid date, expected YYYY-MM-DD").WithCode("validation_failed")
	}
	dayEnd := dayStart.Add(24 * time.Hour)

	items, err := s.repo.ListForProviderDay(ctx, callerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.AppointmentResponse, 0, len(items))
	for i := range items {
		resp := toResponse(&items[i].Appointment)
		resp.Client = &transport.ClientInfo{
			ID:        items[i].ClientID,
			Name:      items[i].ClientName,
			AvatarURL: items[i].ClientAvatarURL,
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func toResponse(a *repository.Appointment) transport.AppointmentResponse {
	return transport.AppointmentResponse{
		ID:         a.ID,
		ProviderID: a.ProviderID,
		ClientID:   a.ClientID,
		Date:       a.Date,
		Slot:       a.SlotTime,
		CanceledAt: a.CanceledAt,
		CreatedAt:  a.CreatedAt,
	}
}
