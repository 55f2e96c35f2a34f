package notifications

import (
	"context"
	"fmt"

	"agenda_backend/internal/clock"
	"agenda_backend/internal/events"
	"agenda_backend/platform/apperr"
	"agenda_backend/platform/logger"

	"github.com/google/uuid"
)

const listLimit = 20

// RepositoryAPI defines the data access contract for the notifications service
type RepositoryAPI interface {
	Create(ctx context.Context, recipientID uuid.UUID, content string) (Notification, error)
	ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) (Notification, error)
}

type Service struct {
	repo RepositoryAPI
	log  *logger.Logger
}

func NewService(repo RepositoryAPI, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// NotifyBooked records an in-app notification for the provider of a
// freshly booked appointment.
func (s *Service) NotifyBooked(ctx context.Context, e events.AppointmentBooked) error {
	content := fmt.Sprintf("New booking from %s for %s", e.ClientName, clock.FormatSlot(e.Slot))

	_, err := s.repo.Create(ctx, e.ProviderID, content)
	if err != nil {
		if s.log != nil {
			s.log.Error("failed to persist booking notification", "error", err, "providerId", e.ProviderID)
		}
		return err
	}

	return nil
}

// List returns the caller's newest notifications. Only providers
// receive notifications, so only providers may list them.
func (s *Service) List(ctx context.Context, callerID uuid.UUID, isProvider bool) ([]Notification, error) {
	if !isProvider {
		return nil, apperr.Forbidden("only providers can list notifications").WithCode("forbidden")
	}

	items, err := s.repo.ListForRecipient(ctx, callerID, listLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Notification{}
	}

	return items, nil
}

// MarkRead marks one of the caller's notifications as read.
func (s *Service) MarkRead(ctx context.Context, callerID, notificationID uuid.UUID) (Notification, error) {
	return s.repo.MarkRead(ctx, notificationID, callerID)
}
