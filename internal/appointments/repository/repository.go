package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agenda_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Appointment represents the appointment database model.
// Date is the instant the client asked for; SlotTime is that instant
// truncated to the hour and is the column the uniqueness guarantee
// hangs on.
type Appointment struct {
	ID         uuid.UUID  `db:"id"`
	ProviderID uuid.UUID  `db:"provider_id"`
	ClientID   uuid.UUID  `db:"client_id"`
	Date       time.Time  `db:"date"`
	SlotTime   time.Time  `db:"slot_time"`
	CanceledAt *time.Time `db:"canceled_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// AppointmentWithParties joins the appointment with the names and
// emails of both sides, for notifications and email content.
type AppointmentWithParties struct {
	Appointment
	ClientName    string `db:"client_name"`
	ClientEmail   string `db:"client_email"`
	ProviderName  string `db:"provider_name"`
	ProviderEmail string `db:"provider_email"`
}

// AppointmentWithProvider carries the provider projection for the
// client's appointment list.
type AppointmentWithProvider struct {
	Appointment
	ProviderName      string  `db:"provider_name"`
	ProviderAvatarURL *string `db:"provider_avatar_url"`
}

// AppointmentWithClient carries the client projection for the
// provider's day schedule.
type AppointmentWithClient struct {
	Appointment
	ClientName      string  `db:"client_name"`
	ClientAvatarURL *string `db:"client_avatar_url"`
}

const (
	appointmentNotFoundMsg = "appointment not found"
	slotUnavailableMsg     = "the requested slot is already booked"
)

const uniqueViolationCode = "23505"

// Repository provides database operations for appointments
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new appointment. A concurrent booking of the same
// provider slot trips the partial unique index on (provider_id,
// slot_time) and surfaces as a slot conflict, not an internal error.
func (r *Repository) Create(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments (
			id, provider_id, client_id, date, slot_time, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`

	_, err := r.pool.Exec(ctx, query,
		appt.ID, appt.ProviderID, appt.ClientID, appt.Date, appt.SlotTime,
		appt.CreatedAt, appt.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperr.Conflict(slotUnavailableMsg).WithCode("slot_unavailable")
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return nil
}

// GetByIDWithParties retrieves an appointment by ID joined with the
// client's and provider's name and email.
func (r *Repository) GetByIDWithParties(ctx context.Context, id uuid.UUID) (*AppointmentWithParties, error) {
	var appt AppointmentWithParties
	query := `SELECT a.id, a.provider_id, a.client_id, a.date, a.slot_time, a.canceled_at, a.created_at, a.updated_at,
			c.name, c.email, p.name, p.email
		FROM appointments a
		JOIN users c ON c.id = a.client_id
		JOIN users p ON p.id = a.provider_id
		WHERE a.id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&appt.ID, &appt.ProviderID, &appt.ClientID, &appt.Date, &appt.SlotTime,
		&appt.CanceledAt, &appt.CreatedAt, &appt.UpdatedAt,
		&appt.ClientName, &appt.ClientEmail, &appt.ProviderName, &appt.ProviderEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(appointmentNotFoundMsg).WithCode("not_found")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return &appt, nil
}

// Cancel marks an appointment canceled. The row must still be active;
// a cancel racing another cancel loses and reports no rows.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, canceledAt time.Time) error {
	query := `UPDATE appointments SET canceled_at = $2, updated_at = $2
		WHERE id = $1 AND canceled_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id, canceledAt)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.Gone("appointment is already canceled").WithCode("already_canceled")
	}

	return nil
}

// ListActiveForClient retrieves the client's non-canceled appointments
// ordered by date, with the provider projection. Past appointments stay
// in the listing until they are canceled.
func (r *Repository) ListActiveForClient(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]AppointmentWithProvider, error) {
	offset := (page - 1) * pageSize
	query := `SELECT a.id, a.provider_id, a.client_id, a.date, a.slot_time, a.canceled_at, a.created_at, a.updated_at,
			p.name, p.avatar_url
		FROM appointments a
		JOIN users p ON p.id = a.provider_id
		WHERE a.client_id = $1 AND a.canceled_at IS NULL
		ORDER BY a.date ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, clientID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var items []AppointmentWithProvider
	for rows.Next() {
		var appt AppointmentWithProvider
		if err := rows.Scan(
			&appt.ID, &appt.ProviderID, &appt.ClientID, &appt.Date, &appt.SlotTime,
			&appt.CanceledAt, &appt.CreatedAt, &appt.UpdatedAt,
			&appt.ProviderName, &appt.ProviderAvatarURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		items = append(items, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}

	return items, nil
}

// ListForProviderDay retrieves a provider's active appointments whose
// slot falls within [dayStart, dayEnd), with the client projection.
func (r *Repository) ListForProviderDay(ctx context.Context, providerID uuid.UUID, dayStart, dayEnd time.Time) ([]AppointmentWithClient, error) {
	query := `SELECT a.id, a.provider_id, a.client_id, a.date, a.slot_time, a.canceled_at, a.created_at, a.updated_at,
			c.name, c.avatar_url
		FROM appointments a
		JOIN users c ON c.id = a.client_id
		WHERE a.provider_id = $1 AND a.canceled_at IS NULL
		AND a.slot_time >= $2 AND a.slot_time < $3
		ORDER BY a.slot_time ASC`

	rows, err := r.pool.Query(ctx, query, providerID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider schedule: %w", err)
	}
	defer rows.Close()

	var items []AppointmentWithClient
	for rows.Next() {
		var appt AppointmentWithClient
		if err := rows.Scan(
			&appt.ID, &appt.ProviderID, &appt.ClientID, &appt.Date, &appt.SlotTime,
			&appt.CanceledAt, &appt.CreatedAt, &appt.UpdatedAt,
			&appt.ClientName, &appt.ClientAvatarURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		items = append(items, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate provider schedule: %w", err)
	}

	return items, nil
}
