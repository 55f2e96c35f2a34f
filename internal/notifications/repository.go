package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agenda_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Notification struct {
	ID          uuid.UUID `json:"id"`
	RecipientID uuid.UUID `json:"recipientId"`
	Content     string    `json:"content"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

const notificationNotFoundMsg = "notification not found"

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, recipientID uuid.UUID, content string) (Notification, error) {
	var n Notification
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (id, recipient_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, recipient_id, content, is_read, created_at
	`, uuid.New(), recipientID, content, time.Now()).Scan(
		&n.ID, &n.RecipientID, &n.Content, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		return Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}

// ListForRecipient returns the newest notifications first.
func (r *Repository) ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, recipient_id, content, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Content, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return items, nil
}

// MarkRead marks a notification read if it belongs to the recipient.
func (r *Repository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) (Notification, error) {
	var n Notification
	err := r.pool.QueryRow(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND recipient_id = $2
		RETURNING id, recipient_id, content, is_read, created_at
	`, id, recipientID).Scan(
		&n.ID, &n.RecipientID, &n.Content, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, apperr.NotFound(notificationNotFoundMsg).WithCode("not_found")
		}
		return Notification{}, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return n, nil
}
