package repository

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

// User represents the user database model
type User struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsProvider   bool      `db:"is_provider"`
	AvatarURL    *string   `db:"avatar_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Contact is the name/email projection used for notifications and email.
type Contact struct {
	ID    uuid.UUID `db:"id"`
	Name  string    `db:"name"`
	Email string    `db:"email"`
}

const userNotFoundMsg = "user not found"

// Repository provides database operations for users
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new users repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID retrieves a user by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	query := `SELECT id, name, email, password_hash, is_provider, avatar_url, created_at, updated_at
		FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsProvider, &u.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(userNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// GetContact retrieves the name and email for a user.
func (r *Repository) GetContact(ctx context.Context, id uuid.UUID) (*Contact, error) {
	var c Contact
	query := `SELECT id, name, email FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(userNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get user contact: %w", err)
	}

	return &c, nil
}

// IsProvider reports whether the given user exists and is registered as a provider.
func (r *Repository) IsProvider(ctx context.Context, id uuid.UUID) (bool, error) {
	var isProvider bool
	query := `SELECT is_provider FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&isProvider)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check provider: %w", err)
	}

	return isProvider, nil
}

// ListProviders retrieves providers ordered by name.
func (r *Repository) ListProviders(ctx context.Context, page, pageSize int) ([]User, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, name, email, password_hash, is_provider, avatar_url, created_at, updated_at
		FROM users WHERE is_provider = TRUE ORDER BY name ASC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer rows.Close()

	var items []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsProvider, &u.AvatarURL,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		items = append(items, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return items, nil
}
