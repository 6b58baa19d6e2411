package repository

import (
	"context"
	"errors"
	"fmt"

	"lensbook-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for identities and sessions
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateIdentity creates a new identity row
func (r *UserRepository) CreateIdentity(ctx context.Context, identity *models.Identity) error {
	query := `
		INSERT INTO identities (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query,
		identity.ID, identity.Email, identity.PasswordHash, identity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}
	return nil
}

// GetIdentityByEmail retrieves an identity by email
func (r *UserRepository) GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM identities
		WHERE email = $1
	`
	var identity models.Identity
	err := r.db.QueryRow(ctx, query, email).Scan(
		&identity.ID, &identity.Email, &identity.PasswordHash, &identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("identity not found: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get identity by email: %w", err)
	}
	return &identity, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM identities WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// CreateSession creates a new session row
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query,
		session.ID, session.UserID, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID together with the identity email
func (r *UserRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT s.id, s.user_id, i.email, s.expires_at, s.created_at
		FROM sessions s
		JOIN identities i ON i.id = s.user_id
		WHERE s.id = $1
	`
	var session models.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.Email, &session.ExpiresAt, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session not found: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// DeleteSession deletes a session by ID
func (r *UserRepository) DeleteSession(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
