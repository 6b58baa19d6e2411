package repository

import (
	"context"
	"fmt"

	"lensbook-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository handles database operations for chat messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create creates a new message row
func (r *MessageRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, text, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.SenderID, msg.ReceiverID, msg.Text, msg.ImageURL, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetConversation retrieves messages between two users, newest first
func (r *MessageRepository) GetConversation(ctx context.Context, viewerID, counterpartID string) ([]*models.ChatMessage, error) {
	query := `
		SELECT id, sender_id, receiver_id, text, image_url, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at DESC
	`
	return r.queryMessages(ctx, query, viewerID, counterpartID)
}

// GetForUser retrieves all messages the user sent or received, newest first
func (r *MessageRepository) GetForUser(ctx context.Context, userID string) ([]*models.ChatMessage, error) {
	query := `
		SELECT id, sender_id, receiver_id, text, image_url, created_at
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC
	`
	return r.queryMessages(ctx, query, userID)
}

func (r *MessageRepository) queryMessages(ctx context.Context, query string, args ...any) ([]*models.ChatMessage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	// Empty result is a valid conversation, never an error.
	messages := []*models.ChatMessage{}
	for rows.Next() {
		var msg models.ChatMessage
		err := rows.Scan(
			&msg.ID, &msg.SenderID, &msg.ReceiverID,
			&msg.Text, &msg.ImageURL, &msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
