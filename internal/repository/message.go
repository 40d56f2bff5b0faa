package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"peer_tutoring/internal/domain"
	"peer_tutoring/pkg/logger"
)

type MessageRepository interface {
	// Create appends the message and advances the room's last_activity in
	// the same transaction. GREATEST keeps the timestamp from regressing
	// under concurrent sends.
	Create(ctx context.Context, message *domain.Message) error
	ListPage(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*domain.Message, error)
	// MarkAllRead inserts a receipt for every message in the room the user
	// has not read yet. Keyed on (message_id, user_id), so repeat calls are
	// no-ops.
	MarkAllRead(ctx context.Context, roomID, userID uuid.UUID, readAt time.Time) error
	UnreadCount(ctx context.Context, roomID, userID uuid.UUID) (int, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO messages (id, chat_room_id, sender_id, content, message_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err = tx.QueryRow(ctx, insertQuery,
		message.ID, message.ChatRoomID, message.SenderID, message.Content,
		message.MessageType, message.CreatedAt,
	).Scan(&message.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create message", "error", err)
		return err
	}

	touchQuery := `
		UPDATE chat_rooms
		SET last_activity = GREATEST(last_activity, $2)
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, touchQuery, message.ChatRoomID, message.CreatedAt); err != nil {
		r.log.Error("Failed to touch room activity", "error", err)
		return err
	}

	return tx.Commit(ctx)
}

func (r *messageRepository) ListPage(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*domain.Message, error) {
	query := `
		SELECT m.id, m.chat_room_id, m.sender_id, u.full_name, m.content, m.message_type, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.chat_room_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, roomID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list messages", "error", err)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID, &message.ChatRoomID, &message.SenderID, &message.SenderName,
			&message.Content, &message.MessageType, &message.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

func (r *messageRepository) MarkAllRead(ctx context.Context, roomID, userID uuid.UUID, readAt time.Time) error {
	query := `
		INSERT INTO message_reads (message_id, user_id, read_at)
		SELECT m.id, $2, $3
		FROM messages m
		WHERE m.chat_room_id = $1
		ON CONFLICT (message_id, user_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, roomID, userID, readAt); err != nil {
		r.log.Error("Failed to mark messages as read", "error", err)
		return err
	}

	return nil
}

func (r *messageRepository) UnreadCount(ctx context.Context, roomID, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM messages m
		WHERE m.chat_room_id = $1
		  AND m.sender_id <> $2
		  AND NOT EXISTS (
			SELECT 1 FROM message_reads mr WHERE mr.message_id = m.id AND mr.user_id = $2
		  )
	`

	var count int
	if err := r.db.QueryRow(ctx, query, roomID, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count unread messages", "error", err)
		return 0, err
	}

	return count, nil
}
