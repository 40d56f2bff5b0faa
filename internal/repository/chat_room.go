package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peer_tutoring/internal/domain"
	apperrors "peer_tutoring/pkg/errors"
	"peer_tutoring/pkg/logger"
)

type ChatRoomRepository interface {
	// GetOrCreateForRequest materializes the room bound to a tutoring
	// request at most once. The insert rides on the unique index over
	// tutoring_request_id, so two concurrent callers both end up with the
	// same room. Returns created=true for the caller that won the insert.
	GetOrCreateForRequest(ctx context.Context, room *domain.ChatRoom, participantIDs []uuid.UUID) (*domain.ChatRoom, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error)
	GetParticipants(ctx context.Context, roomID uuid.UUID) ([]domain.RoomParticipant, error)
	IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RoomListing, error)
}

type chatRoomRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewChatRoomRepository(db *pgxpool.Pool, log logger.Logger) ChatRoomRepository {
	return &chatRoomRepository{db: db, log: log}
}

func (r *chatRoomRepository) GetOrCreateForRequest(ctx context.Context, room *domain.ChatRoom, participantIDs []uuid.UUID) (*domain.ChatRoom, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO chat_rooms (id, tutoring_request_id, course_id, title, is_active, last_activity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tutoring_request_id) WHERE tutoring_request_id IS NOT NULL DO NOTHING
	`

	tag, err := tx.Exec(ctx, insertQuery,
		room.ID, room.TutoringRequestID, room.CourseID, room.Title,
		room.IsActive, room.LastActivity, room.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert chat room", "error", err)
		return nil, false, err
	}
	created := tag.RowsAffected() > 0

	if created {
		participantQuery := `
			INSERT INTO chat_room_participants (room_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`
		for _, userID := range participantIDs {
			if _, err := tx.Exec(ctx, participantQuery, room.ID, userID); err != nil {
				r.log.Error("Failed to insert room participant", "error", err, "user_id", userID)
				return nil, false, err
			}
		}
	}

	selectQuery := `
		SELECT id, tutoring_request_id, course_id, title, is_active, last_activity, created_at
		FROM chat_rooms
		WHERE tutoring_request_id = $1
	`

	result := &domain.ChatRoom{}
	err = tx.QueryRow(ctx, selectQuery, room.TutoringRequestID).Scan(
		&result.ID, &result.TutoringRequestID, &result.CourseID, &result.Title,
		&result.IsActive, &result.LastActivity, &result.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to select chat room after upsert", "error", err)
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}

	return result, created, nil
}

func (r *chatRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	query := `
		SELECT id, tutoring_request_id, course_id, title, is_active, last_activity, created_at
		FROM chat_rooms
		WHERE id = $1
	`

	room := &domain.ChatRoom{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&room.ID, &room.TutoringRequestID, &room.CourseID, &room.Title,
		&room.IsActive, &room.LastActivity, &room.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoomNotFound
		}
		r.log.Error("Failed to get chat room", "error", err)
		return nil, err
	}

	return room, nil
}

func (r *chatRoomRepository) GetParticipants(ctx context.Context, roomID uuid.UUID) ([]domain.RoomParticipant, error) {
	query := `
		SELECT u.id, u.full_name
		FROM chat_room_participants crp
		JOIN users u ON u.id = crp.user_id
		WHERE crp.room_id = $1
		ORDER BY u.full_name
	`

	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		r.log.Error("Failed to get room participants", "error", err)
		return nil, err
	}
	defer rows.Close()

	var participants []domain.RoomParticipant
	for rows.Next() {
		var p domain.RoomParticipant
		if err := rows.Scan(&p.UserID, &p.FullName); err != nil {
			r.log.Error("Failed to scan room participant", "error", err)
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

func (r *chatRoomRepository) IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM chat_room_participants WHERE room_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, roomID, userID).Scan(&exists); err != nil {
		r.log.Error("Failed to check room participant", "error", err)
		return false, err
	}

	return exists, nil
}

func (r *chatRoomRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RoomListing, error) {
	query := `
		SELECT cr.id, cr.tutoring_request_id, cr.course_id, cr.title, cr.is_active, cr.last_activity, cr.created_at,
		       s.name
		FROM chat_rooms cr
		JOIN chat_room_participants crp ON crp.room_id = cr.id
		LEFT JOIN tutoring_requests tr ON tr.id = cr.tutoring_request_id
		LEFT JOIN subjects s ON s.id = tr.subject_id
		WHERE crp.user_id = $1 AND cr.is_active
		ORDER BY cr.last_activity DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list chat rooms", "error", err)
		return nil, err
	}
	defer rows.Close()

	var listings []*domain.RoomListing
	for rows.Next() {
		listing := &domain.RoomListing{}
		err := rows.Scan(
			&listing.Room.ID, &listing.Room.TutoringRequestID, &listing.Room.CourseID,
			&listing.Room.Title, &listing.Room.IsActive, &listing.Room.LastActivity,
			&listing.Room.CreatedAt, &listing.SubjectName,
		)
		if err != nil {
			r.log.Error("Failed to scan chat room", "error", err)
			return nil, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, listing := range listings {
		participants, err := r.GetParticipants(ctx, listing.Room.ID)
		if err != nil {
			return nil, err
		}
		listing.Participants = participants
	}

	return listings, nil
}
