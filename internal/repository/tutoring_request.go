package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peer_tutoring/internal/domain"
	apperrors "peer_tutoring/pkg/errors"
	"peer_tutoring/pkg/logger"
)

type RequestRepository interface {
	Create(ctx context.Context, request *domain.TutoringRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TutoringRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.EnrichedRequest, error)
	// UpdateStatus transitions a pending request to the given status. The
	// pending check is part of the UPDATE itself, so two concurrent
	// transitions cannot both win. Returns ErrRequestNotFound when no row
	// was updated (caller disambiguates already-terminal from missing).
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.TutoringRequest, error)
	HasAcceptedBetween(ctx context.Context, userA, userB uuid.UUID) (bool, error)
}

type requestRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewRequestRepository(db *pgxpool.Pool, log logger.Logger) RequestRepository {
	return &requestRepository{db: db, log: log}
}

func (r *requestRepository) Create(ctx context.Context, request *domain.TutoringRequest) error {
	query := `
		INSERT INTO tutoring_requests (id, from_user_id, to_user_id, subject_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		request.ID, request.FromUserID, request.ToUserID, request.SubjectID,
		request.Message, request.Status, request.CreatedAt, request.UpdatedAt,
	).Scan(&request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to create tutoring request", "error", err)
		return err
	}

	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TutoringRequest, error) {
	query := `
		SELECT id, from_user_id, to_user_id, subject_id, message, status, created_at, updated_at
		FROM tutoring_requests
		WHERE id = $1
	`

	request := &domain.TutoringRequest{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&request.ID, &request.FromUserID, &request.ToUserID, &request.SubjectID,
		&request.Message, &request.Status, &request.CreatedAt, &request.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		r.log.Error("Failed to get tutoring request", "error", err)
		return nil, err
	}

	return request, nil
}

func (r *requestRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.EnrichedRequest, error) {
	query := `
		SELECT tr.id, tr.from_user_id, fu.full_name, tr.to_user_id, tu.full_name,
		       tr.subject_id, s.name, tr.message, tr.status, tr.created_at, tr.updated_at
		FROM tutoring_requests tr
		JOIN users fu ON fu.id = tr.from_user_id
		JOIN users tu ON tu.id = tr.to_user_id
		JOIN subjects s ON s.id = tr.subject_id
		WHERE tr.from_user_id = $1 OR tr.to_user_id = $1
		ORDER BY tr.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list tutoring requests", "error", err)
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.EnrichedRequest
	for rows.Next() {
		req := &domain.EnrichedRequest{}
		err := rows.Scan(
			&req.ID, &req.FromUserID, &req.FromUserName, &req.ToUserID, &req.ToUserName,
			&req.SubjectID, &req.SubjectName, &req.Message, &req.Status, &req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan tutoring request", "error", err)
			return nil, err
		}

		req.IsFromCurrentUser = req.FromUserID == userID
		if req.IsFromCurrentUser {
			req.OtherName = req.ToUserName
			req.CurrentUserName = req.FromUserName
		} else {
			req.OtherName = req.FromUserName
			req.CurrentUserName = req.ToUserName
		}

		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.TutoringRequest, error) {
	query := `
		UPDATE tutoring_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, from_user_id, to_user_id, subject_id, message, status, created_at, updated_at
	`

	request := &domain.TutoringRequest{}
	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&request.ID, &request.FromUserID, &request.ToUserID, &request.SubjectID,
		&request.Message, &request.Status, &request.CreatedAt, &request.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		r.log.Error("Failed to update tutoring request status", "error", err)
		return nil, err
	}

	return request, nil
}

func (r *requestRepository) HasAcceptedBetween(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM tutoring_requests
			WHERE status = 'accepted'
			  AND ((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1))
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userA, userB).Scan(&exists); err != nil {
		r.log.Error("Failed to check accepted requests", "error", err)
		return false, err
	}

	return exists, nil
}
