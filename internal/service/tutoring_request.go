package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/repository"
	apperrors "peer_tutoring/pkg/errors"
	"peer_tutoring/pkg/logger"
)

// RequestService owns the tutoring request lifecycle: creation by the sender,
// self-listing, and the pending -> accepted/rejected transition driven by the
// recipient. Room materialization after acceptance is the caller's move, not
// a side effect here.
type RequestService interface {
	Create(ctx context.Context, callerID, fromUserID, toUserID, subjectID uuid.UUID, message string) (*domain.TutoringRequest, error)
	ListByUser(ctx context.Context, callerID, userID uuid.UUID) ([]*domain.EnrichedRequest, error)
	UpdateStatus(ctx context.Context, callerID, requestID uuid.UUID, status string) (*domain.TutoringRequest, error)
}

type requestService struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	subjectRepo repository.SubjectRepository
	log         logger.Logger
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	subjectRepo repository.SubjectRepository,
	log logger.Logger,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		subjectRepo: subjectRepo,
		log:         log,
	}
}

func (s *requestService) Create(ctx context.Context, callerID, fromUserID, toUserID, subjectID uuid.UUID, message string) (*domain.TutoringRequest, error) {
	if callerID != fromUserID {
		return nil, fmt.Errorf("%w: only the sender can create a request", apperrors.ErrForbidden)
	}
	if fromUserID == toUserID {
		return nil, fmt.Errorf("%w: cannot send a request to yourself", apperrors.ErrInvalidArgument)
	}

	if _, err := s.userRepo.GetByID(ctx, toUserID); err != nil {
		return nil, err
	}
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}

	now := time.Now()
	request := &domain.TutoringRequest{
		ID:         uuid.New(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		SubjectID:  subjectID,
		Message:    strings.TrimSpace(message),
		Status:     domain.RequestStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.log.Info("Tutoring request created", "request_id", request.ID, "from", fromUserID, "to", toUserID)
	return request, nil
}

func (s *requestService) ListByUser(ctx context.Context, callerID, userID uuid.UUID) ([]*domain.EnrichedRequest, error) {
	if callerID != userID {
		return nil, fmt.Errorf("%w: can only list own requests", apperrors.ErrForbidden)
	}
	return s.requestRepo.ListByUser(ctx, userID)
}

func (s *requestService) UpdateStatus(ctx context.Context, callerID, requestID uuid.UUID, status string) (*domain.TutoringRequest, error) {
	if !domain.ValidRequestStatus(status) || status == domain.RequestStatusPending {
		return nil, fmt.Errorf("%w: status must be accepted or rejected", apperrors.ErrInvalidArgument)
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// The recipient decides; the sender cannot accept their own request.
	if callerID != request.ToUserID {
		return nil, fmt.Errorf("%w: only the recipient can update the request status", apperrors.ErrForbidden)
	}

	// Repeating the transition the request already took is an idempotent
	// no-op; crossing from one terminal state to the other is not allowed.
	if domain.TerminalRequestStatus(request.Status) {
		if request.Status == status {
			return request, nil
		}
		return nil, fmt.Errorf("%w: request is already %s", apperrors.ErrInvalidTransition, request.Status)
	}

	updated, err := s.requestRepo.UpdateStatus(ctx, requestID, status)
	if err != nil {
		if errors.Is(err, apperrors.ErrRequestNotFound) {
			// Lost a race: someone else transitioned it first.
			current, getErr := s.requestRepo.GetByID(ctx, requestID)
			if getErr != nil {
				return nil, getErr
			}
			if current.Status == status {
				return current, nil
			}
			return nil, fmt.Errorf("%w: request is already %s", apperrors.ErrInvalidTransition, current.Status)
		}
		return nil, err
	}

	s.log.Info("Tutoring request status updated", "request_id", requestID, "status", status)
	return updated, nil
}
