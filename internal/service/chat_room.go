package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/repository"
	apperrors "peer_tutoring/pkg/errors"
	"peer_tutoring/pkg/logger"
)

// ChatRoomService derives conversations from accepted tutoring requests and
// enforces participant membership on every room-scoped operation.
type ChatRoomService interface {
	GetOrCreateForRequest(ctx context.Context, callerID, requestID uuid.UUID, courseID *uuid.UUID, title string) (*domain.RoomListing, error)
	ListRooms(ctx context.Context, callerID uuid.UUID) ([]*domain.RoomListing, error)
	MarkRead(ctx context.Context, callerID, roomID uuid.UUID) error
}

type chatRoomService struct {
	roomRepo    repository.ChatRoomRepository
	requestRepo repository.RequestRepository
	messageRepo repository.MessageRepository
	log         logger.Logger
}

func NewChatRoomService(
	roomRepo repository.ChatRoomRepository,
	requestRepo repository.RequestRepository,
	messageRepo repository.MessageRepository,
	log logger.Logger,
) ChatRoomService {
	return &chatRoomService{
		roomRepo:    roomRepo,
		requestRepo: requestRepo,
		messageRepo: messageRepo,
		log:         log,
	}
}

func (s *chatRoomService) GetOrCreateForRequest(ctx context.Context, callerID, requestID uuid.UUID, courseID *uuid.UUID, title string) (*domain.RoomListing, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !request.HasParticipant(callerID) {
		return nil, fmt.Errorf("%w: caller is not part of this tutoring request", apperrors.ErrForbidden)
	}

	if title == "" {
		title = domain.DefaultRoomTitle
	}

	now := time.Now()
	reqID := requestID
	room := &domain.ChatRoom{
		ID:                uuid.New(),
		TutoringRequestID: &reqID,
		CourseID:          courseID,
		Title:             title,
		IsActive:          true,
		LastActivity:      now,
		CreatedAt:         now,
	}

	participantIDs := []uuid.UUID{request.FromUserID, request.ToUserID}
	result, created, err := s.roomRepo.GetOrCreateForRequest(ctx, room, participantIDs)
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Info("Chat room created", "room_id", result.ID, "request_id", requestID)
	}

	participants, err := s.roomRepo.GetParticipants(ctx, result.ID)
	if err != nil {
		return nil, err
	}

	return &domain.RoomListing{Room: *result, Participants: participants}, nil
}

func (s *chatRoomService) ListRooms(ctx context.Context, callerID uuid.UUID) ([]*domain.RoomListing, error) {
	listings, err := s.roomRepo.ListByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	for _, listing := range listings {
		unread, err := s.messageRepo.UnreadCount(ctx, listing.Room.ID, callerID)
		if err != nil {
			return nil, err
		}
		listing.UnreadCount = unread
	}

	return listings, nil
}

func (s *chatRoomService) MarkRead(ctx context.Context, callerID, roomID uuid.UUID) error {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return err
	}

	isParticipant, err := s.roomRepo.IsParticipant(ctx, roomID, callerID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return fmt.Errorf("%w: caller is not in this room", apperrors.ErrNotParticipant)
	}

	return s.messageRepo.MarkAllRead(ctx, roomID, callerID, time.Now())
}
