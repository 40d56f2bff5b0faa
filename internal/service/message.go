package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/repository"
	apperrors "peer_tutoring/pkg/errors"
	"peer_tutoring/pkg/logger"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// MessageService is the append-only per-room message log.
type MessageService interface {
	Append(ctx context.Context, callerID, roomID uuid.UUID, content, messageType string) (*domain.Message, error)
	Page(ctx context.Context, callerID, roomID uuid.UUID, page, limit int) ([]*domain.Message, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	roomRepo    repository.ChatRoomRepository
	userRepo    repository.UserRepository
	log         logger.Logger
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	roomRepo repository.ChatRoomRepository,
	userRepo repository.UserRepository,
	log logger.Logger,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		roomRepo:    roomRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

func (s *messageService) Append(ctx context.Context, callerID, roomID uuid.UUID, content, messageType string) (*domain.Message, error) {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	isParticipant, err := s.roomRepo.IsParticipant(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		return nil, fmt.Errorf("%w: sender is not in this room", apperrors.ErrNotParticipant)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", apperrors.ErrInvalidArgument)
	}

	if messageType == "" {
		messageType = domain.MessageTypeText
	}
	if !domain.ValidMessageType(messageType) {
		return nil, fmt.Errorf("%w: unknown message type %q", apperrors.ErrInvalidArgument, messageType)
	}

	sender, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	// Server time, so clock skew between clients cannot reorder activity.
	message := &domain.Message{
		ID:          uuid.New(),
		ChatRoomID:  roomID,
		SenderID:    callerID,
		SenderName:  sender.FullName,
		Content:     content,
		MessageType: messageType,
		CreatedAt:   time.Now(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

func (s *messageService) Page(ctx context.Context, callerID, roomID uuid.UUID, page, limit int) ([]*domain.Message, error) {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	isParticipant, err := s.roomRepo.IsParticipant(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		return nil, fmt.Errorf("%w: caller is not in this room", apperrors.ErrNotParticipant)
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := (page - 1) * limit

	messages, err := s.messageRepo.ListPage(ctx, roomID, limit, offset)
	if err != nil {
		return nil, err
	}

	// Fetched newest-first for paging; reversed to chronological for display.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
