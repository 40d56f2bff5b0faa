package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/repository"
	apperrors "peer_tutoring/pkg/errors"
	"peer_tutoring/pkg/logger"
)

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, callerID uuid.UUID, profile *domain.Profile) (*domain.Profile, error)
}

type profileService struct {
	userRepo repository.UserRepository
	log      logger.Logger
}

func NewProfileService(userRepo repository.UserRepository, log logger.Logger) ProfileService {
	return &profileService{userRepo: userRepo, log: log}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.userRepo.GetProfile(ctx, userID)
}

func (s *profileService) Update(ctx context.Context, callerID uuid.UUID, profile *domain.Profile) (*domain.Profile, error) {
	if callerID != profile.UserID {
		return nil, fmt.Errorf("%w: can only update own profile", apperrors.ErrForbidden)
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}
