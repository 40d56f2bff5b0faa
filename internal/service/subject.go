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

// SubjectInput is one entry of a user's subject tag set. Either SubjectID or
// Name must be set; a bare name creates the subject on first use.
type SubjectInput struct {
	SubjectID        *uuid.UUID
	Name             string
	CanTeach         bool
	CanLearn         bool
	ProficiencyLevel string
}

type SubjectService interface {
	List(ctx context.Context) ([]*domain.Subject, error)
	ListUserSubjects(ctx context.Context, userID uuid.UUID) ([]*domain.UserSubjectListing, error)
	SetUserSubjects(ctx context.Context, callerID, userID uuid.UUID, inputs []SubjectInput) error
	ClearUserSubjects(ctx context.Context, callerID, userID uuid.UUID) error
}

type subjectService struct {
	subjectRepo repository.SubjectRepository
	log         logger.Logger
}

func NewSubjectService(subjectRepo repository.SubjectRepository, log logger.Logger) SubjectService {
	return &subjectService{subjectRepo: subjectRepo, log: log}
}

func (s *subjectService) List(ctx context.Context) ([]*domain.Subject, error) {
	return s.subjectRepo.List(ctx)
}

func (s *subjectService) ListUserSubjects(ctx context.Context, userID uuid.UUID) ([]*domain.UserSubjectListing, error) {
	return s.subjectRepo.ListUserSubjects(ctx, userID)
}

func (s *subjectService) SetUserSubjects(ctx context.Context, callerID, userID uuid.UUID, inputs []SubjectInput) error {
	if callerID != userID {
		return fmt.Errorf("%w: can only set own subjects", apperrors.ErrForbidden)
	}

	now := time.Now()
	userSubjects := make([]*domain.UserSubject, 0, len(inputs))
	for _, input := range inputs {
		var subjectID uuid.UUID
		switch {
		case input.SubjectID != nil:
			subject, err := s.subjectRepo.GetByID(ctx, *input.SubjectID)
			if err != nil {
				return err
			}
			subjectID = subject.ID
		case strings.TrimSpace(input.Name) != "":
			subject, err := s.subjectRepo.FindOrCreateByName(ctx, &domain.Subject{
				ID:        uuid.New(),
				Name:      strings.TrimSpace(input.Name),
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}
			subjectID = subject.ID
		default:
			return fmt.Errorf("%w: subject_id or name is required", apperrors.ErrInvalidArgument)
		}

		userSubjects = append(userSubjects, &domain.UserSubject{
			ID:               uuid.New(),
			UserID:           userID,
			SubjectID:        subjectID,
			CanTeach:         input.CanTeach,
			CanLearn:         input.CanLearn,
			ProficiencyLevel: input.ProficiencyLevel,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	if err := s.subjectRepo.ReplaceUserSubjects(ctx, userID, userSubjects); err != nil {
		return err
	}

	s.log.Info("User subjects replaced", "user_id", userID, "count", len(userSubjects))
	return nil
}

func (s *subjectService) ClearUserSubjects(ctx context.Context, callerID, userID uuid.UUID) error {
	if callerID != userID {
		return fmt.Errorf("%w: can only clear own subjects", apperrors.ErrForbidden)
	}

	if err := s.subjectRepo.ReplaceUserSubjects(ctx, userID, nil); err != nil {
		return err
	}

	s.log.Info("User subjects cleared", "user_id", userID)
	return nil
}
