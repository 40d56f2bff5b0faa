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

type ReviewService interface {
	Submit(ctx context.Context, callerID, courseID uuid.UUID, rating int, comment string, sessionDate *time.Time) (*domain.CourseReview, error)
	Delete(ctx context.Context, callerID, reviewID uuid.UUID) error
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.ReviewListing, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	courseRepo  repository.CourseRepository
	requestRepo repository.RequestRepository
	log         logger.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	courseRepo repository.CourseRepository,
	requestRepo repository.RequestRepository,
	log logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		courseRepo:  courseRepo,
		requestRepo: requestRepo,
		log:         log,
	}
}

func (s *reviewService) Submit(ctx context.Context, callerID, courseID uuid.UUID, rating int, comment string, sessionDate *time.Time) (*domain.CourseReview, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperrors.ErrInvalidArgument)
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	// A review counts as verified when the reviewer actually had an
	// accepted tutoring request with the course's instructor.
	verified, err := s.requestRepo.HasAcceptedBetween(ctx, callerID, course.InstructorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	review := &domain.CourseReview{
		ID:          uuid.New(),
		CourseID:    courseID,
		ReviewerID:  callerID,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
		SessionDate: sessionDate,
		IsVerified:  verified,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.reviewRepo.Upsert(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info("Course review submitted", "course_id", courseID, "reviewer_id", callerID, "verified", verified)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, callerID, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.ReviewerID != callerID {
		return fmt.Errorf("%w: can only delete own reviews", apperrors.ErrForbidden)
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.log.Info("Course review deleted", "review_id", reviewID, "course_id", review.CourseID)
	return nil
}

func (s *reviewService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.ReviewListing, error) {
	return s.reviewRepo.ListByCourse(ctx, courseID)
}
