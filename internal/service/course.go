package service

import (
	"context"

	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/repository"
	"peer_tutoring/pkg/logger"
)

const catalogLimit = 100

type CourseService interface {
	List(ctx context.Context, category string) ([]*domain.CourseListing, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
	log        logger.Logger
}

func NewCourseService(courseRepo repository.CourseRepository, log logger.Logger) CourseService {
	return &courseService{courseRepo: courseRepo, log: log}
}

func (s *courseService) List(ctx context.Context, category string) ([]*domain.CourseListing, error) {
	return s.courseRepo.List(ctx, category, catalogLimit)
}
