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

type CourseRepository interface {
	List(ctx context.Context, category string, limit int) ([]*domain.CourseListing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
}

type courseRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewCourseRepository(db *pgxpool.Pool, log logger.Logger) CourseRepository {
	return &courseRepository{db: db, log: log}
}

func (r *courseRepository) List(ctx context.Context, category string, limit int) ([]*domain.CourseListing, error) {
	query := `
		SELECT c.id, c.title, c.instructor_id, c.subject_id, c.category, c.banner_url,
		       c.rating, c.price, c.currency, c.duration, c.level, c.description,
		       c.total_students, c.created_at, c.updated_at,
		       u.full_name, s.name
		FROM courses c
		JOIN users u ON u.id = c.instructor_id
		JOIN subjects s ON s.id = c.subject_id
		WHERE ($1 = '' OR c.category = $1)
		ORDER BY c.created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, category, limit)
	if err != nil {
		r.log.Error("Failed to list courses", "error", err)
		return nil, err
	}
	defer rows.Close()

	var listings []*domain.CourseListing
	for rows.Next() {
		listing := &domain.CourseListing{}
		err := rows.Scan(
			&listing.Course.ID, &listing.Course.Title, &listing.Course.InstructorID,
			&listing.Course.SubjectID, &listing.Course.Category, &listing.Course.BannerURL,
			&listing.Course.Rating, &listing.Course.Price, &listing.Course.Currency,
			&listing.Course.Duration, &listing.Course.Level, &listing.Course.Description,
			&listing.Course.TotalStudents, &listing.Course.CreatedAt, &listing.Course.UpdatedAt,
			&listing.InstructorName, &listing.SubjectName,
		)
		if err != nil {
			r.log.Error("Failed to scan course", "error", err)
			return nil, err
		}
		listings = append(listings, listing)
	}

	return listings, rows.Err()
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	query := `
		SELECT id, title, instructor_id, subject_id, category, banner_url, rating, price,
		       currency, duration, level, description, total_students, created_at, updated_at
		FROM courses
		WHERE id = $1
	`

	course := &domain.Course{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID, &course.Title, &course.InstructorID, &course.SubjectID, &course.Category,
		&course.BannerURL, &course.Rating, &course.Price, &course.Currency, &course.Duration,
		&course.Level, &course.Description, &course.TotalStudents, &course.CreatedAt, &course.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		r.log.Error("Failed to get course", "error", err)
		return nil, err
	}

	return course, nil
}
