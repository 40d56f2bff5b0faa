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

type ReviewRepository interface {
	// Upsert creates or replaces the reviewer's review for a course, keyed
	// on (course_id, reviewer_id), and recomputes the course's stored
	// rating in the same transaction.
	Upsert(ctx context.Context, review *domain.CourseReview) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CourseReview, error)
	// Delete removes the review and recomputes the course rating in the
	// same transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.ReviewListing, error)
}

type reviewRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewReviewRepository(db *pgxpool.Pool, log logger.Logger) ReviewRepository {
	return &reviewRepository{db: db, log: log}
}

// refreshCourseRating recomputes the average for the course; a course with no
// reviews falls back to the default rating.
const refreshCourseRating = `
	UPDATE courses
	SET rating = COALESCE(
		(SELECT ROUND(AVG(rating)::numeric, 1) FROM course_reviews WHERE course_id = $1),
		$2
	), updated_at = NOW()
	WHERE id = $1
`

func (r *reviewRepository) Upsert(ctx context.Context, review *domain.CourseReview) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO course_reviews (id, course_id, reviewer_id, rating, comment, session_date, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (course_id, reviewer_id) DO UPDATE
		SET rating = EXCLUDED.rating, comment = EXCLUDED.comment,
		    session_date = EXCLUDED.session_date, is_verified = EXCLUDED.is_verified,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		review.ID, review.CourseID, review.ReviewerID, review.Rating, review.Comment,
		review.SessionDate, review.IsVerified, review.CreatedAt, review.UpdatedAt,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to upsert review", "error", err)
		return err
	}

	if _, err := tx.Exec(ctx, refreshCourseRating, review.CourseID, domain.DefaultCourseRating); err != nil {
		r.log.Error("Failed to refresh course rating", "error", err, "course_id", review.CourseID)
		return err
	}

	return tx.Commit(ctx)
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CourseReview, error) {
	query := `
		SELECT id, course_id, reviewer_id, rating, comment, session_date, is_verified, created_at, updated_at
		FROM course_reviews
		WHERE id = $1
	`

	review := &domain.CourseReview{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID, &review.CourseID, &review.ReviewerID, &review.Rating,
		&review.Comment, &review.SessionDate, &review.IsVerified,
		&review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.log.Error("Failed to get review", "error", err)
		return nil, err
	}

	return review, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var courseID uuid.UUID
	err = tx.QueryRow(ctx, `DELETE FROM course_reviews WHERE id = $1 RETURNING course_id`, id).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		r.log.Error("Failed to delete review", "error", err)
		return err
	}

	if _, err := tx.Exec(ctx, refreshCourseRating, courseID, domain.DefaultCourseRating); err != nil {
		r.log.Error("Failed to refresh course rating", "error", err, "course_id", courseID)
		return err
	}

	return tx.Commit(ctx)
}

func (r *reviewRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.ReviewListing, error) {
	query := `
		SELECT cr.id, cr.course_id, cr.reviewer_id, cr.rating, cr.comment, cr.session_date,
		       cr.is_verified, cr.created_at, cr.updated_at, u.full_name
		FROM course_reviews cr
		JOIN users u ON u.id = cr.reviewer_id
		WHERE cr.course_id = $1
		ORDER BY cr.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		r.log.Error("Failed to list reviews", "error", err)
		return nil, err
	}
	defer rows.Close()

	var listings []*domain.ReviewListing
	for rows.Next() {
		listing := &domain.ReviewListing{}
		err := rows.Scan(
			&listing.Review.ID, &listing.Review.CourseID, &listing.Review.ReviewerID,
			&listing.Review.Rating, &listing.Review.Comment, &listing.Review.SessionDate,
			&listing.Review.IsVerified, &listing.Review.CreatedAt, &listing.Review.UpdatedAt,
			&listing.ReviewerName,
		)
		if err != nil {
			r.log.Error("Failed to scan review", "error", err)
			return nil, err
		}
		listings = append(listings, listing)
	}

	return listings, rows.Err()
}
