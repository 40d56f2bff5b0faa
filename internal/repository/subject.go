package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peer_tutoring/internal/domain"
	apperrors "peer_tutoring/pkg/errors"
	"peer_tutoring/pkg/logger"
)

type SubjectRepository interface {
	List(ctx context.Context) ([]*domain.Subject, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error)
	FindOrCreateByName(ctx context.Context, subject *domain.Subject) (*domain.Subject, error)
	ListUserSubjects(ctx context.Context, userID uuid.UUID) ([]*domain.UserSubjectListing, error)
	ReplaceUserSubjects(ctx context.Context, userID uuid.UUID, subjects []*domain.UserSubject) error
}

type subjectRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewSubjectRepository(db *pgxpool.Pool, log logger.Logger) SubjectRepository {
	return &subjectRepository{db: db, log: log}
}

func (r *subjectRepository) List(ctx context.Context) ([]*domain.Subject, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM subjects
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list subjects", "error", err)
		return nil, err
	}
	defer rows.Close()

	var subjects []*domain.Subject
	for rows.Next() {
		subject := &domain.Subject{}
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.Description, &subject.CreatedAt, &subject.UpdatedAt); err != nil {
			r.log.Error("Failed to scan subject", "error", err)
			return nil, err
		}
		subjects = append(subjects, subject)
	}

	return subjects, rows.Err()
}

func (r *subjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM subjects
		WHERE id = $1
	`

	subject := &domain.Subject{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subject.ID, &subject.Name, &subject.Description, &subject.CreatedAt, &subject.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		r.log.Error("Failed to get subject by ID", "error", err)
		return nil, err
	}

	return subject, nil
}

// FindOrCreateByName is a single atomic upsert: concurrent callers creating
// the same subject name both land on the one row.
func (r *subjectRepository) FindOrCreateByName(ctx context.Context, subject *domain.Subject) (*domain.Subject, error) {
	query := `
		INSERT INTO subjects (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, description, created_at, updated_at
	`

	result := &domain.Subject{}
	err := r.db.QueryRow(ctx, query,
		subject.ID, subject.Name, subject.Description, subject.CreatedAt, subject.UpdatedAt,
	).Scan(&result.ID, &result.Name, &result.Description, &result.CreatedAt, &result.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to find or create subject", "error", err, "name", subject.Name)
		return nil, err
	}

	return result, nil
}

func (r *subjectRepository) ListUserSubjects(ctx context.Context, userID uuid.UUID) ([]*domain.UserSubjectListing, error) {
	query := `
		SELECT us.id, us.user_id, us.subject_id, us.can_teach, us.can_learn, us.proficiency_level,
		       us.created_at, us.updated_at,
		       s.id, s.name, s.description, s.created_at, s.updated_at
		FROM user_subjects us
		JOIN subjects s ON s.id = us.subject_id
		WHERE us.user_id = $1
		ORDER BY s.name
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list user subjects", "error", err)
		return nil, err
	}
	defer rows.Close()

	var listings []*domain.UserSubjectListing
	for rows.Next() {
		listing := &domain.UserSubjectListing{}
		err := rows.Scan(
			&listing.UserSubject.ID, &listing.UserSubject.UserID, &listing.UserSubject.SubjectID,
			&listing.UserSubject.CanTeach, &listing.UserSubject.CanLearn, &listing.UserSubject.ProficiencyLevel,
			&listing.UserSubject.CreatedAt, &listing.UserSubject.UpdatedAt,
			&listing.Subject.ID, &listing.Subject.Name, &listing.Subject.Description,
			&listing.Subject.CreatedAt, &listing.Subject.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan user subject", "error", err)
			return nil, err
		}
		listings = append(listings, listing)
	}

	return listings, rows.Err()
}

// ReplaceUserSubjects swaps the user's whole tag set in one transaction.
func (r *subjectRepository) ReplaceUserSubjects(ctx context.Context, userID uuid.UUID, subjects []*domain.UserSubject) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_subjects WHERE user_id = $1`, userID); err != nil {
		r.log.Error("Failed to clear user subjects", "error", err)
		return err
	}

	insertQuery := `
		INSERT INTO user_subjects (id, user_id, subject_id, can_teach, can_learn, proficiency_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, subject_id) DO NOTHING
	`

	for _, us := range subjects {
		_, err := tx.Exec(ctx, insertQuery,
			us.ID, us.UserID, us.SubjectID, us.CanTeach, us.CanLearn, us.ProficiencyLevel,
			us.CreatedAt, us.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to insert user subject", "error", err, "subject_id", us.SubjectID)
			return err
		}
	}

	return tx.Commit(ctx)
}
