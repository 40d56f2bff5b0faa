package domain

import (
	"time"

	"github.com/google/uuid"
)

type Subject struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserSubject tags a user with a subject they can teach and/or want to learn.
type UserSubject struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	SubjectID        uuid.UUID `json:"subject_id"`
	CanTeach         bool      `json:"can_teach"`
	CanLearn         bool      `json:"can_learn"`
	ProficiencyLevel string    `json:"proficiency_level"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// UserSubjectListing is a user's subject tag with the subject resolved.
type UserSubjectListing struct {
	UserSubject UserSubject
	Subject     Subject
}
