package domain

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	InstructorID  uuid.UUID `json:"instructor_id"`
	SubjectID     uuid.UUID `json:"subject_id"`
	Category      string    `json:"category"`
	BannerURL     string    `json:"banner_url"`
	Rating        float64   `json:"rating"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Duration      string    `json:"duration"`
	Level         string    `json:"level"`
	Description   string    `json:"description"`
	TotalStudents int       `json:"total_students"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	CourseCategoryDevelopment = "Development"
	CourseCategoryDesign      = "Design"
	CourseCategoryScience     = "Science"
	CourseCategoryBusiness    = "Business"
)

// DefaultCourseRating is shown for a course with no reviews; once reviews
// exist the stored rating is the average rounded to one decimal.
const DefaultCourseRating = 4.6

// CourseListing resolves the instructor and subject names for the catalog.
type CourseListing struct {
	Course         Course
	InstructorName string
	SubjectName    string
}

type CourseReview struct {
	ID          uuid.UUID  `json:"id"`
	CourseID    uuid.UUID  `json:"course_id"`
	ReviewerID  uuid.UUID  `json:"reviewer_id"`
	Rating      int        `json:"rating"`
	Comment     string     `json:"comment"`
	SessionDate *time.Time `json:"session_date,omitempty"`
	IsVerified  bool       `json:"is_verified"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ReviewListing is a review with the reviewer's name resolved.
type ReviewListing struct {
	Review       CourseReview
	ReviewerName string
}
