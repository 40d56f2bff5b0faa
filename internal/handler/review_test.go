package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peer_tutoring/internal/domain"
)

func (e *httpEnv) seedCourse(t *testing.T, instructorID, subjectID uuid.UUID, title string) *domain.Course {
	t.Helper()

	now := time.Now()
	course := &domain.Course{
		ID:           uuid.New(),
		Title:        title,
		InstructorID: instructorID,
		SubjectID:    subjectID,
		Category:     domain.CourseCategoryScience,
		Rating:       domain.DefaultCourseRating,
		Currency:     "USD",
		Level:        "Beginner",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	e.store.AddCourse(course)
	return course
}

func (e *httpEnv) catalogRating(t *testing.T, courseID uuid.UUID) float64 {
	t.Helper()

	rec := e.do(t, http.MethodGet, "/api/v1/courses", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, course := range decodeJSON[[]CourseResponse](t, rec) {
		if course.ID == courseID {
			return course.Rating
		}
	}
	t.Fatalf("course %s not in catalog", courseID)
	return 0
}

func TestReviewEndpoints(t *testing.T) {
	env := newHTTPEnv(t)

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	physics := env.subject(t, "Physics")
	course := env.seedCourse(t, brian.ID, physics.ID, "Mechanics 101")

	var reviewID uuid.UUID

	t.Run("submitting a review moves the catalog rating", func(t *testing.T) {
		require.Equal(t, domain.DefaultCourseRating, env.catalogRating(t, course.ID))

		rec := env.do(t, http.MethodPost, "/api/v1/reviews", alice.Token, gin.H{
			"course_id": course.ID,
			"rating":    1,
			"comment":   "Not what I expected",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		reviewID = decodeJSON[domain.CourseReview](t, rec).ID

		assert.Equal(t, 1.0, env.catalogRating(t, course.ID))
	})

	t.Run("only the reviewer may delete", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/v1/reviews/"+reviewID.String(), brian.Token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	})

	t.Run("deleting restores the default rating", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/v1/reviews/"+reviewID.String(), alice.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, domain.DefaultCourseRating, env.catalogRating(t, course.ID))

		rec = env.do(t, http.MethodDelete, "/api/v1/reviews/"+reviewID.String(), alice.Token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	})
}

func TestClearUserSubjectsEndpoint(t *testing.T) {
	env := newHTTPEnv(t)

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	physics := env.subject(t, "Physics")

	require.NoError(t, env.repos.Subject.ReplaceUserSubjects(context.Background(), alice.ID, []*domain.UserSubject{
		{ID: uuid.New(), UserID: alice.ID, SubjectID: physics.ID, CanTeach: true},
	}))

	t.Run("rejects another user's token", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/v1/subjects/user/"+alice.ID.String(), brian.Token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	})

	t.Run("clears the caller's own tags", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/v1/subjects/user/"+alice.ID.String(), alice.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		listings, err := env.services.Subject.ListUserSubjects(context.Background(), alice.ID)
		require.NoError(t, err)
		assert.Empty(t, listings)
	})
}
