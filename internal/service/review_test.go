package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peer_tutoring/internal/domain"
	apperrors "peer_tutoring/pkg/errors"
)

func (e *testEnv) seedCourse(t *testing.T, instructor *domain.User, subject *domain.Subject, title string) *domain.Course {
	t.Helper()

	now := time.Now()
	course := &domain.Course{
		ID:           uuid.New(),
		Title:        title,
		InstructorID: instructor.ID,
		SubjectID:    subject.ID,
		Category:     domain.CourseCategoryScience,
		Rating:       domain.DefaultCourseRating,
		Price:        25,
		Currency:     "USD",
		Level:        "Beginner",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	e.store.AddCourse(course)
	return course
}

func TestReviewSubmit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	chloe := env.signup(t, "chloe@example.com", "Chloe Diaz")
	physics := env.subject(t, "Physics")
	course := env.seedCourse(t, brian, physics, "Mechanics 101")

	// Alice actually studied with Brian; Chloe never did.
	env.acceptedRequest(t, alice, brian, physics)

	t.Run("verified when an accepted request with the instructor exists", func(t *testing.T) {
		review, err := env.services.Review.Submit(ctx, alice.ID, course.ID, 5, "Great sessions", nil)
		require.NoError(t, err)
		assert.True(t, review.IsVerified)
		assert.Equal(t, 5, review.Rating)
	})

	t.Run("unverified otherwise", func(t *testing.T) {
		review, err := env.services.Review.Submit(ctx, chloe.ID, course.ID, 3, "Looks fine", nil)
		require.NoError(t, err)
		assert.False(t, review.IsVerified)
	})

	t.Run("resubmitting replaces the earlier review", func(t *testing.T) {
		_, err := env.services.Review.Submit(ctx, alice.ID, course.ID, 4, "Still good", nil)
		require.NoError(t, err)

		listings, err := env.services.Review.ListByCourse(ctx, course.ID)
		require.NoError(t, err)

		var aliceReviews int
		for _, listing := range listings {
			if listing.Review.ReviewerID == alice.ID {
				aliceReviews++
				assert.Equal(t, 4, listing.Review.Rating)
				assert.Equal(t, "Alice Moore", listing.ReviewerName)
			}
		}
		assert.Equal(t, 1, aliceReviews)
	})

	t.Run("rating out of range", func(t *testing.T) {
		_, err := env.services.Review.Submit(ctx, alice.ID, course.ID, 6, "", nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

		_, err = env.services.Review.Submit(ctx, alice.ID, course.ID, 0, "", nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := env.services.Review.Submit(ctx, alice.ID, uuid.New(), 5, "", nil)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})
}

func (e *testEnv) courseRating(t *testing.T, courseID uuid.UUID) float64 {
	t.Helper()

	listings, err := e.services.Course.List(context.Background(), "")
	require.NoError(t, err)
	for _, listing := range listings {
		if listing.Course.ID == courseID {
			return listing.Course.Rating
		}
	}
	t.Fatalf("course %s not listed", courseID)
	return 0
}

func TestReviewSubmitRefreshesCourseRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	chloe := env.signup(t, "chloe@example.com", "Chloe Diaz")
	physics := env.subject(t, "Physics")
	course := env.seedCourse(t, brian, physics, "Mechanics 101")

	require.Equal(t, domain.DefaultCourseRating, env.courseRating(t, course.ID))

	_, err := env.services.Review.Submit(ctx, alice.ID, course.ID, 1, "Not for me", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, env.courseRating(t, course.ID))

	_, err = env.services.Review.Submit(ctx, chloe.ID, course.ID, 5, "Loved it", nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, env.courseRating(t, course.ID))

	// A resubmission replaces the old rating rather than stacking it.
	_, err = env.services.Review.Submit(ctx, alice.ID, course.ID, 4, "Grew on me", nil)
	require.NoError(t, err)
	assert.Equal(t, 4.5, env.courseRating(t, course.ID))
}

func TestReviewDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	physics := env.subject(t, "Physics")
	course := env.seedCourse(t, brian, physics, "Mechanics 101")

	review, err := env.services.Review.Submit(ctx, alice.ID, course.ID, 2, "Too fast", nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, env.courseRating(t, course.ID))

	t.Run("only the reviewer may delete", func(t *testing.T) {
		err := env.services.Review.Delete(ctx, brian.ID, review.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("unknown review", func(t *testing.T) {
		err := env.services.Review.Delete(ctx, alice.ID, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("delete removes the review and resets the rating", func(t *testing.T) {
		require.NoError(t, env.services.Review.Delete(ctx, alice.ID, review.ID))

		listings, err := env.services.Review.ListByCourse(ctx, course.ID)
		require.NoError(t, err)
		assert.Empty(t, listings)
		assert.Equal(t, domain.DefaultCourseRating, env.courseRating(t, course.ID))
	})
}

func TestCourseList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	brian := env.signup(t, "brian@example.com", "Brian Chen")
	physics := env.subject(t, "Physics")
	design := env.subject(t, "Design Basics")

	env.seedCourse(t, brian, physics, "Mechanics 101")

	now := time.Now()
	env.store.AddCourse(&domain.Course{
		ID:           uuid.New(),
		Title:        "Figma Fundamentals",
		InstructorID: brian.ID,
		SubjectID:    design.ID,
		Category:     domain.CourseCategoryDesign,
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	t.Run("lists all with resolved names", func(t *testing.T) {
		listings, err := env.services.Course.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, listings, 2)
		for _, listing := range listings {
			assert.Equal(t, "Brian Chen", listing.InstructorName)
			assert.NotEmpty(t, listing.SubjectName)
		}
	})

	t.Run("filters by category", func(t *testing.T) {
		listings, err := env.services.Course.List(ctx, domain.CourseCategoryDesign)
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, "Figma Fundamentals", listings[0].Course.Title)
	})
}
