package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "peer_tutoring/pkg/errors"
)

func TestSetUserSubjects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	physics := env.subject(t, "Physics")

	t.Run("mixes known ids and new names", func(t *testing.T) {
		err := env.services.Subject.SetUserSubjects(ctx, alice.ID, alice.ID, []SubjectInput{
			{SubjectID: &physics.ID, CanTeach: true, ProficiencyLevel: "advanced"},
			{Name: "Linear Algebra", CanLearn: true},
		})
		require.NoError(t, err)

		listings, err := env.services.Subject.ListUserSubjects(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, listings, 2)

		names := []string{listings[0].Subject.Name, listings[1].Subject.Name}
		assert.ElementsMatch(t, []string{"Physics", "Linear Algebra"}, names)

		// The bare name must now exist in the shared directory.
		subjects, err := env.services.Subject.List(ctx)
		require.NoError(t, err)
		assert.Len(t, subjects, 2)
	})

	t.Run("replaces the previous tag set", func(t *testing.T) {
		err := env.services.Subject.SetUserSubjects(ctx, alice.ID, alice.ID, []SubjectInput{
			{SubjectID: &physics.ID, CanLearn: true},
		})
		require.NoError(t, err)

		listings, err := env.services.Subject.ListUserSubjects(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, "Physics", listings[0].Subject.Name)
		assert.True(t, listings[0].UserSubject.CanLearn)
		assert.False(t, listings[0].UserSubject.CanTeach)
	})

	t.Run("cannot edit someone else's tags", func(t *testing.T) {
		err := env.services.Subject.SetUserSubjects(ctx, alice.ID, brian.ID, []SubjectInput{
			{SubjectID: &physics.ID, CanTeach: true},
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestClearUserSubjects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	physics := env.subject(t, "Physics")

	require.NoError(t, env.services.Subject.SetUserSubjects(ctx, alice.ID, alice.ID, []SubjectInput{
		{SubjectID: &physics.ID, CanTeach: true, ProficiencyLevel: "advanced"},
	}))

	t.Run("cannot clear someone else's tags", func(t *testing.T) {
		err := env.services.Subject.ClearUserSubjects(ctx, brian.ID, alice.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("clears the caller's own tags", func(t *testing.T) {
		require.NoError(t, env.services.Subject.ClearUserSubjects(ctx, alice.ID, alice.ID))

		listings, err := env.services.Subject.ListUserSubjects(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, listings)

		// The shared directory keeps the subject itself.
		subjects, err := env.services.Subject.List(ctx)
		require.NoError(t, err)
		assert.Len(t, subjects, 1)
	})
}
