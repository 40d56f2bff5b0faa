package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peer_tutoring/internal/domain"
)

func TestTutoringRequestRoutes(t *testing.T) {
	env := newHTTPEnv(t)

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	physics := env.subject(t, "Physics")

	t.Run("requires auth", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/tutoring-requests", "", gin.H{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("create forces pending even when a status is supplied", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/tutoring-requests", alice.Token, gin.H{
			"from_user_id": alice.ID,
			"to_user_id":   brian.ID,
			"subject_id":   physics.ID,
			"message":      "Need help with thermodynamics",
			"status":       "accepted",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		created := decodeJSON[domain.TutoringRequest](t, rec)
		assert.Equal(t, domain.RequestStatusPending, created.Status)
		assert.Equal(t, alice.ID, created.FromUserID)
	})

	t.Run("cannot create on behalf of someone else", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/tutoring-requests", brian.Token, gin.H{
			"from_user_id": alice.ID,
			"to_user_id":   brian.ID,
			"subject_id":   physics.ID,
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("recipient accepts via PATCH", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/tutoring-requests", alice.Token, gin.H{
			"from_user_id": alice.ID,
			"to_user_id":   brian.ID,
			"subject_id":   physics.ID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		created := decodeJSON[domain.TutoringRequest](t, rec)

		rec = env.do(t, http.MethodPatch, "/tutoring-requests/"+created.ID.String(), brian.Token, gin.H{
			"status": "accepted",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		updated := decodeJSON[domain.TutoringRequest](t, rec)
		assert.Equal(t, domain.RequestStatusAccepted, updated.Status)

		// Flipping to the other terminal state is a conflict.
		rec = env.do(t, http.MethodPatch, "/tutoring-requests/"+created.ID.String(), brian.Token, gin.H{
			"status": "rejected",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("sender cannot accept", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/tutoring-requests", alice.Token, gin.H{
			"from_user_id": alice.ID,
			"to_user_id":   brian.ID,
			"subject_id":   physics.ID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		created := decodeJSON[domain.TutoringRequest](t, rec)

		rec = env.do(t, http.MethodPatch, "/tutoring-requests/"+created.ID.String(), alice.Token, gin.H{
			"status": "accepted",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown request id is 404", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/tutoring-requests/"+uuid.NewString(), brian.Token, gin.H{
			"status": "accepted",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list is enriched and caller scoped", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/tutoring-requests/user/"+alice.ID.String(), alice.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		requests := decodeJSON[[]domain.EnrichedRequest](t, rec)
		require.NotEmpty(t, requests)
		for _, r := range requests {
			assert.Equal(t, "Physics", r.SubjectName)
			assert.Equal(t, "Brian Chen", r.OtherName)
			assert.True(t, r.IsFromCurrentUser)
		}

		rec = env.do(t, http.MethodGet, "/tutoring-requests/user/"+alice.ID.String(), brian.Token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
