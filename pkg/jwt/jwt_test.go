package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "peer_tutoring/pkg/errors"
)

func TestGenerateAndValidate(t *testing.T) {
	userID := uuid.New()
	secret := "test_secret_0123456789"

	token, err := GenerateAccessToken(userID, "alice@example.com", secret, "peer-tutoring-test", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "alice@example.com", "secret-one", "iss", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret-two")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "alice@example.com", "secret", "iss", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("definitely.not.a.jwt", "secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
