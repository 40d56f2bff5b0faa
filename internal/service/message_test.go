package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peer_tutoring/internal/domain"
	apperrors "peer_tutoring/pkg/errors"
)

func TestMessageAppend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	physics := env.subject(t, "Physics")
	request := env.acceptedRequest(t, alice, brian, physics)

	listing, err := env.services.ChatRoom.GetOrCreateForRequest(ctx, alice.ID, request.ID, nil, "")
	require.NoError(t, err)
	roomID := listing.Room.ID

	t.Run("defaults to text and fills sender", func(t *testing.T) {
		message, err := env.services.Message.Append(ctx, alice.ID, roomID, "  hello  ", "")
		require.NoError(t, err)

		assert.Equal(t, "hello", message.Content)
		assert.Equal(t, domain.MessageTypeText, message.MessageType)
		assert.Equal(t, alice.ID, message.SenderID)
		assert.Equal(t, "Alice Moore", message.SenderName)
		assert.False(t, message.CreatedAt.IsZero())
	})

	t.Run("advances room activity", func(t *testing.T) {
		before, err := env.repos.ChatRoom.GetByID(ctx, roomID)
		require.NoError(t, err)

		message, err := env.services.Message.Append(ctx, brian.ID, roomID, "sure, 5pm works", "")
		require.NoError(t, err)

		after, err := env.repos.ChatRoom.GetByID(ctx, roomID)
		require.NoError(t, err)
		assert.False(t, after.LastActivity.Before(before.LastActivity))
		assert.False(t, after.LastActivity.Before(message.CreatedAt))
	})

	t.Run("empty content rejected", func(t *testing.T) {
		_, err := env.services.Message.Append(ctx, alice.ID, roomID, "   ", "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("unknown message type rejected", func(t *testing.T) {
		_, err := env.services.Message.Append(ctx, alice.ID, roomID, "hi", "carrier_pigeon")
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("outsider cannot send", func(t *testing.T) {
		chloe := env.signup(t, "chloe@example.com", "Chloe Diaz")
		_, err := env.services.Message.Append(ctx, chloe.ID, roomID, "let me in", "")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := env.services.Message.Append(ctx, alice.ID, uuid.New(), "hi", "")
		assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
	})
}

func TestMessagePage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	physics := env.subject(t, "Physics")
	request := env.acceptedRequest(t, alice, brian, physics)

	listing, err := env.services.ChatRoom.GetOrCreateForRequest(ctx, alice.ID, request.ID, nil, "")
	require.NoError(t, err)
	roomID := listing.Room.ID

	contents := []string{"one", "two", "three", "four", "five"}
	for _, content := range contents {
		_, err := env.services.Message.Append(ctx, alice.ID, roomID, content, "")
		require.NoError(t, err)
	}

	t.Run("returns chronological order", func(t *testing.T) {
		messages, err := env.services.Message.Page(ctx, brian.ID, roomID, 1, 10)
		require.NoError(t, err)
		require.Len(t, messages, 5)

		for i, msg := range messages {
			assert.Equal(t, contents[i], msg.Content)
		}
	})

	t.Run("pages from newest backwards", func(t *testing.T) {
		first, err := env.services.Message.Page(ctx, brian.ID, roomID, 1, 2)
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, "four", first[0].Content)
		assert.Equal(t, "five", first[1].Content)

		second, err := env.services.Message.Page(ctx, brian.ID, roomID, 2, 2)
		require.NoError(t, err)
		require.Len(t, second, 2)
		assert.Equal(t, "two", second[0].Content)
		assert.Equal(t, "three", second[1].Content)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		messages, err := env.services.Message.Page(ctx, brian.ID, roomID, 4, 2)
		require.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("outsider cannot read", func(t *testing.T) {
		chloe := env.signup(t, "chloe@example.com", "Chloe Diaz")
		_, err := env.services.Message.Page(ctx, chloe.ID, roomID, 1, 10)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}
