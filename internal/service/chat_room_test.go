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

func TestChatRoomGetOrCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	chloe := env.signup(t, "chloe@example.com", "Chloe Diaz")
	physics := env.subject(t, "Physics")
	request := env.acceptedRequest(t, alice, brian, physics)

	t.Run("creates room with both participants", func(t *testing.T) {
		listing, err := env.services.ChatRoom.GetOrCreateForRequest(ctx, alice.ID, request.ID, nil, "")
		require.NoError(t, err)

		assert.Equal(t, domain.DefaultRoomTitle, listing.Room.Title)
		assert.True(t, listing.Room.IsActive)
		require.Len(t, listing.Participants, 2)

		names := []string{listing.Participants[0].FullName, listing.Participants[1].FullName}
		assert.ElementsMatch(t, []string{"Alice Moore", "Brian Chen"}, names)
	})

	t.Run("second call returns the same room", func(t *testing.T) {
		first, err := env.services.ChatRoom.GetOrCreateForRequest(ctx, alice.ID, request.ID, nil, "")
		require.NoError(t, err)

		second, err := env.services.ChatRoom.GetOrCreateForRequest(ctx, brian.ID, request.ID, nil, "Another title")
		require.NoError(t, err)

		assert.Equal(t, first.Room.ID, second.Room.ID)
	})

	t.Run("outsider cannot open the room", func(t *testing.T) {
		_, err := env.services.ChatRoom.GetOrCreateForRequest(ctx, chloe.ID, request.ID, nil, "")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := env.services.ChatRoom.GetOrCreateForRequest(ctx, alice.ID, uuid.New(), nil, "")
		assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
	})
}

func TestChatRoomListAndUnread(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.signup(t, "alice@example.com", "Alice Moore")
	brian := env.signup(t, "brian@example.com", "Brian Chen")
	physics := env.subject(t, "Physics")
	request := env.acceptedRequest(t, alice, brian, physics)

	listing, err := env.services.ChatRoom.GetOrCreateForRequest(ctx, alice.ID, request.ID, nil, "")
	require.NoError(t, err)
	roomID := listing.Room.ID

	for _, content := range []string{"hi", "are you free tomorrow?"} {
		_, err := env.services.Message.Append(ctx, alice.ID, roomID, content, "")
		require.NoError(t, err)
	}

	t.Run("unread counts exclude own messages", func(t *testing.T) {
		brianRooms, err := env.services.ChatRoom.ListRooms(ctx, brian.ID)
		require.NoError(t, err)
		require.Len(t, brianRooms, 1)
		assert.Equal(t, 2, brianRooms[0].UnreadCount)
		require.NotNil(t, brianRooms[0].SubjectName)
		assert.Equal(t, "Physics", *brianRooms[0].SubjectName)

		aliceRooms, err := env.services.ChatRoom.ListRooms(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, aliceRooms, 1)
		assert.Equal(t, 0, aliceRooms[0].UnreadCount)
	})

	t.Run("mark read clears the count and is idempotent", func(t *testing.T) {
		require.NoError(t, env.services.ChatRoom.MarkRead(ctx, brian.ID, roomID))
		require.NoError(t, env.services.ChatRoom.MarkRead(ctx, brian.ID, roomID))

		rooms, err := env.services.ChatRoom.ListRooms(ctx, brian.ID)
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, 0, rooms[0].UnreadCount)
	})

	t.Run("outsider cannot mark read", func(t *testing.T) {
		chloe := env.signup(t, "chloe@example.com", "Chloe Diaz")
		err := env.services.ChatRoom.MarkRead(ctx, chloe.ID, roomID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("non-member sees no rooms", func(t *testing.T) {
		dana := env.signup(t, "dana@example.com", "Dana Patel")
		rooms, err := env.services.ChatRoom.ListRooms(ctx, dana.ID)
		require.NoError(t, err)
		assert.Empty(t, rooms)
	})
}
