package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChatRoom struct {
	ID                uuid.UUID  `json:"id"`
	TutoringRequestID *uuid.UUID `json:"tutoring_request_id,omitempty"`
	CourseID          *uuid.UUID `json:"course_id,omitempty"`
	Title             string     `json:"title"`
	IsActive          bool       `json:"is_active"`
	LastActivity      time.Time  `json:"last_activity"`
	CreatedAt         time.Time  `json:"created_at"`
}

const DefaultRoomTitle = "Study Session Chat"

// RoomParticipant pairs a room member with their display name.
type RoomParticipant struct {
	UserID   uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// RoomListing is a room annotated for the caller's room list: participant
// names plus the subject name of the backing tutoring request, if any.
type RoomListing struct {
	Room         ChatRoom
	Participants []RoomParticipant
	SubjectName  *string
	UnreadCount  int
}

type Message struct {
	ID          uuid.UUID `json:"id"`
	ChatRoomID  uuid.UUID `json:"chat_room_id"`
	SenderID    uuid.UUID `json:"sender_id"`
	SenderName  string    `json:"sender_name,omitempty"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	MessageTypeText   = "text"
	MessageTypeFile   = "file"
	MessageTypeSystem = "system"
)

func ValidMessageType(messageType string) bool {
	switch messageType {
	case MessageTypeText, MessageTypeFile, MessageTypeSystem:
		return true
	}
	return false
}

// MessageRead is a read receipt: at most one per (message, reader).
type MessageRead struct {
	MessageID uuid.UUID `json:"message_id"`
	UserID    uuid.UUID `json:"user_id"`
	ReadAt    time.Time `json:"read_at"`
}
