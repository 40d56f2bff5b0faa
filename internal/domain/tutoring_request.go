package domain

import (
	"time"

	"github.com/google/uuid"
)

type TutoringRequest struct {
	ID         uuid.UUID `json:"id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	SubjectID  uuid.UUID `json:"subject_id"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

func ValidRequestStatus(status string) bool {
	switch status {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected:
		return true
	}
	return false
}

// Terminal statuses admit no further transitions.
func TerminalRequestStatus(status string) bool {
	return status == RequestStatusAccepted || status == RequestStatusRejected
}

func (r *TutoringRequest) HasParticipant(userID uuid.UUID) bool {
	return r.FromUserID == userID || r.ToUserID == userID
}

// EnrichedRequest is the read-side projection of a request with the
// counterpart and subject names resolved for direct UI consumption.
type EnrichedRequest struct {
	ID                uuid.UUID `json:"id"`
	FromUserID        uuid.UUID `json:"from_user_id"`
	FromUserName      string    `json:"from_user_name"`
	ToUserID          uuid.UUID `json:"to_user_id"`
	ToUserName        string    `json:"to_user_name"`
	OtherName         string    `json:"other_name"`
	CurrentUserName   string    `json:"current_user_name"`
	SubjectID         uuid.UUID `json:"subject_id"`
	SubjectName       string    `json:"subject_name"`
	Message           string    `json:"message"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	IsFromCurrentUser bool      `json:"is_from_current_user"`
}
