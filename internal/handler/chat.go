package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/service"
	"peer_tutoring/pkg/logger"
)

type ChatHandler struct {
	roomService    service.ChatRoomService
	messageService service.MessageService
	log            logger.Logger
}

func NewChatHandler(roomService service.ChatRoomService, messageService service.MessageService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		roomService:    roomService,
		messageService: messageService,
		log:            log,
	}
}

type CreateRoomRequest struct {
	TutoringRequestID uuid.UUID  `json:"tutoring_request_id" binding:"required"`
	CourseID          *uuid.UUID `json:"course_id"`
	Title             string     `json:"title"`
}

type SendMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	MessageType string `json:"message_type"`
}

// RoomResponse is the wire shape of a chat room with its participants.
type RoomResponse struct {
	ID           uuid.UUID                `json:"id"`
	Title        string                   `json:"title"`
	Participants []domain.RoomParticipant `json:"participants"`
	SubjectName  *string                  `json:"subject_name,omitempty"`
	UnreadCount  int                      `json:"unread_count"`
	CreatedAt    time.Time                `json:"created_at"`
	LastActivity time.Time                `json:"last_activity"`
}

// MessageResponse is the wire shape of a message; is_own is computed per
// caller so clients never compare sender IDs themselves.
type MessageResponse struct {
	ID          uuid.UUID              `json:"id"`
	Content     string                 `json:"content"`
	Sender      domain.RoomParticipant `json:"sender"`
	MessageType string                 `json:"message_type"`
	CreatedAt   time.Time              `json:"created_at"`
	IsOwn       bool                   `json:"is_own"`
}

func toRoomResponse(listing *domain.RoomListing) RoomResponse {
	participants := listing.Participants
	if participants == nil {
		participants = []domain.RoomParticipant{}
	}
	return RoomResponse{
		ID:           listing.Room.ID,
		Title:        listing.Room.Title,
		Participants: participants,
		SubjectName:  listing.SubjectName,
		UnreadCount:  listing.UnreadCount,
		CreatedAt:    listing.Room.CreatedAt,
		LastActivity: listing.Room.LastActivity,
	}
}

func toMessageResponse(msg *domain.Message, callerID uuid.UUID) MessageResponse {
	return MessageResponse{
		ID:      msg.ID,
		Content: msg.Content,
		Sender: domain.RoomParticipant{
			UserID:   msg.SenderID,
			FullName: msg.SenderName,
		},
		MessageType: msg.MessageType,
		CreatedAt:   msg.CreatedAt,
		IsOwn:       msg.SenderID == callerID,
	}
}

func (h *ChatHandler) CreateRoom(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid room creation payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	listing, err := h.roomService.GetOrCreateForRequest(c.Request.Context(), callerID, req.TutoringRequestID, req.CourseID, req.Title)
	if err != nil {
		h.log.Warn("Room creation failed", "error", err, "tutoring_request_id", req.TutoringRequestID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRoomResponse(listing))
}

func (h *ChatHandler) ListRooms(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	listings, err := h.roomService.ListRooms(c.Request.Context(), callerID)
	if err != nil {
		respondError(c, err)
		return
	}

	rooms := make([]RoomResponse, 0, len(listings))
	for _, listing := range listings {
		rooms = append(rooms, toRoomResponse(listing))
	}

	c.JSON(http.StatusOK, rooms)
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	messages, err := h.messageService.Page(c.Request.Context(), callerID, roomID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, toMessageResponse(msg, callerID))
	}

	c.JSON(http.StatusOK, responses)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	message, err := h.messageService.Append(c.Request.Context(), callerID, roomID, req.Content, req.MessageType)
	if err != nil {
		h.log.Warn("Message send failed", "error", err, "room_id", roomID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMessageResponse(message, callerID))
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
		return
	}

	if err := h.roomService.MarkRead(c.Request.Context(), callerID, roomID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
