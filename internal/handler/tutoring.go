package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peer_tutoring/internal/service"
	"peer_tutoring/pkg/logger"
)

type TutoringHandler struct {
	requestService service.RequestService
	log            logger.Logger
}

func NewTutoringHandler(requestService service.RequestService, log logger.Logger) *TutoringHandler {
	return &TutoringHandler{
		requestService: requestService,
		log:            log,
	}
}

type CreateTutoringRequest struct {
	FromUserID uuid.UUID `json:"from_user_id" binding:"required"`
	ToUserID   uuid.UUID `json:"to_user_id" binding:"required"`
	SubjectID  uuid.UUID `json:"subject_id" binding:"required"`
	Message    string    `json:"message"`
	// Status is accepted for wire compatibility but new requests always
	// start out pending.
	Status string `json:"status"`
}

type UpdateTutoringStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *TutoringHandler) Create(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateTutoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid tutoring request payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	request, err := h.requestService.Create(c.Request.Context(), callerID, req.FromUserID, req.ToUserID, req.SubjectID, req.Message)
	if err != nil {
		h.log.Warn("Tutoring request creation failed", "error", err, "from_user_id", req.FromUserID, "to_user_id", req.ToUserID)
		respondError(c, err)
		return
	}

	h.log.Info("Tutoring request created", "request_id", request.ID, "from_user_id", request.FromUserID, "to_user_id", request.ToUserID)
	c.JSON(http.StatusCreated, request)
}

func (h *TutoringHandler) ListByUser(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	requests, err := h.requestService.ListByUser(c.Request.Context(), callerID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *TutoringHandler) UpdateStatus(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request ID"})
		return
	}

	var req UpdateTutoringStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	request, err := h.requestService.UpdateStatus(c.Request.Context(), callerID, requestID, req.Status)
	if err != nil {
		h.log.Warn("Tutoring status update failed", "error", err, "request_id", requestID, "status", req.Status)
		respondError(c, err)
		return
	}

	h.log.Info("Tutoring request status updated", "request_id", request.ID, "status", request.Status)
	c.JSON(http.StatusOK, request)
}
