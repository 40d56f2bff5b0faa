package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/service"
	"peer_tutoring/pkg/logger"
)

type SubjectHandler struct {
	subjectService service.SubjectService
	log            logger.Logger
}

func NewSubjectHandler(subjectService service.SubjectService, log logger.Logger) *SubjectHandler {
	return &SubjectHandler{
		subjectService: subjectService,
		log:            log,
	}
}

type UserSubjectEntry struct {
	SubjectID        *uuid.UUID `json:"subject_id"`
	Name             string     `json:"name"`
	CanTeach         bool       `json:"can_teach"`
	CanLearn         bool       `json:"can_learn"`
	ProficiencyLevel string     `json:"proficiency_level"`
}

type SetUserSubjectsRequest struct {
	Subjects []UserSubjectEntry `json:"subjects" binding:"required"`
}

// UserSubjectResponse is a user's subject tag with the subject inlined.
type UserSubjectResponse struct {
	ID               uuid.UUID      `json:"id"`
	Subject          domain.Subject `json:"subject"`
	CanTeach         bool           `json:"can_teach"`
	CanLearn         bool           `json:"can_learn"`
	ProficiencyLevel string         `json:"proficiency_level"`
}

func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.subjectService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

func (h *SubjectHandler) ListUserSubjects(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	listings, err := h.subjectService.ListUserSubjects(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]UserSubjectResponse, 0, len(listings))
	for _, listing := range listings {
		responses = append(responses, UserSubjectResponse{
			ID:               listing.UserSubject.ID,
			Subject:          listing.Subject,
			CanTeach:         listing.UserSubject.CanTeach,
			CanLearn:         listing.UserSubject.CanLearn,
			ProficiencyLevel: listing.UserSubject.ProficiencyLevel,
		})
	}

	c.JSON(http.StatusOK, responses)
}

func (h *SubjectHandler) SetUserSubjects(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var req SetUserSubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	inputs := make([]service.SubjectInput, 0, len(req.Subjects))
	for _, entry := range req.Subjects {
		inputs = append(inputs, service.SubjectInput{
			SubjectID:        entry.SubjectID,
			Name:             entry.Name,
			CanTeach:         entry.CanTeach,
			CanLearn:         entry.CanLearn,
			ProficiencyLevel: entry.ProficiencyLevel,
		})
	}

	if err := h.subjectService.SetUserSubjects(c.Request.Context(), callerID, userID, inputs); err != nil {
		h.log.Warn("User subjects update failed", "error", err, "user_id", userID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *SubjectHandler) ClearUserSubjects(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	if err := h.subjectService.ClearUserSubjects(c.Request.Context(), callerID, userID); err != nil {
		h.log.Warn("User subjects clear failed", "error", err, "user_id", userID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
