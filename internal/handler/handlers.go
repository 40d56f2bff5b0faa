package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peer_tutoring/internal/config"
	"peer_tutoring/internal/middleware"
	"peer_tutoring/internal/service"
	apperrors "peer_tutoring/pkg/errors"
	"peer_tutoring/pkg/logger"
)

type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Profile  *ProfileHandler
	Subject  *SubjectHandler
	Tutoring *TutoringHandler
	Chat     *ChatHandler
	Course   *CourseHandler
	Review   *ReviewHandler
}

func NewHandlers(services *service.Services, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(cfg),
		Auth:     NewAuthHandler(services.Auth, log),
		Profile:  NewProfileHandler(services.Profile, log),
		Subject:  NewSubjectHandler(services.Subject, log),
		Tutoring: NewTutoringHandler(services.Request, log),
		Chat:     NewChatHandler(services.ChatRoom, services.Message, log),
		Course:   NewCourseHandler(services.Course, log),
		Review:   NewReviewHandler(services.Review, log),
	}
}

// respondError maps a service error onto its HTTP status code.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
}

// callerID pulls the authenticated user out of the context and writes a 401
// itself when the route was somehow reached without auth.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
	}
	return id, ok
}
