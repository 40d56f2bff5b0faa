package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peer_tutoring/internal/service"
	"peer_tutoring/pkg/logger"
)

type AuthHandler struct {
	authService service.AuthService
	log         logger.Logger
}

func NewAuthHandler(authService service.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid signup request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.authService.Signup(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.log.Warn("Signup failed", "error", err, "email", req.Email)
		respondError(c, err)
		return
	}

	h.log.Info("User signed up", "user_id", response.UserID, "email", req.Email)
	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid signin request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.authService.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Warn("Signin failed", "error", err, "email", req.Email)
		respondError(c, err)
		return
	}

	h.log.Info("User signed in", "user_id", response.UserID)
	c.JSON(http.StatusOK, response)
}
