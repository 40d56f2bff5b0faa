package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/service"
	"peer_tutoring/pkg/logger"
)

type ProfileHandler struct {
	profileService service.ProfileService
	log            logger.Logger
}

func NewProfileHandler(profileService service.ProfileService, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		log:            log,
	}
}

type UpdateProfileRequest struct {
	FullName    string `json:"full_name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	BannerURL   string `json:"banner_url"`
	YearOfStudy string `json:"year_of_study"`
	Major       string `json:"major"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), callerID, &domain.Profile{
		UserID:      userID,
		FullName:    req.FullName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		BannerURL:   req.BannerURL,
		YearOfStudy: req.YearOfStudy,
		Major:       req.Major,
	})
	if err != nil {
		h.log.Warn("Profile update failed", "error", err, "user_id", callerID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
