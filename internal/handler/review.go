package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/service"
	"peer_tutoring/pkg/logger"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	log           logger.Logger
}

func NewReviewHandler(reviewService service.ReviewService, log logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		log:           log,
	}
}

type SubmitReviewRequest struct {
	CourseID    uuid.UUID  `json:"course_id" binding:"required"`
	Rating      int        `json:"rating" binding:"required"`
	Comment     string     `json:"comment"`
	SessionDate *time.Time `json:"session_date"`
}

// ReviewResponse carries the reviewer's name alongside the review.
type ReviewResponse struct {
	ID           uuid.UUID  `json:"id"`
	CourseID     uuid.UUID  `json:"course_id"`
	ReviewerID   uuid.UUID  `json:"reviewer_id"`
	ReviewerName string     `json:"reviewer_name"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
	SessionDate  *time.Time `json:"session_date,omitempty"`
	IsVerified   bool       `json:"is_verified"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toReviewResponse(listing *domain.ReviewListing) ReviewResponse {
	return ReviewResponse{
		ID:           listing.Review.ID,
		CourseID:     listing.Review.CourseID,
		ReviewerID:   listing.Review.ReviewerID,
		ReviewerName: listing.ReviewerName,
		Rating:       listing.Review.Rating,
		Comment:      listing.Review.Comment,
		SessionDate:  listing.Review.SessionDate,
		IsVerified:   listing.Review.IsVerified,
		CreatedAt:    listing.Review.CreatedAt,
		UpdatedAt:    listing.Review.UpdatedAt,
	}
}

func (h *ReviewHandler) Submit(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	review, err := h.reviewService.Submit(c.Request.Context(), callerID, req.CourseID, req.Rating, req.Comment, req.SessionDate)
	if err != nil {
		h.log.Warn("Review submission failed", "error", err, "course_id", req.CourseID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	callerID, ok := callerID(c)
	if !ok {
		return
	}

	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), callerID, reviewID); err != nil {
		h.log.Warn("Review deletion failed", "error", err, "review_id", reviewID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ReviewHandler) ListByCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course ID"})
		return
	}

	listings, err := h.reviewService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}

	reviews := make([]ReviewResponse, 0, len(listings))
	for _, listing := range listings {
		reviews = append(reviews, toReviewResponse(listing))
	}

	c.JSON(http.StatusOK, reviews)
}
