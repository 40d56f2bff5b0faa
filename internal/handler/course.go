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

type CourseHandler struct {
	courseService service.CourseService
	log           logger.Logger
}

func NewCourseHandler(courseService service.CourseService, log logger.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		log:           log,
	}
}

// CourseResponse flattens the catalog listing for clients.
type CourseResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	InstructorID   uuid.UUID `json:"instructor_id"`
	InstructorName string    `json:"instructor_name"`
	SubjectName    string    `json:"subject_name"`
	Category       string    `json:"category"`
	BannerURL      string    `json:"banner_url"`
	Rating         float64   `json:"rating"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency"`
	Duration       string    `json:"duration"`
	Level          string    `json:"level"`
	Description    string    `json:"description"`
	TotalStudents  int       `json:"total_students"`
	CreatedAt      time.Time `json:"created_at"`
}

func toCourseResponse(listing *domain.CourseListing) CourseResponse {
	return CourseResponse{
		ID:             listing.Course.ID,
		Title:          listing.Course.Title,
		InstructorID:   listing.Course.InstructorID,
		InstructorName: listing.InstructorName,
		SubjectName:    listing.SubjectName,
		Category:       listing.Course.Category,
		BannerURL:      listing.Course.BannerURL,
		Rating:         listing.Course.Rating,
		Price:          listing.Course.Price,
		Currency:       listing.Course.Currency,
		Duration:       listing.Course.Duration,
		Level:          listing.Course.Level,
		Description:    listing.Course.Description,
		TotalStudents:  listing.Course.TotalStudents,
		CreatedAt:      listing.Course.CreatedAt,
	}
}

func (h *CourseHandler) List(c *gin.Context) {
	category := c.Query("category")

	listings, err := h.courseService.List(c.Request.Context(), category)
	if err != nil {
		respondError(c, err)
		return
	}

	courses := make([]CourseResponse, 0, len(listings))
	for _, listing := range listings {
		courses = append(courses, toCourseResponse(listing))
	}

	c.JSON(http.StatusOK, courses)
}
