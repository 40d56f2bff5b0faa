package service

import (
	"peer_tutoring/internal/config"
	"peer_tutoring/internal/repository"
	"peer_tutoring/pkg/logger"
)

type Services struct {
	Auth      AuthService
	Profile   ProfileService
	Subject   SubjectService
	Request   RequestService
	ChatRoom  ChatRoomService
	Message   MessageService
	Course    CourseService
	Review    ReviewService
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	return &Services{
		Auth:      NewAuthService(repos.User, cfg.JWT, log),
		Profile:   NewProfileService(repos.User, log),
		Subject:   NewSubjectService(repos.Subject, log),
		Request:   NewRequestService(repos.Request, repos.User, repos.Subject, log),
		ChatRoom:  NewChatRoomService(repos.ChatRoom, repos.Request, repos.Message, log),
		Message:   NewMessageService(repos.Message, repos.ChatRoom, repos.User, log),
		Course:    NewCourseService(repos.Course, log),
		Review:    NewReviewService(repos.Review, repos.Course, repos.Request, log),
		RateLimit: NewRateLimitService(repos.RateLimit, log),
	}
}
