package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"peer_tutoring/pkg/logger"
)

type Repositories struct {
	User      UserRepository
	Subject   SubjectRepository
	Request   RequestRepository
	ChatRoom  ChatRoomRepository
	Message   MessageRepository
	Course    CourseRepository
	Review    ReviewRepository
	RateLimit RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, rdb *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db, log),
		Subject:   NewSubjectRepository(db, log),
		Request:   NewRequestRepository(db, log),
		ChatRoom:  NewChatRoomRepository(db, log),
		Message:   NewMessageRepository(db, log),
		Course:    NewCourseRepository(db, log),
		Review:    NewReviewRepository(db, log),
		RateLimit: NewRateLimitRepository(rdb, log),
	}
}
