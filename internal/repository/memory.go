package repository

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"peer_tutoring/internal/domain"
	apperrors "peer_tutoring/pkg/errors"
)

// In-memory implementations of the repositories, guarded by a shared mutex so
// the read-then-write operations keep the same atomicity the SQL versions get
// from constraints and transactions. Used by tests and local development.

type MemoryStore struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]*domain.User
	profiles     map[uuid.UUID]*domain.Profile
	subjects     map[uuid.UUID]*domain.Subject
	userSubjects map[uuid.UUID][]*domain.UserSubject
	requests     map[uuid.UUID]*domain.TutoringRequest
	rooms        map[uuid.UUID]*domain.ChatRoom
	roomMembers  map[uuid.UUID][]uuid.UUID
	messages     map[uuid.UUID][]*domain.Message
	reads        map[uuid.UUID]map[uuid.UUID]time.Time // message -> reader -> read_at
	courses      map[uuid.UUID]*domain.Course
	reviews      map[uuid.UUID]*domain.CourseReview
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[uuid.UUID]*domain.User),
		profiles:     make(map[uuid.UUID]*domain.Profile),
		subjects:     make(map[uuid.UUID]*domain.Subject),
		userSubjects: make(map[uuid.UUID][]*domain.UserSubject),
		requests:     make(map[uuid.UUID]*domain.TutoringRequest),
		rooms:        make(map[uuid.UUID]*domain.ChatRoom),
		roomMembers:  make(map[uuid.UUID][]uuid.UUID),
		messages:     make(map[uuid.UUID][]*domain.Message),
		reads:        make(map[uuid.UUID]map[uuid.UUID]time.Time),
		courses:      make(map[uuid.UUID]*domain.Course),
		reviews:      make(map[uuid.UUID]*domain.CourseReview),
	}
}

func NewMemoryRepositories(store *MemoryStore) *Repositories {
	return &Repositories{
		User:     &memoryUserRepository{store: store},
		Subject:  &memorySubjectRepository{store: store},
		Request:  &memoryRequestRepository{store: store},
		ChatRoom: &memoryChatRoomRepository{store: store},
		Message:  &memoryMessageRepository{store: store},
		Course:   &memoryCourseRepository{store: store},
		Review:   &memoryReviewRepository{store: store},
	}
}

// --- users ---

type memoryUserRepository struct {
	store *MemoryStore
}

func (r *memoryUserRepository) Create(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperrors.ErrEmailTaken
		}
	}

	u := *user
	p := *profile
	r.store.users[user.ID] = &u
	r.store.profiles[profile.UserID] = &p
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if strings.EqualFold(user.Email, email) {
			u := *user
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memoryUserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	profile, ok := r.store.profiles[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	p := *profile
	return &p, nil
}

func (r *memoryUserRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.profiles[profile.UserID]; !ok {
		return apperrors.ErrNotFound
	}
	profile.UpdatedAt = time.Now()
	p := *profile
	r.store.profiles[profile.UserID] = &p
	return nil
}

// --- subjects ---

type memorySubjectRepository struct {
	store *MemoryStore
}

func (r *memorySubjectRepository) List(ctx context.Context) ([]*domain.Subject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	subjects := make([]*domain.Subject, 0, len(r.store.subjects))
	for _, subject := range r.store.subjects {
		s := *subject
		subjects = append(subjects, &s)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (r *memorySubjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	subject, ok := r.store.subjects[id]
	if !ok {
		return nil, apperrors.ErrSubjectNotFound
	}
	s := *subject
	return &s, nil
}

func (r *memorySubjectRepository) FindOrCreateByName(ctx context.Context, subject *domain.Subject) (*domain.Subject, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.subjects {
		if existing.Name == subject.Name {
			s := *existing
			return &s, nil
		}
	}

	s := *subject
	r.store.subjects[subject.ID] = &s
	result := s
	return &result, nil
}

func (r *memorySubjectRepository) ListUserSubjects(ctx context.Context, userID uuid.UUID) ([]*domain.UserSubjectListing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var listings []*domain.UserSubjectListing
	for _, us := range r.store.userSubjects[userID] {
		subject, ok := r.store.subjects[us.SubjectID]
		if !ok {
			continue
		}
		listings = append(listings, &domain.UserSubjectListing{UserSubject: *us, Subject: *subject})
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Subject.Name < listings[j].Subject.Name })
	return listings, nil
}

func (r *memorySubjectRepository) ReplaceUserSubjects(ctx context.Context, userID uuid.UUID, subjects []*domain.UserSubject) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	replacement := make([]*domain.UserSubject, 0, len(subjects))
	seen := make(map[uuid.UUID]bool)
	for _, us := range subjects {
		if seen[us.SubjectID] {
			continue
		}
		seen[us.SubjectID] = true
		copied := *us
		replacement = append(replacement, &copied)
	}
	r.store.userSubjects[userID] = replacement
	return nil
}

// --- tutoring requests ---

type memoryRequestRepository struct {
	store *MemoryStore
}

func (r *memoryRequestRepository) Create(ctx context.Context, request *domain.TutoringRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	req := *request
	r.store.requests[request.ID] = &req
	return nil
}

func (r *memoryRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TutoringRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	request, ok := r.store.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	req := *request
	return &req, nil
}

func (r *memoryRequestRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.EnrichedRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var requests []*domain.EnrichedRequest
	for _, request := range r.store.requests {
		if request.FromUserID != userID && request.ToUserID != userID {
			continue
		}

		enriched := &domain.EnrichedRequest{
			ID:         request.ID,
			FromUserID: request.FromUserID,
			ToUserID:   request.ToUserID,
			SubjectID:  request.SubjectID,
			Message:    request.Message,
			Status:     request.Status,
			CreatedAt:  request.CreatedAt,
			UpdatedAt:  request.UpdatedAt,
		}
		if from, ok := r.store.users[request.FromUserID]; ok {
			enriched.FromUserName = from.FullName
		}
		if to, ok := r.store.users[request.ToUserID]; ok {
			enriched.ToUserName = to.FullName
		}
		if subject, ok := r.store.subjects[request.SubjectID]; ok {
			enriched.SubjectName = subject.Name
		}
		enriched.IsFromCurrentUser = request.FromUserID == userID
		if enriched.IsFromCurrentUser {
			enriched.OtherName = enriched.ToUserName
			enriched.CurrentUserName = enriched.FromUserName
		} else {
			enriched.OtherName = enriched.FromUserName
			enriched.CurrentUserName = enriched.ToUserName
		}
		requests = append(requests, enriched)
	}

	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.After(requests[j].CreatedAt) })
	return requests, nil
}

func (r *memoryRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.TutoringRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	request, ok := r.store.requests[id]
	if !ok || request.Status != domain.RequestStatusPending {
		return nil, apperrors.ErrRequestNotFound
	}

	request.Status = status
	request.UpdatedAt = time.Now()
	req := *request
	return &req, nil
}

func (r *memoryRequestRepository) HasAcceptedBetween(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, request := range r.store.requests {
		if request.Status != domain.RequestStatusAccepted {
			continue
		}
		if (request.FromUserID == userA && request.ToUserID == userB) ||
			(request.FromUserID == userB && request.ToUserID == userA) {
			return true, nil
		}
	}
	return false, nil
}

// --- chat rooms ---

type memoryChatRoomRepository struct {
	store *MemoryStore
}

func (r *memoryChatRoomRepository) GetOrCreateForRequest(ctx context.Context, room *domain.ChatRoom, participantIDs []uuid.UUID) (*domain.ChatRoom, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.rooms {
		if existing.TutoringRequestID != nil && room.TutoringRequestID != nil &&
			*existing.TutoringRequestID == *room.TutoringRequestID {
			found := *existing
			return &found, false, nil
		}
	}

	created := *room
	r.store.rooms[room.ID] = &created
	r.store.roomMembers[room.ID] = append([]uuid.UUID(nil), participantIDs...)
	result := created
	return &result, true, nil
}

func (r *memoryChatRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	room, ok := r.store.rooms[id]
	if !ok {
		return nil, apperrors.ErrRoomNotFound
	}
	result := *room
	return &result, nil
}

func (r *memoryChatRoomRepository) GetParticipants(ctx context.Context, roomID uuid.UUID) ([]domain.RoomParticipant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.participantsLocked(roomID), nil
}

func (r *memoryChatRoomRepository) participantsLocked(roomID uuid.UUID) []domain.RoomParticipant {
	var participants []domain.RoomParticipant
	for _, userID := range r.store.roomMembers[roomID] {
		p := domain.RoomParticipant{UserID: userID}
		if user, ok := r.store.users[userID]; ok {
			p.FullName = user.FullName
		}
		participants = append(participants, p)
	}
	sort.Slice(participants, func(i, j int) bool { return participants[i].FullName < participants[j].FullName })
	return participants
}

func (r *memoryChatRoomRepository) IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, id := range r.store.roomMembers[roomID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryChatRoomRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RoomListing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var listings []*domain.RoomListing
	for roomID, members := range r.store.roomMembers {
		room, ok := r.store.rooms[roomID]
		if !ok || !room.IsActive {
			continue
		}

		isMember := false
		for _, id := range members {
			if id == userID {
				isMember = true
				break
			}
		}
		if !isMember {
			continue
		}

		listing := &domain.RoomListing{
			Room:         *room,
			Participants: r.participantsLocked(roomID),
		}
		if room.TutoringRequestID != nil {
			if request, ok := r.store.requests[*room.TutoringRequestID]; ok {
				if subject, ok := r.store.subjects[request.SubjectID]; ok {
					name := subject.Name
					listing.SubjectName = &name
				}
			}
		}
		listings = append(listings, listing)
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Room.LastActivity.After(listings[j].Room.LastActivity)
	})
	return listings, nil
}

// --- messages ---

type memoryMessageRepository struct {
	store *MemoryStore
}

func (r *memoryMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	msg := *message
	if sender, ok := r.store.users[message.SenderID]; ok {
		msg.SenderName = sender.FullName
	}
	r.store.messages[message.ChatRoomID] = append(r.store.messages[message.ChatRoomID], &msg)

	if room, ok := r.store.rooms[message.ChatRoomID]; ok {
		if message.CreatedAt.After(room.LastActivity) {
			room.LastActivity = message.CreatedAt
		}
	}
	return nil
}

func (r *memoryMessageRepository) ListPage(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*domain.Message, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := r.store.messages[roomID]
	newestFirst := make([]*domain.Message, len(all))
	for i, msg := range all {
		copied := *msg
		newestFirst[len(all)-1-i] = &copied
	}

	if offset >= len(newestFirst) {
		return nil, nil
	}
	end := offset + limit
	if end > len(newestFirst) {
		end = len(newestFirst)
	}
	return newestFirst[offset:end], nil
}

func (r *memoryMessageRepository) MarkAllRead(ctx context.Context, roomID, userID uuid.UUID, readAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, msg := range r.store.messages[roomID] {
		readers, ok := r.store.reads[msg.ID]
		if !ok {
			readers = make(map[uuid.UUID]time.Time)
			r.store.reads[msg.ID] = readers
		}
		if _, already := readers[userID]; !already {
			readers[userID] = readAt
		}
	}
	return nil
}

func (r *memoryMessageRepository) UnreadCount(ctx context.Context, roomID, userID uuid.UUID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, msg := range r.store.messages[roomID] {
		if msg.SenderID == userID {
			continue
		}
		if _, read := r.store.reads[msg.ID][userID]; !read {
			count++
		}
	}
	return count, nil
}

// --- courses ---

type memoryCourseRepository struct {
	store *MemoryStore
}

// AddCourse seeds a course directly; the serving path never creates courses.
func (s *MemoryStore) AddCourse(course *domain.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *course
	s.courses[course.ID] = &copied
}

func (r *memoryCourseRepository) List(ctx context.Context, category string, limit int) ([]*domain.CourseListing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var listings []*domain.CourseListing
	for _, course := range r.store.courses {
		if category != "" && course.Category != category {
			continue
		}
		listing := &domain.CourseListing{Course: *course}
		if instructor, ok := r.store.users[course.InstructorID]; ok {
			listing.InstructorName = instructor.FullName
		}
		if subject, ok := r.store.subjects[course.SubjectID]; ok {
			listing.SubjectName = subject.Name
		}
		listings = append(listings, listing)
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Course.CreatedAt.After(listings[j].Course.CreatedAt)
	})
	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}
	return listings, nil
}

func (r *memoryCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	course, ok := r.store.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	result := *course
	return &result, nil
}

// --- reviews ---

type memoryReviewRepository struct {
	store *MemoryStore
}

func (r *memoryReviewRepository) Upsert(ctx context.Context, review *domain.CourseReview) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.reviews {
		if existing.CourseID == review.CourseID && existing.ReviewerID == review.ReviewerID {
			review.ID = existing.ID
			review.CreatedAt = existing.CreatedAt
			review.UpdatedAt = time.Now()
			copied := *review
			r.store.reviews[existing.ID] = &copied
			r.refreshCourseRatingLocked(review.CourseID)
			return nil
		}
	}

	copied := *review
	r.store.reviews[review.ID] = &copied
	r.refreshCourseRatingLocked(review.CourseID)
	return nil
}

func (r *memoryReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CourseReview, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	review, ok := r.store.reviews[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *review
	return &copied, nil
}

func (r *memoryReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	review, ok := r.store.reviews[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	delete(r.store.reviews, id)
	r.refreshCourseRatingLocked(review.CourseID)
	return nil
}

// refreshCourseRatingLocked recomputes the course's average rating rounded to
// one decimal, falling back to the default when no reviews remain.
func (r *memoryReviewRepository) refreshCourseRatingLocked(courseID uuid.UUID) {
	course, ok := r.store.courses[courseID]
	if !ok {
		return
	}

	var sum, count int
	for _, review := range r.store.reviews {
		if review.CourseID == courseID {
			sum += review.Rating
			count++
		}
	}

	if count == 0 {
		course.Rating = domain.DefaultCourseRating
	} else {
		course.Rating = math.Round(float64(sum)/float64(count)*10) / 10
	}
	course.UpdatedAt = time.Now()
}

func (r *memoryReviewRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.ReviewListing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var listings []*domain.ReviewListing
	for _, review := range r.store.reviews {
		if review.CourseID != courseID {
			continue
		}
		listing := &domain.ReviewListing{Review: *review}
		if reviewer, ok := r.store.users[review.ReviewerID]; ok {
			listing.ReviewerName = reviewer.FullName
		}
		listings = append(listings, listing)
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Review.CreatedAt.After(listings[j].Review.CreatedAt)
	})
	return listings, nil
}
