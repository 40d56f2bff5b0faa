package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"peer_tutoring/internal/config"
	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/middleware"
	"peer_tutoring/internal/repository"
	"peer_tutoring/internal/service"
	"peer_tutoring/pkg/logger"
)

type httpEnv struct {
	router   *gin.Engine
	services *service.Services
	repos    *repository.Repositories
	store    *repository.MemoryStore
}

type testUser struct {
	ID    uuid.UUID
	Token string
}

func newHTTPEnv(t *testing.T) *httpEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	repos := repository.NewMemoryRepositories(store)
	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			Secret: "test_secret_0123456789",
			TTL:    time.Hour,
			Issuer: "peer-tutoring-test",
		},
	}
	log := logger.New("error")
	services := service.NewServices(repos, cfg, log)
	handlers := NewHandlers(services, cfg, log)
	authMiddleware := middleware.NewAuthMiddleware(services.Auth, log)

	router := gin.New()
	router.GET("/health", handlers.Health.Check)

	auth := router.Group("/api/v1/auth")
	auth.POST("/signup", handlers.Auth.Signup)
	auth.POST("/signin", handlers.Auth.Signin)

	router.GET("/api/v1/subjects", handlers.Subject.List)
	router.GET("/api/v1/courses", handlers.Course.List)
	router.GET("/api/v1/reviews/course/:courseId", handlers.Review.ListByCourse)

	protected := router.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/api/v1/reviews", handlers.Review.Submit)
		protected.DELETE("/api/v1/reviews/:reviewId", handlers.Review.Delete)
		protected.DELETE("/api/v1/subjects/user/:userId", handlers.Subject.ClearUserSubjects)

		protected.POST("/tutoring-requests", handlers.Tutoring.Create)
		protected.GET("/tutoring-requests/user/:userId", handlers.Tutoring.ListByUser)
		protected.PATCH("/tutoring-requests/:id", handlers.Tutoring.UpdateStatus)

		protected.POST("/chat/rooms", handlers.Chat.CreateRoom)
		protected.GET("/chat/rooms", handlers.Chat.ListRooms)
		protected.GET("/chat/rooms/:roomId/messages", handlers.Chat.GetMessages)
		protected.POST("/chat/rooms/:roomId/messages", handlers.Chat.SendMessage)
		protected.PATCH("/chat/rooms/:roomId/read", handlers.Chat.MarkRead)
	}

	return &httpEnv{router: router, services: services, repos: repos, store: store}
}

func (e *httpEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (e *httpEnv) signup(t *testing.T, email, fullName string) testUser {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":     email,
		"password":  "password123",
		"full_name": fullName,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeJSON[service.AuthResponse](t, rec)
	id, err := uuid.Parse(resp.UserID)
	require.NoError(t, err)
	return testUser{ID: id, Token: resp.Token}
}

func (e *httpEnv) subject(t *testing.T, name string) *domain.Subject {
	t.Helper()

	now := time.Now()
	subject, err := e.repos.Subject.FindOrCreateByName(context.Background(), &domain.Subject{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return subject
}
