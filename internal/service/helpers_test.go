package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"peer_tutoring/internal/config"
	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/repository"
	"peer_tutoring/pkg/logger"
)

type testEnv struct {
	services *Services
	repos    *repository.Repositories
	store    *repository.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

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
	return &testEnv{
		services: NewServices(repos, cfg, logger.New("error")),
		repos:    repos,
		store:    store,
	}
}

func (e *testEnv) signup(t *testing.T, email, fullName string) *domain.User {
	t.Helper()

	resp, err := e.services.Auth.Signup(context.Background(), email, "password123", fullName)
	require.NoError(t, err)
	return resp.User
}

func (e *testEnv) subject(t *testing.T, name string) *domain.Subject {
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

func (e *testEnv) pendingRequest(t *testing.T, from, to *domain.User, subject *domain.Subject) *domain.TutoringRequest {
	t.Helper()

	request, err := e.services.Request.Create(context.Background(), from.ID, from.ID, to.ID, subject.ID, "can you help me?")
	require.NoError(t, err)
	return request
}

func (e *testEnv) acceptedRequest(t *testing.T, from, to *domain.User, subject *domain.Subject) *domain.TutoringRequest {
	t.Helper()

	request := e.pendingRequest(t, from, to, subject)
	accepted, err := e.services.Request.UpdateStatus(context.Background(), to.ID, request.ID, domain.RequestStatusAccepted)
	require.NoError(t, err)
	return accepted
}
