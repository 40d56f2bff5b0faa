package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"peer_tutoring/internal/config"
	"peer_tutoring/internal/domain"
	"peer_tutoring/internal/repository"
	apperrors "peer_tutoring/pkg/errors"
	"peer_tutoring/pkg/jwt"
	"peer_tutoring/pkg/logger"
)

type AuthService interface {
	Signup(ctx context.Context, email, password, fullName string) (*AuthResponse, error)
	Signin(ctx context.Context, email, password string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*domain.User, error)
}

type AuthResponse struct {
	Token  string       `json:"token"`
	UserID string       `json:"userId"`
	User   *domain.User `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	log      logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, log logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		log:      log,
	}
}

func (s *authService) Signup(ctx context.Context, email, password, fullName string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)

	if email == "" || password == "" || fullName == "" {
		return nil, fmt.Errorf("%w: email, password and full_name are required", apperrors.ErrInvalidArgument)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email format", apperrors.ErrInvalidArgument)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrInvalidArgument)
	}
	if len(fullName) > 100 {
		return nil, fmt.Errorf("%w: full name is too long", apperrors.ErrInvalidArgument)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", "error", err)
		return nil, apperrors.ErrInternalServer
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &domain.Profile{
		UserID:    user.ID,
		FullName:  fullName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user, profile); err != nil {
		return nil, err
	}

	token, err := jwt.GenerateAccessToken(user.ID, user.Email, s.jwtCfg.Secret, s.jwtCfg.Issuer, s.jwtCfg.TTL)
	if err != nil {
		s.log.Error("Failed to generate token", "error", err)
		return nil, apperrors.ErrInternalServer
	}

	s.log.Info("User signed up", "user_id", user.ID, "email", user.Email)
	return &AuthResponse{Token: token, UserID: user.ID.String(), User: user}, nil
}

func (s *authService) Signin(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Same error whether the account exists or not
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(user.ID, user.Email, s.jwtCfg.Secret, s.jwtCfg.Issuer, s.jwtCfg.TTL)
	if err != nil {
		s.log.Error("Failed to generate token", "error", err)
		return nil, apperrors.ErrInternalServer
	}

	s.log.Info("User signed in", "user_id", user.ID)
	return &AuthResponse{Token: token, UserID: user.ID.String(), User: user}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := jwt.ValidateToken(tokenString, s.jwtCfg.Secret)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}
