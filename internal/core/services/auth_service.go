package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/models"
	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/repositories"
	"github.com/spmcdev/Daily-Collection/internal/config"
	"github.com/spmcdev/Daily-Collection/internal/core/domain"
	"github.com/spmcdev/Daily-Collection/internal/pkg/password"
)

// AuthService is the session manager: it authenticates credentials and
// owns the lifecycle of server-side sessions.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the new session and the public user view.
type LoginResult struct {
	Session *models.Session
	User    *models.User
}

// Login authenticates a user and issues a session bound to its identity.
// A missing user, an inactive account and a wrong password all collapse
// into the same ErrInvalidCredentials so the response shape leaks nothing.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetActiveByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	session := &models.Session{
		Token:        uuid.New().String(),
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		BorrowerName: user.BorrowerName,
		ExpiresAt:    time.Now().Add(s.cfg.Session.TTL),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)

	return &LoginResult{Session: session, User: user}, nil
}

// Logout destroys the session for the given token. Destroying a missing
// or already-destroyed session is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, token); err != nil {
		return err
	}
	log.Printf("✅ Session destroyed")
	return nil
}

// Resolve returns the identity bound to a session token, or nil when the
// token is missing, unknown or expired. It never fails for a bad token;
// only storage errors are reported.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if session.IsExpired() {
		// Eagerly drop the stale row; the cron sweep catches the rest.
		_ = s.sessionRepo.Delete(ctx, token)
		return nil, nil
	}

	return session.Identity(), nil
}
