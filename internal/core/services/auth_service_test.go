package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/models"
	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/repositories"
	"github.com/spmcdev/Daily-Collection/internal/core/domain"
	"github.com/spmcdev/Daily-Collection/internal/pkg/password"
)

func newTestAuth(t *testing.T) (*AuthService, repositories.UserRepository, repositories.SessionRepository) {
	db := openTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	return NewAuthService(userRepo, sessionRepo, testConfig()), userRepo, sessionRepo
}

func seedUser(t *testing.T, userRepo repositories.UserRepository, username, pass, role string, active bool) *models.User {
	t.Helper()
	hash, err := password.Hash(pass)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func TestLoginIssuesSession(t *testing.T) {
	auth, userRepo, _ := newTestAuth(t)
	ctx := context.Background()

	seedUser(t, userRepo, "admin", "admin123456", "admin", true)

	result, err := auth.Login(ctx, &LoginInput{Username: "admin", Password: "admin123456"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Session.Token == "" {
		t.Fatal("expected a session token")
	}
	if result.User.Username != "admin" {
		t.Errorf("unexpected user: %+v", result.User)
	}

	identity, err := auth.Resolve(ctx, result.Session.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity == nil || identity.Username != "admin" || !identity.IsAdmin() {
		t.Errorf("unexpected identity: %+v", identity)
	}
}

func TestLoginRejectionsAreIndistinguishable(t *testing.T) {
	auth, userRepo, _ := newTestAuth(t)
	ctx := context.Background()

	seedUser(t, userRepo, "admin", "admin123456", "admin", true)
	seedUser(t, userRepo, "benched", "benched12345", "user", false)

	cases := []struct {
		name  string
		input LoginInput
	}{
		{"unknown user", LoginInput{Username: "ghost", Password: "whatever123"}},
		{"wrong password", LoginInput{Username: "admin", Password: "not-the-one"}},
		{"inactive account", LoginInput{Username: "benched", Password: "benched12345"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Login(ctx, &tc.input)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestResolveUnknownAndEmptyToken(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	identity, err := auth.Resolve(ctx, "")
	if err != nil || identity != nil {
		t.Errorf("empty token: identity=%v err=%v", identity, err)
	}

	identity, err = auth.Resolve(ctx, "no-such-token")
	if err != nil || identity != nil {
		t.Errorf("unknown token: identity=%v err=%v", identity, err)
	}
}

func TestResolveExpiredSession(t *testing.T) {
	auth, userRepo, sessionRepo := newTestAuth(t)
	ctx := context.Background()

	user := seedUser(t, userRepo, "admin", "admin123456", "admin", true)

	session := &models.Session{
		Token:     "11111111-2222-3333-4444-555555555555",
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := sessionRepo.Create(ctx, session); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	identity, err := auth.Resolve(ctx, session.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity != nil {
		t.Errorf("expired session resolved to %+v", identity)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	auth, userRepo, _ := newTestAuth(t)
	ctx := context.Background()

	seedUser(t, userRepo, "admin", "admin123456", "admin", true)
	result, err := auth.Login(ctx, &LoginInput{Username: "admin", Password: "admin123456"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	token := result.Session.Token

	if err := auth.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if identity, _ := auth.Resolve(ctx, token); identity != nil {
		t.Error("session survived logout")
	}

	// Destroying it again, or destroying nothing, is not an error.
	if err := auth.Logout(ctx, token); err != nil {
		t.Errorf("repeat Logout: %v", err)
	}
	if err := auth.Logout(ctx, ""); err != nil {
		t.Errorf("empty Logout: %v", err)
	}
}
