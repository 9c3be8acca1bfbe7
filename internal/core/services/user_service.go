package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/models"
	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/repositories"
	"github.com/spmcdev/Daily-Collection/internal/core/domain"
	"github.com/spmcdev/Daily-Collection/internal/pkg/password"
)

// UserService handles admin-side account management. Every mutation
// enforces the invariant that at least one active admin exists.
type UserService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// CreateUserInput represents user creation input
type CreateUserInput struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	BorrowerName *string `json:"borrower_name"`
}

// Validate checks account fields
func (in *CreateUserInput) Validate() error {
	if in.Username == "" {
		return domain.NewValidationError("username", "is required")
	}
	if !password.ValidatePassword(in.Password) {
		return domain.NewValidationError("password", "must be at least 8 characters")
	}
	if !domain.Role(in.Role).Valid() {
		return domain.NewValidationError("role", "must be admin or user")
	}
	return nil
}

// ListUsers lists users with pagination.
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return responses, total, nil
}

// CreateUser creates an account. Usernames are unique and immutable.
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*models.UserResponse, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: hash,
		Role:         input.Role,
		BorrowerName: input.BorrowerName,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created: %s (role=%s)", user.Username, user.Role)
	return user.ToResponse(), nil
}

// ResetPassword replaces a user's password hash.
func (s *UserService) ResetPassword(ctx context.Context, userID uint, newPassword string) error {
	if !password.ValidatePassword(newPassword) {
		return domain.NewValidationError("new_password", "must be at least 8 characters")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Password reset for user: %s", user.Username)
	return nil
}

// ToggleActive flips a user's active flag. Deactivating the last active
// admin is refused.
func (s *UserService) ToggleActive(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.IsActive {
		if err := s.guardLastAdmin(ctx, user); err != nil {
			return nil, err
		}
	}

	user.IsActive = !user.IsActive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// A deactivated account must not keep a live session.
	if !user.IsActive {
		_ = s.sessionRepo.DeleteByUserID(ctx, user.ID)
	}

	return user.ToResponse(), nil
}

// UpdateRole changes a user's role. Demoting the last active admin is
// refused.
func (s *UserService) UpdateRole(ctx context.Context, userID uint, role string) (*models.UserResponse, error) {
	if !domain.Role(role).Valid() {
		return nil, domain.NewValidationError("role", "must be admin or user")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role == string(domain.RoleAdmin) && role != string(domain.RoleAdmin) {
		if err := s.guardLastAdmin(ctx, user); err != nil {
			return nil, err
		}
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Existing sessions carry the old role; force a fresh login.
	_ = s.sessionRepo.DeleteByUserID(ctx, user.ID)

	return user.ToResponse(), nil
}

// DeleteUser hard-deletes an account. Deleting the last active admin is
// refused.
func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.guardLastAdmin(ctx, user); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	_ = s.sessionRepo.DeleteByUserID(ctx, userID)

	log.Printf("🗑️ User deleted: %s", user.Username)
	return nil
}

func (s *UserService) getUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// guardLastAdmin refuses mutations that would leave the system without
// an active admin.
func (s *UserService) guardLastAdmin(ctx context.Context, user *models.User) error {
	if user.Role != string(domain.RoleAdmin) || !user.IsActive {
		return nil
	}
	count, err := s.userRepo.CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return domain.ErrLastAdmin
	}
	return nil
}
