package repositories

import (
	"context"

	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetActiveByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CountActiveAdmins(ctx context.Context) (int64, error)
}

// SessionRepository defines session repository interface
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	List(ctx context.Context) ([]*models.Loan, error)
	ListByBorrower(ctx context.Context, borrowerID string) ([]*models.Loan, error)
	DeleteCascade(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	// CreateIdempotent inserts the payment unless one already exists for
	// its (loan_id, week) pair; the bool reports whether a row was created.
	CreateIdempotent(ctx context.Context, payment *models.Payment) (*models.Payment, bool, error)
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context) ([]*models.Payment, error)
	ListByLoanIDs(ctx context.Context, loanIDs []uint) ([]*models.Payment, error)
}
