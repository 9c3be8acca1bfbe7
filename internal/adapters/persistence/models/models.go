package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/spmcdev/Daily-Collection/internal/core/domain"
)

// User represents the users table. Accounts are created by admins;
// user-role accounts are linked to a borrower through borrower_name.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:'user'" json:"role"`
	BorrowerName *string   `gorm:"size:255" json:"borrower_name"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Identity builds the session-bound identity for this user.
func (u *User) Identity() *domain.Identity {
	borrower := ""
	if u.BorrowerName != nil {
		borrower = *u.BorrowerName
	}
	return &domain.Identity{
		UserID:       u.ID,
		Username:     u.Username,
		Role:         domain.Role(u.Role),
		BorrowerName: borrower,
	}
}

// UserResponse is the public account view; it never carries the hash.
type UserResponse struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	BorrowerName *string   `json:"borrower_name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Role:         u.Role,
		BorrowerName: u.BorrowerName,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

// Loan represents the loans table. Deleting a loan cascades to its
// payments explicitly (payments first) inside one transaction.
type Loan struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BorrowerID string    `gorm:"size:50;not null;index" json:"borrower_id"`
	Borrower   string    `gorm:"size:255;not null" json:"borrower"`
	Amount     float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Interest   float64   `gorm:"type:decimal(5,2);not null" json:"interest"`
	Weeks      int       `gorm:"not null" json:"weeks"`
	StartDate  string    `gorm:"type:date;not null" json:"start_date"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}

// Installment returns the computed weekly installment for this loan.
func (l *Loan) Installment() float64 {
	return domain.Installment(l.Amount, l.Interest, l.Weeks)
}

// Payment represents the payments table. The (loan_id, week) pair is
// unique so recording the same weekly collection twice is a no-op.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LoanID    uint      `gorm:"not null;index;uniqueIndex:uniq_loan_week" json:"loan_id"`
	Week      int       `gorm:"not null;uniqueIndex:uniq_loan_week" json:"week"`
	Amount    float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Date      string    `gorm:"column:payment_date;type:date;not null" json:"date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// Session represents the sessions table: server-side state keyed by an
// opaque token. Rows past expires_at are treated as missing and swept
// by the cleanup cron.
type Session struct {
	Token        string    `gorm:"primaryKey;size:36" json:"-"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Username     string    `gorm:"size:50;not null" json:"username"`
	Role         string    `gorm:"size:20;not null" json:"role"`
	BorrowerName *string   `gorm:"size:255" json:"borrower_name"`
	ExpiresAt    time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// IsExpired reports whether the session is past its TTL.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Identity builds the identity bound to this session.
func (s *Session) Identity() *domain.Identity {
	borrower := ""
	if s.BorrowerName != nil {
		borrower = *s.BorrowerName
	}
	return &domain.Identity{
		UserID:       s.UserID,
		Username:     s.Username,
		Role:         domain.Role(s.Role),
		BorrowerName: borrower,
	}
}

// AutoMigrate creates or updates the four ledger tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Loan{},
		&Payment{},
		&Session{},
	)
}
