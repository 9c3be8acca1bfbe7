package domain

import "math"

// Role represents user role in the system
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Identity is the authenticated caller resolved from a session token.
type Identity struct {
	UserID       uint   `json:"id"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	BorrowerName string `json:"borrower_name"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Installment computes the weekly installment for a loan:
// amount × (1 + interest/100) / weeks, rounded half-up to 2 decimals.
// interest is a percentage of the principal over the whole term.
func Installment(amount, interest float64, weeks int) float64 {
	total := amount * (1 + interest/100)
	return math.Round(total/float64(weeks)*100) / 100
}
