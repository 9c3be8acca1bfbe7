// Package policy holds the pure authorization decision function for the
// loan ledger API. It has no dependencies beyond the domain types so the
// full decision table can be tested exhaustively.
package policy

import "github.com/spmcdev/Daily-Collection/internal/core/domain"

// Resource identifies a protected resource class.
type Resource string

const (
	ResourceLoans           Resource = "loans"
	ResourcePayments        Resource = "payments"
	ResourceUsers           Resource = "users"
	ResourceBorrowerSummary Resource = "borrower-summary"
)

// Action identifies what the caller wants to do with a resource.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// Reason explains a denial.
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonAdminRequired   Reason = "admin_required"
	ReasonCrossBorrower   Reason = "forbidden_cross_borrower"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny creates a negative decision with a reason.
func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize decides whether identity may perform action on resource.
// targetBorrowerID is only consulted for the borrower-summary resource.
// The function is total: every (role, resource, action) combination maps
// to a decision, and unknown combinations default to deny.
func Authorize(identity *domain.Identity, resource Resource, action Action, targetBorrowerID string) Decision {
	if identity == nil {
		return Deny(ReasonUnauthenticated)
	}

	if identity.Role == domain.RoleAdmin {
		return Allow
	}

	if identity.Role == domain.RoleUser && resource == ResourceBorrowerSummary {
		// Regular users only see their own aggregated summary; the
		// borrower id of a user account is its username.
		if targetBorrowerID == identity.Username {
			return Allow
		}
		return Deny(ReasonCrossBorrower)
	}

	// Regular users never touch the raw ledger or user tables, and any
	// role/resource combination not spelled out above is denied.
	return Deny(ReasonAdminRequired)
}
