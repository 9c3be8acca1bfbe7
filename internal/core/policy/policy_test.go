package policy

import (
	"testing"

	"github.com/spmcdev/Daily-Collection/internal/core/domain"
)

var allResources = []Resource{ResourceLoans, ResourcePayments, ResourceUsers, ResourceBorrowerSummary}
var allActions = []Action{ActionRead, ActionWrite}

func TestAuthorizeNoIdentity(t *testing.T) {
	for _, res := range allResources {
		for _, act := range allActions {
			d := Authorize(nil, res, act, "")
			if d.Allowed {
				t.Fatalf("nil identity allowed on %s/%s", res, act)
			}
			if d.Reason != ReasonUnauthenticated {
				t.Fatalf("nil identity on %s/%s: reason %q, want %q", res, act, d.Reason, ReasonUnauthenticated)
			}
		}
	}
}

func TestAuthorizeAdminAllowsEverything(t *testing.T) {
	admin := &domain.Identity{UserID: 1, Username: "boss", Role: domain.RoleAdmin}
	for _, res := range allResources {
		for _, act := range allActions {
			if d := Authorize(admin, res, act, "someone-else"); !d.Allowed {
				t.Fatalf("admin denied on %s/%s: %q", res, act, d.Reason)
			}
		}
	}
}

func TestAuthorizeUserDeniedOnLedgerTables(t *testing.T) {
	user := &domain.Identity{UserID: 2, Username: "maria", Role: domain.RoleUser}
	for _, res := range []Resource{ResourceLoans, ResourcePayments, ResourceUsers} {
		for _, act := range allActions {
			d := Authorize(user, res, act, "")
			if d.Allowed {
				t.Fatalf("user allowed on %s/%s", res, act)
			}
			if d.Reason != ReasonAdminRequired {
				t.Fatalf("user on %s/%s: reason %q, want %q", res, act, d.Reason, ReasonAdminRequired)
			}
		}
	}
}

func TestAuthorizeUserBorrowerSummaryScope(t *testing.T) {
	user := &domain.Identity{UserID: 2, Username: "maria", Role: domain.RoleUser}

	if d := Authorize(user, ResourceBorrowerSummary, ActionRead, "maria"); !d.Allowed {
		t.Fatalf("user denied own summary: %q", d.Reason)
	}

	// Cross-borrower access is always forbidden, whether or not loans exist.
	for _, target := range []string{"jorge", "", "MARIA"} {
		d := Authorize(user, ResourceBorrowerSummary, ActionRead, target)
		if d.Allowed {
			t.Fatalf("user allowed summary for %q", target)
		}
		if d.Reason != ReasonCrossBorrower {
			t.Fatalf("summary for %q: reason %q, want %q", target, d.Reason, ReasonCrossBorrower)
		}
	}
}

// Every role/resource/action combination must produce a defined,
// deterministic decision.
func TestAuthorizeIsTotal(t *testing.T) {
	identities := []*domain.Identity{
		nil,
		{UserID: 1, Username: "boss", Role: domain.RoleAdmin},
		{UserID: 2, Username: "maria", Role: domain.RoleUser},
		{UserID: 3, Username: "ghost", Role: domain.Role("unknown")},
	}

	for _, id := range identities {
		for _, res := range allResources {
			for _, act := range allActions {
				first := Authorize(id, res, act, "maria")
				second := Authorize(id, res, act, "maria")
				if first != second {
					t.Fatalf("non-deterministic decision for %v/%s/%s", id, res, act)
				}
				if !first.Allowed && first.Reason == "" {
					t.Fatalf("denial without reason for %v/%s/%s", id, res, act)
				}
			}
		}
	}
}
