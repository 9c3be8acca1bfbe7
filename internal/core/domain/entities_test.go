package domain

import "testing"

func TestInstallment(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		interest  float64
		weeks     int
		wantCents int64
	}{
		{"standard loan", 50000, 5.0, 10, 525000},
		{"six week loan", 30000, 4.0, 6, 520000},
		{"zero interest", 12000, 0, 12, 100000},
		{"rounds to cents", 1000, 7.5, 52, 2067},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Installment(tt.amount, tt.interest, tt.weeks)
			cents := int64(got*100 + 0.5)
			if cents != tt.wantCents {
				t.Fatalf("Installment(%v, %v, %d) = %v, want %d cents",
					tt.amount, tt.interest, tt.weeks, got, tt.wantCents)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleUser.Valid() {
		t.Fatal("expected admin and user roles to be valid")
	}
	if Role("officer").Valid() {
		t.Fatal("expected unknown role to be invalid")
	}
}

func TestIdentityIsAdmin(t *testing.T) {
	var nilIdentity *Identity
	if nilIdentity.IsAdmin() {
		t.Fatal("nil identity must not be admin")
	}
	if (&Identity{Role: RoleUser}).IsAdmin() {
		t.Fatal("user role must not be admin")
	}
	if !(&Identity{Role: RoleAdmin}).IsAdmin() {
		t.Fatal("admin role must be admin")
	}
}
