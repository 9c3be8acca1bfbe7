package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("collect-2025")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "collect-2025" {
		t.Fatal("hash must not equal the plain password")
	}
	if !Verify("collect-2025", hash) {
		t.Fatal("expected password to match")
	}
	if Verify("wrong-password", hash) {
		t.Fatal("expected password mismatch")
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("short") {
		t.Fatal("expected short password to be rejected")
	}
	if !ValidatePassword("longenough") {
		t.Fatal("expected 8+ char password to be accepted")
	}
}
