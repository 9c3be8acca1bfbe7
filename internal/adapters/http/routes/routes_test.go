package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spmcdev/Daily-Collection/internal/adapters/http/middleware"
	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/models"
	"github.com/spmcdev/Daily-Collection/internal/config"
	"github.com/spmcdev/Daily-Collection/internal/pkg/password"
)

const sessionCookie = "session_token"

// setupTestApp wires the full API against the database named by
// TEST_DATABASE_DSN, with a seeded admin and a seeded borrower account.
// Tests skip when the DSN is unset.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping database test")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	for _, table := range []string{"payments", "loans", "sessions", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("reset table %s: %v", table, err)
		}
	}

	seedTestUser(t, db, "admin", "admin123456", "admin", nil)
	borrower := "jorge"
	seedTestUser(t, db, "jorge", "longenough", "user", &borrower)

	cfg := &config.Config{
		AppMode: "dev",
		Port:    "0",
		Session: config.SessionConfig{
			TTL:            time.Hour,
			CookieName:     sessionCookie,
			CookieSameSite: "lax",
		},
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.CustomErrorHandler,
	})
	Setup(app, db, cfg)
	return app
}

func seedTestUser(t *testing.T, db *gorm.DB, username, pass, role string, borrowerName *string) {
	t.Helper()
	hash, err := password.Hash(pass)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		BorrowerName: borrowerName,
		IsActive:     true,
	}
	if err := db.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	resp.Body.Close()

	parsed := map[string]json.RawMessage{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("unmarshal response %q: %v", raw, err)
		}
	} else {
		parsed["_raw"] = raw
	}
	return resp, parsed
}

func login(t *testing.T, app *fiber.App, username, pass string) string {
	t.Helper()

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth", "", fiber.Map{
		"action":   "login",
		"username": username,
		"password": pass,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", username, resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("login response carries no session cookie")
	return ""
}

func errorMessage(t *testing.T, body map[string]json.RawMessage) string {
	t.Helper()
	var msg string
	if err := json.Unmarshal(body["error"], &msg); err != nil {
		t.Fatalf("response has no error field: %v", body)
	}
	return msg
}

func TestAuthLifecycle(t *testing.T) {
	app := setupTestApp(t)

	token := login(t, app, "admin", "admin123456")

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth", token, fiber.Map{"action": "check"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("check: status %d", resp.StatusCode)
	}
	var authed bool
	if err := json.Unmarshal(body["authenticated"], &authed); err != nil || !authed {
		t.Errorf("expected authenticated=true, body %v", body)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth", token, fiber.Map{"action": "logout"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: status %d", resp.StatusCode)
	}

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth", token, fiber.Map{"action": "check"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("check after logout: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body["authenticated"], &authed); err != nil || authed {
		t.Errorf("expected authenticated=false after logout, body %v", body)
	}
}

func TestLoginFailuresShareOneBody(t *testing.T) {
	app := setupTestApp(t)

	attempts := []fiber.Map{
		{"action": "login", "username": "ghost", "password": "whatever123"},
		{"action": "login", "username": "admin", "password": "not-the-one"},
	}

	for _, attempt := range attempts {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth", "", attempt)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("login %v: status %d, want 401", attempt["username"], resp.StatusCode)
		}
		if msg := errorMessage(t, body); msg != "Invalid credentials" {
			t.Errorf("login %v: error %q, want %q", attempt["username"], msg, "Invalid credentials")
		}
	}
}

func TestLedgerRequiresAdmin(t *testing.T) {
	app := setupTestApp(t)

	// Anonymous callers get 401.
	resp, body := doJSON(t, app, http.MethodGet, "/api/loans", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous GET /api/loans: status %d, want 401", resp.StatusCode)
	}
	if msg := errorMessage(t, body); msg != "Authentication required" {
		t.Errorf("anonymous error %q", msg)
	}

	// A user-role session gets 403 on every ledger route.
	token := login(t, app, "jorge", "longenough")
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/loans"},
		{http.MethodPost, "/api/loans"},
		{http.MethodGet, "/api/payments"},
		{http.MethodGet, "/api/users"},
		{http.MethodDelete, "/api/loans/1"},
	}
	for _, p := range paths {
		resp, body := doJSON(t, app, p.method, p.path, token, fiber.Map{})
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("%s %s as user: status %d, want 403", p.method, p.path, resp.StatusCode)
		}
		if msg := errorMessage(t, body); msg != "Admin access required" {
			t.Errorf("%s %s as user: error %q", p.method, p.path, msg)
		}
	}
}

func TestBorrowerSummaryScope(t *testing.T) {
	app := setupTestApp(t)

	token := login(t, app, "jorge", "longenough")

	resp, _ := doJSON(t, app, http.MethodGet, "/api/borrower-summary?borrower_id=jorge", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("own summary: status %d, want 200", resp.StatusCode)
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/borrower-summary?borrower_id=maria", token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("cross-borrower summary: status %d, want 403", resp.StatusCode)
	}
	if msg := errorMessage(t, body); msg != "Access denied" {
		t.Errorf("cross-borrower error %q", msg)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/borrower-summary", token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing borrower_id: status %d, want 400", resp.StatusCode)
	}

	// Admins read any borrower's summary.
	adminToken := login(t, app, "admin", "admin123456")
	resp, _ = doJSON(t, app, http.MethodGet, "/api/borrower-summary?borrower_id=maria", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin cross-borrower summary: status %d, want 200", resp.StatusCode)
	}
}

func TestLoanPaymentLifecycle(t *testing.T) {
	app := setupTestApp(t)
	token := login(t, app, "admin", "admin123456")

	resp, body := doJSON(t, app, http.MethodPost, "/api/loans", token, fiber.Map{
		"borrower_id": "jorge",
		"borrower":    "Jorge Perez",
		"amount":      50000,
		"interest":    5,
		"weeks":       10,
		"start_date":  "2026-01-05",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create loan: status %d, body %v", resp.StatusCode, body)
	}
	var loanID uint
	if err := json.Unmarshal(body["id"], &loanID); err != nil || loanID == 0 {
		t.Fatalf("create loan: no id in %v", body)
	}

	payment := fiber.Map{"loan_id": loanID, "week": 1, "amount": 5250, "date": "2026-01-12"}
	resp, body = doJSON(t, app, http.MethodPost, "/api/payments", token, payment)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create payment: status %d, body %v", resp.StatusCode, body)
	}
	var paymentID uint
	if err := json.Unmarshal(body["id"], &paymentID); err != nil {
		t.Fatalf("create payment: no id in %v", body)
	}

	// Same loan and week again: 200 with the existing record.
	resp, body = doJSON(t, app, http.MethodPost, "/api/payments", token, payment)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat payment: status %d, want 200", resp.StatusCode)
	}
	var repeatID uint
	if err := json.Unmarshal(body["id"], &repeatID); err != nil || repeatID != paymentID {
		t.Errorf("repeat payment id %d, want %d", repeatID, paymentID)
	}

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/loans/%d", loanID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete loan: status %d", resp.StatusCode)
	}

	// The cascade removed the loan's payments.
	req := httptest.NewRequest(http.MethodGet, "/api/payments", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	listResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	var payments []models.Payment
	if err := json.NewDecoder(listResp.Body).Decode(&payments); err != nil {
		t.Fatalf("decode payments: %v", err)
	}
	listResp.Body.Close()
	if len(payments) != 0 {
		t.Errorf("payments survived cascade: %+v", payments)
	}

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/loans?id=%d", loanID), token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted loan fetch: status %d, want 404", resp.StatusCode)
	}
	if msg := errorMessage(t, body); msg != "Loan not found" {
		t.Errorf("deleted loan fetch error %q", msg)
	}
}

func TestMassDeleteRejected(t *testing.T) {
	app := setupTestApp(t)
	token := login(t, app, "admin", "admin123456")

	for _, path := range []string{"/api/loans", "/api/payments"} {
		resp, body := doJSON(t, app, http.MethodDelete, path, token, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("DELETE %s: status %d, want 400", path, resp.StatusCode)
		}
		if msg := errorMessage(t, body); msg == "" {
			t.Errorf("DELETE %s: empty error body", path)
		}
	}

	// The purge route refuses to run without explicit confirmation.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/loans/purge", token, fiber.Map{"confirm": false})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unconfirmed purge: status %d, want 400", resp.StatusCode)
	}
}

func TestLastAdminCannotBeDeleted(t *testing.T) {
	app := setupTestApp(t)
	token := login(t, app, "admin", "admin123456")

	resp, body := doJSON(t, app, http.MethodGet, "/api/users", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list users: status %d", resp.StatusCode)
	}
	var users []models.UserResponse
	if err := json.Unmarshal(body["data"], &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	var adminID uint
	for _, u := range users {
		if u.Username == "admin" {
			adminID = u.ID
		}
	}
	if adminID == 0 {
		t.Fatal("seeded admin not listed")
	}

	resp, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", adminID), token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("delete last admin: status %d, want 400", resp.StatusCode)
	}
	if msg := errorMessage(t, body); msg != "At least one active admin must remain" {
		t.Errorf("delete last admin error %q", msg)
	}

	// The same guard message covers deactivation and demotion.
	for _, action := range []string{"toggle_status", "update_role"} {
		resp, body = doJSON(t, app, http.MethodPost, "/api/users", token, fiber.Map{
			"action":  action,
			"user_id": adminID,
			"role":    "user",
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s last admin: status %d, want 400", action, resp.StatusCode)
		}
		if msg := errorMessage(t, body); msg != "At least one active admin must remain" {
			t.Errorf("%s last admin error %q", action, msg)
		}
	}
}
