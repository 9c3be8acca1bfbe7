package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spmcdev/Daily-Collection/internal/adapters/http/middleware"
	"github.com/spmcdev/Daily-Collection/internal/config"
	"github.com/spmcdev/Daily-Collection/internal/core/domain"
	"github.com/spmcdev/Daily-Collection/internal/core/services"
	"github.com/spmcdev/Daily-Collection/internal/pkg/response"
)

// AuthHandler handles the action-dispatched /auth endpoint
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// AuthRequest represents the /auth request body
type AuthRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthUser is the public view of the logged-in user
type AuthUser struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	BorrowerName string `json:"borrower_name"`
}

// Handle dispatches on the action field
// @Summary Authentication actions
// @Description Login, logout or session check via {"action": "login"|"logout"|"check"}
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body AuthRequest true "Auth action"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth [post]
func (h *AuthHandler) Handle(c *fiber.Ctx) error {
	var req AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	switch req.Action {
	case "login":
		return h.login(c, &req)
	case "logout":
		return h.logout(c)
	case "check":
		return h.check(c)
	default:
		return response.BadRequest(c, "Invalid action")
	}
}

func (h *AuthHandler) login(c *fiber.Ctx, req *AuthRequest) error {
	result, err := h.authService.Login(c.Context(), &services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// One body for unknown user, inactive account and wrong
			// password alike.
			return response.Unauthorized(c, "Invalid credentials")
		}
		return response.InternalServerError(c, "Login failed")
	}

	h.setSessionCookie(c, result.Session.Token, result.Session.ExpiresAt)

	borrower := ""
	if result.User.BorrowerName != nil {
		borrower = *result.User.BorrowerName
	}

	return response.OK(c, fiber.Map{
		"success": true,
		"user": AuthUser{
			Username:     result.User.Username,
			Role:         result.User.Role,
			BorrowerName: borrower,
		},
	})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	token := middleware.SessionToken(c, h.cfg)
	if err := h.authService.Logout(c.Context(), token); err != nil {
		return response.InternalServerError(c, "Could not log out")
	}

	h.clearSessionCookie(c)
	return response.OK(c, fiber.Map{"success": true})
}

func (h *AuthHandler) check(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	if identity == nil {
		return response.OK(c, fiber.Map{"authenticated": false})
	}
	return response.OK(c, fiber.Map{
		"authenticated": true,
		"user":          identity,
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.Session.CookieName,
		Value:    token,
		Expires:  expiresAt,
		Path:     "/",
		Domain:   h.cfg.Session.CookieDomain,
		Secure:   h.cfg.Session.CookieSecure,
		HTTPOnly: true,
		SameSite: h.cfg.Session.CookieSameSite,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.Session.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/",
		Domain:   h.cfg.Session.CookieDomain,
		Secure:   h.cfg.Session.CookieSecure,
		HTTPOnly: true,
		SameSite: h.cfg.Session.CookieSameSite,
	})
}
