package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spmcdev/Daily-Collection/internal/config"
	"github.com/spmcdev/Daily-Collection/internal/core/domain"
	"github.com/spmcdev/Daily-Collection/internal/core/policy"
	"github.com/spmcdev/Daily-Collection/internal/core/services"
	"github.com/spmcdev/Daily-Collection/internal/pkg/response"
)

const identityKey = "identity"

// SessionToken extracts the session token from the cookie or, failing
// that, a Bearer Authorization header.
func SessionToken(c *fiber.Ctx, cfg *config.Config) string {
	if token := c.Cookies(cfg.Session.CookieName); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// SessionAuth resolves the request's session token to an identity once
// per request and stores it in locals. Requests without a valid session
// continue with no identity; the policy gates decide what they may do.
func SessionAuth(authService *services.AuthService, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := SessionToken(c, cfg)
		identity, err := authService.Resolve(c.Context(), token)
		if err != nil {
			log.Printf("❌ Session resolve error: %v", err)
			return response.InternalServerError(c, "Session store unavailable")
		}
		if identity != nil {
			c.Locals(identityKey, identity)
		}
		return c.Next()
	}
}

// Identity returns the resolved identity for this request, or nil.
func Identity(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(identityKey).(*domain.Identity)
	return identity
}

// RequireAuth rejects requests that carry no valid session.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Identity(c) == nil {
			return response.Unauthorized(c, "Authentication required")
		}
		return c.Next()
	}
}

// RequirePermission gates a route group on the authorization policy for
// a resource. The action derives from the HTTP method.
func RequirePermission(resource policy.Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		action := policy.ActionWrite
		if c.Method() == fiber.MethodGet {
			action = policy.ActionRead
		}

		decision := policy.Authorize(Identity(c), resource, action, "")
		if decision.Allowed {
			return c.Next()
		}
		return DenyResponse(c, decision)
	}
}

// DenyResponse maps a policy denial to the HTTP error contract.
func DenyResponse(c *fiber.Ctx, decision policy.Decision) error {
	switch decision.Reason {
	case policy.ReasonUnauthenticated:
		return response.Unauthorized(c, "Authentication required")
	case policy.ReasonCrossBorrower:
		return response.Forbidden(c, "Access denied")
	default:
		return response.Forbidden(c, "Admin access required")
	}
}
