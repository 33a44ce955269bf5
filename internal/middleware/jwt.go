package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/member-hub/memberhub/internal/auth"
)

// Locals keys populated by JWTAuth.
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// JWTAuth returns a middleware that validates bearer tokens and exposes the
// token's subject and role to downstream handlers. Any verification failure
// yields the same 401, matching the issuer's fail-closed contract.
func JWTAuth(issuer *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		subject, role, err := issuer.Verify(strings.TrimSpace(authz[len("Bearer "):]))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals(UserIDKey, subject)
		c.Locals(RoleKey, string(role))
		return c.Next()
	}
}
