package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mfspay/mfs_backend/internal/account"
	"github.com/mfspay/mfs_backend/internal/auth"
	"github.com/mfspay/mfs_backend/internal/config"
)

// Locals keys populated by JWTAuth for downstream handlers.
const (
	LocalAccountID   = "account_id"
	LocalAccountName = "account_name"
	LocalAccountKind = "account_kind"
)

// JWTAuth validates bearer tokens and attaches the decoded identity to the
// request. A missing header and an invalid token are reported separately; any
// Authorization form other than "Bearer <token>" is rejected outright.
func JWTAuth(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if authz == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "authorization must use the Bearer scheme")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		claims, err := auth.Verify(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}

		c.Locals(LocalAccountID, claims.Subject)
		c.Locals(LocalAccountName, claims.Name)
		c.Locals(LocalAccountKind, claims.Kind)
		return c.Next()
	}
}

// RequireKind gates a route group to accounts of the given kind. It assumes
// JWTAuth already ran.
func RequireKind(kind account.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got, _ := c.Locals(LocalAccountKind).(string)
		if got != string(kind) {
			return fiber.NewError(http.StatusForbidden, "insufficient privileges")
		}
		return c.Next()
	}
}
