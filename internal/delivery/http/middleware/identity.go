package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Identity is resolved upstream by the API gateway and forwarded in
// headers; this service trusts them and never verifies credentials itself.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"

	CtxUserIDKey    = "identity.user_id"
	CtxUserEmailKey = "identity.user_email"
	CtxUserNameKey  = "identity.user_name"
)

type IdentityMiddleware struct{}

func NewIdentityMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{}
}

func (m *IdentityMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(HeaderUserID))
		if userID == "" {
			return NewAppError(fiber.StatusUnauthorized, "Missing user identity", nil, nil)
		}

		c.Locals(CtxUserIDKey, userID)
		c.Locals(CtxUserEmailKey, strings.TrimSpace(c.Get(HeaderUserEmail)))
		c.Locals(CtxUserNameKey, strings.TrimSpace(c.Get(HeaderUserName)))
		return c.Next()
	}
}

// UserID reads the authenticated caller from locals. Empty when the
// identity middleware did not run for this route.
func UserID(c fiber.Ctx) string {
	id, _ := c.Locals(CtxUserIDKey).(string)
	return id
}

func UserEmail(c fiber.Ctx) string {
	email, _ := c.Locals(CtxUserEmailKey).(string)
	return email
}

func UserName(c fiber.Ctx) string {
	name, _ := c.Locals(CtxUserNameKey).(string)
	return name
}
