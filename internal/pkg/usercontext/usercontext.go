package usercontext

import "github.com/gofiber/fiber/v2"

const (
	KeyUserContext   = "USER_CONTEXT"
	KeyFromProtected = "FROM_PROTECTED"
	KeyIsAdmin       = "USER_IS_ADMIN"
)

// UserContext carries the resolved session identity for one request.
type UserContext struct {
	UserID     uint
	Username   string
	Email      string
	IsLoggedIn bool
	IsAdmin    bool
}

// GetUserContext returns the context set by the middleware, or an
// anonymous context when none was set.
func GetUserContext(c *fiber.Ctx) UserContext {
	if v, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return v
	}
	return UserContext{}
}
