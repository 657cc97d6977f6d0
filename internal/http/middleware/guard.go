package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marlosirapuan/doc-sign-web/internal/session"
)

// Route guards: pure functions of the session store's current token,
// re-evaluated on every request so login/logout take effect on the next
// navigation.

// ProtectedPage admits page requests only with an active session; otherwise
// the browser is redirected to the login view.
func ProtectedPage(sess *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sess.Active() {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// PublicOnlyPage is the login-page variant: an already-authenticated user is
// sent to the protected root instead.
func PublicOnlyPage(sess *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sess.Active() {
			return c.Redirect("/", fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireToken guards JSON API routes. Fetch calls cannot follow redirects
// meaningfully, so a missing session answers 401 and the page script routes
// to /login.
func RequireToken(sess *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sess.Active() {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}
