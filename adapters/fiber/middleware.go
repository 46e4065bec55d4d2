package fiber

import (
	"github.com/gofiber/fiber/v3"
	"github.com/tracklite/tracklite"
	"github.com/tracklite/tracklite/core"
)

const sessionCookie = "tracklite_session"

// extractToken pulls the bearer token from the Authorization header,
// falling back to the session cookie.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	return c.Cookies(sessionCookie)
}

// requireAuth resolves the bearer token to an account and stores it in
// the request context. Revoked credentials and deactivated accounts
// fail here with 401 - they never reach authorization.
func requireAuth(app *tracklite.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: core.ErrMissingAuthHeader.Error(),
			})
		}

		account, err := app.Auth.Identify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: err.Error(),
			})
		}

		// Store the account for downstream handlers
		c.Locals("account", account)

		return c.Next()
	}
}

// currentAccount reads the account requireAuth stashed in the context.
func currentAccount(c fiber.Ctx) *core.Account {
	account, _ := c.Locals("account").(*core.Account)
	return account
}
