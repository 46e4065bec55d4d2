package fiber

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/tracklite/tracklite"
	"github.com/tracklite/tracklite/core"
	"github.com/tracklite/tracklite/services"
)

// handleSignUp returns a handler for the sign-up endpoint
func handleSignUp(app *tracklite.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input services.SignUpInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(core.ErrorResponse{
				Error: "invalid request body",
			})
		}

		result, err := app.Auth.SignUp(input, c.IP(), c.Get(fiber.HeaderUserAgent))
		if err != nil {
			return handleFault(c, err)
		}

		setSessionCookie(c, result.SessionToken, result.Session.ExpiresAt)
		return c.Status(http.StatusCreated).JSON(result)
	}
}

// handleSignIn returns a handler for the sign-in endpoint
func handleSignIn(app *tracklite.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input services.SignInInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(core.ErrorResponse{
				Error: "invalid request body",
			})
		}

		result, err := app.Auth.SignIn(input, c.IP(), c.Get(fiber.HeaderUserAgent))
		if err != nil {
			return handleFault(c, err)
		}

		setSessionCookie(c, result.SessionToken, result.Session.ExpiresAt)
		return c.Status(http.StatusOK).JSON(result)
	}
}

// handleSignOut invalidates the presenting credential and session.
func handleSignOut(app *tracklite.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		bearer := ""
		if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && h[:7] == "Bearer " {
			bearer = h[7:]
		}

		if err := app.Auth.SignOut(bearer, c.Cookies(sessionCookie)); err != nil {
			return handleFault(c, err)
		}

		clearSessionCookie(c)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message": "signed out successfully",
		})
	}
}

// handleGetSession returns the current session data.
func handleGetSession(app *tracklite.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		session, err := app.Auth.GetSession(extractToken(c))
		if err != nil {
			return handleFault(c, err)
		}

		return c.Status(http.StatusOK).JSON(session)
	}
}

// handleListProjects returns the project list.
func handleListProjects(app *tracklite.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		projects, err := app.Projects.List(currentAccount(c).Principal())
		if err != nil {
			return handleFault(c, err)
		}

		return c.Status(http.StatusOK).JSON(projects)
	}
}

// handleCreateProject creates a project owned by the caller.
func handleCreateProject(app *tracklite.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input services.CreateProjectInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(core.ErrorResponse{
				Error: "invalid request body",
			})
		}

		project, err := app.Projects.Create(currentAccount(c).Principal(), input)
		if err != nil {
			return handleFault(c, err)
		}

		return c.Status(http.StatusCreated).JSON(project)
	}
}

// handleGetProject returns a single project snapshot.
func handleGetProject(app *tracklite.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		project, err := app.Projects.Get(currentAccount(c).Principal(), c.Params("id"))
		if err != nil {
			return handleFault(c, err)
		}

		return c.Status(http.StatusOK).JSON(project)
	}
}

// handleUpdateProject patches an active project.
func handleUpdateProject(app *tracklite.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input services.UpdateProjectInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(core.ErrorResponse{
				Error: "invalid request body",
			})
		}

		project, err := app.Projects.Update(currentAccount(c).Principal(), c.Params("id"), input)
		if err != nil {
			return handleFault(c, err)
		}

		return c.Status(http.StatusOK).JSON(project)
	}
}

// handleArchiveProject soft-deletes a project.
func handleArchiveProject(app *tracklite.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		if _, err := app.Projects.Archive(currentAccount(c).Principal(), c.Params("id")); err != nil {
			return handleFault(c, err)
		}

		// Accepted, nothing further to say.
		return c.SendStatus(http.StatusNoContent)
	}
}

// handleDeactivateAccount deactivates the caller's own account. The
// presenting credential is invalid from this point on.
func handleDeactivateAccount(app *tracklite.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		principal := currentAccount(c).Principal()

		if err := app.Accounts.Deactivate(principal, principal.ID); err != nil {
			return handleFault(c, err)
		}

		clearSessionCookie(c)
		return c.SendStatus(http.StatusNoContent)
	}
}

func setSessionCookie(c fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// handleFault maps service faults to HTTP responses
func handleFault(c fiber.Ctx, err error) error {
	return c.Status(faultStatus(err)).JSON(core.ErrorResponse{
		Error: err.Error(),
	})
}

// faultStatus maps sentinel faults to HTTP status codes
func faultStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrProjectNameRequired),
		errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrPasswordTooShort),
		errors.Is(err, core.ErrPasswordTooLong),
		errors.Is(err, core.ErrInvalidEmail):
		return http.StatusBadRequest

	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrInvalidToken),
		errors.Is(err, core.ErrCredentialRevoked),
		errors.Is(err, core.ErrSessionNotFound),
		errors.Is(err, core.ErrSessionExpired),
		errors.Is(err, core.ErrAccountDeactivated),
		errors.Is(err, core.ErrMissingAuthHeader),
		errors.Is(err, core.ErrInvalidAuthHeader):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrAccessDenied),
		errors.Is(err, core.ErrNotAccountHolder):
		return http.StatusForbidden

	case errors.Is(err, core.ErrProjectNotFound),
		errors.Is(err, core.ErrAccountNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrProjectArchived),
		errors.Is(err, core.ErrAccountExists):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
