package fiber

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/tracklite/tracklite"
)

// Adapter mounts the tracklite route table onto a fiber v3 app.
type Adapter struct {
	app *fiber.App
}

var _ tracklite.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

// RegisterRoutes walks the endpoint registry and mounts a handler for
// each operation, wrapping protected endpoints with requireAuth.
func (a *Adapter) RegisterRoutes(app *tracklite.App) error {
	handlers := map[string]fiber.Handler{
		"signUp":            handleSignUp(app),
		"signIn":            handleSignIn(app),
		"signOut":           handleSignOut(app),
		"getSession":        handleGetSession(app),
		"listProjects":      handleListProjects(app),
		"createProject":     handleCreateProject(app),
		"getProject":        handleGetProject(app),
		"updateProject":     handleUpdateProject(app),
		"archiveProject":    handleArchiveProject(app),
		"deactivateAccount": handleDeactivateAccount(app),
	}

	api := a.app.Group(app.BasePath)
	guard := requireAuth(app)

	for _, ep := range app.Registry.Endpoints() {
		handler, ok := handlers[ep.Metadata.OperationID]
		if !ok {
			return fmt.Errorf("no handler for operation %q", ep.Metadata.OperationID)
		}

		// fiber v3: Add runs handlers in argument order, so the guard
		// must come first.
		if ep.Metadata.Protected {
			api.Add([]string{ep.Method}, ep.Path, guard, handler)
		} else {
			api.Add([]string{ep.Method}, ep.Path, handler)
		}
	}

	return nil
}
