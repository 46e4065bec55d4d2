// Package tracklite is a small project-tracking backend core: project
// CRUD with ownership-scoped authorization and soft-delete archival,
// plus account lifecycle with a deactivation protocol that revokes
// every outstanding credential and session in one sweep.
package tracklite

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tracklite/tracklite/core"
	"github.com/tracklite/tracklite/pkg/cache"
	"github.com/tracklite/tracklite/pkg/crypto"
	"github.com/tracklite/tracklite/services"
)

// interfaces
type (
	Storage = core.Storage
	Cache   = core.Cache

	PasswordHandler = crypto.PasswordHandler
	PolicyFunc      = core.PolicyFunc
)

// structs
type (
	SessionConfig = core.SessionConfig
	CacheConfig   = core.CacheConfig

	Principal  = core.Principal
	Account    = core.Account
	Credential = core.Credential
	Session    = core.Session
	Project    = core.Project

	Action   = core.Action
	Decision = core.Decision
)

const (
	defaultBasePath  = "/api"
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache     = cache.NewInMemoryCache
	NewArgon2            = crypto.NewArgon2
	DefaultSessionConfig = core.DefaultSessionConfig
	OwnerOrAdmin         = core.OwnerOrAdmin
)

var (
	ErrAccountExists      = core.ErrAccountExists
	ErrAccountNotFound    = core.ErrAccountNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrAccountDeactivated = core.ErrAccountDeactivated
	ErrNotAccountHolder   = core.ErrNotAccountHolder
)

var (
	ErrProjectNotFound = core.ErrProjectNotFound
	ErrAccessDenied    = core.ErrAccessDenied
	ErrProjectArchived = core.ErrProjectArchived
)

var (
	ErrMissingAuthHeader = core.ErrMissingAuthHeader
	ErrInvalidToken      = core.ErrInvalidToken
	ErrCredentialRevoked = core.ErrCredentialRevoked
	ErrSessionNotFound   = core.ErrSessionNotFound
	ErrSessionExpired    = core.ErrSessionExpired
)

var (
	ErrInvalidAuthHeader   = core.ErrInvalidAuthHeader
	ErrProjectNameRequired = core.ErrProjectNameRequired
	ErrEmailRequired       = core.ErrEmailRequired
	ErrPasswordRequired    = core.ErrPasswordRequired
	ErrPasswordTooShort    = core.ErrPasswordTooShort
	ErrPasswordTooLong     = core.ErrPasswordTooLong
	ErrInvalidEmail        = core.ErrInvalidEmail
)

var (
	ErrStorageRequired     = core.ErrStorageRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrSecretRequired      = core.ErrSecretRequired
	ErrSecretTooShort      = core.ErrSecretTooShort
)

// HTTPAdapter mounts the app's endpoints onto a concrete framework.
type HTTPAdapter interface {
	RegisterRoutes(app *App) error
}

// Config wires storage, transport and the optional pieces together.
type Config struct {
	Secret string

	Storage Storage

	HTTP HTTPAdapter

	// Optional config
	CacheAdapter   Cache
	DisableCache   bool
	SessionConfig  *SessionConfig
	PasswordHasher PasswordHandler
	Policy         PolicyFunc
	BasePath       string
	Logger         *zerolog.Logger
}

// App bundles the assembled services. Adapters reach everything they
// need through here.
type App struct {
	Auth     *services.AuthService
	Projects *services.ProjectService
	Accounts *services.AccountService
	Sessions *services.SessionManager
	Registry *services.EndpointRegistry

	Secret   string
	BasePath string
}

func New(config Config) (*App, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	cacheAdapter := config.CacheAdapter
	if cacheAdapter == nil && !config.DisableCache {
		cacheAdapter = NewInMemoryCache(CacheConfig{
			TTL:     5 * time.Minute,
			MaxSize: 500,
		})
	}

	sessionConfig := config.SessionConfig
	if sessionConfig == nil {
		defaults := DefaultSessionConfig()
		sessionConfig = &defaults
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewArgon2()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	sessions := services.NewSessionManager(*sessionConfig, config.Storage, cacheAdapter)
	credentials := services.NewCredentialManager(config.Storage)
	guard := core.NewAccessGuard(config.Policy)

	app := &App{
		Auth:     services.NewAuthService(config.Storage, passwordHasher, sessions, credentials),
		Projects: services.NewProjectService(config.Storage, guard),
		Accounts: services.NewAccountService(config.Storage, credentials, sessions, config.Logger),
		Sessions: sessions,
		Registry: services.NewEndpointRegistry(),
		Secret:   config.Secret,
		BasePath: basePath,
	}

	if err := config.HTTP.RegisterRoutes(app); err != nil {
		return nil, err
	}

	return app, nil
}
