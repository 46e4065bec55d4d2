package core

// Ports define interfaces for external dependencies

// AccountStorage defines account-related database operations
type AccountStorage interface {
	CreateAccount(a *Account) error

	GetAccountByID(id string) (*Account, error)
	GetAccountByEmail(email string) (*Account, error)

	UpdateAccount(a *Account) error

	// SetAccountActive flips the active flag on its own, so the
	// deactivation protocol can commit step one before the sweep.
	SetAccountActive(id string, active bool) error
}

// CredentialStorage defines bearer-credential database operations
type CredentialStorage interface {
	CreateCredential(c *Credential) error

	GetCredentialByHash(tokenHash string) (*Credential, error)
	GetAccountCredentials(accountID string) ([]*Credential, error)

	DeleteCredentialByHash(tokenHash string) error

	// DeleteAccountCredentials revokes by account id, never by the
	// presenting token, and reports how many rows went away.
	DeleteAccountCredentials(accountID string) (int, error)
}

// SessionStorage defines session-related database operations
type SessionStorage interface {
	CreateSession(session *Session) error

	GetSessionByHash(tokenHash string) (*Session, error)
	GetSessionByID(id string) (*Session, error)
	GetAccountSessions(accountID string) ([]*Session, error)

	DeleteSessionByID(id string) error
	DeleteSessionByHash(tokenHash string) error
	DeleteAccountSessions(accountID string) (int, error)

	DeleteExpiredSessions() (int, error)
}

// ProjectStorage defines project-related database operations
type ProjectStorage interface {
	CreateProject(p *Project) error

	GetProjectByID(id string) (*Project, error)
	ListProjects() ([]*Project, error)

	UpdateProject(p *Project) error
}

// Storage combines every port a full deployment needs.
type Storage interface {
	AccountStorage
	CredentialStorage
	SessionStorage
	ProjectStorage
}
