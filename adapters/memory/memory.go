// Package memory provides a mutex-guarded in-memory storage adapter.
// It is the development default and stands in for a real database.
package memory

import (
	"sync"
	"time"

	"github.com/tracklite/tracklite/core"
)

type Adapter struct {
	mu sync.RWMutex

	accounts    map[string]*core.Account
	credentials map[string]*core.Credential // keyed by token hash
	sessions    map[string]*core.Session    // keyed by token hash
	projects    map[string]*core.Project
}

var _ core.Storage = (*Adapter)(nil)

func New() *Adapter {
	return &Adapter{
		accounts:    make(map[string]*core.Account),
		credentials: make(map[string]*core.Credential),
		sessions:    make(map[string]*core.Session),
		projects:    make(map[string]*core.Project),
	}
}

// Seed installs the demo fixtures: two accounts and three projects,
// one of them already archived. Handy for poking at the API without a
// database.
func (a *Adapter) Seed() {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	for _, acc := range []*core.Account{
		{ID: "demo-alice", Email: "alice@example.com", Name: "Alice", IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: "demo-bob", Email: "bob@example.com", Name: "Bob", IsActive: true, CreatedAt: now, UpdatedAt: now},
	} {
		a.accounts[acc.ID] = acc
	}

	archivedAt := time.Date(2026, 1, 20, 16, 45, 0, 0, time.UTC)
	for _, p := range []*core.Project{
		{
			ID:          "1",
			OwnerID:     "demo-alice",
			Name:        "Mobile app development",
			Description: "Build the iOS and Android clients",
			Status:      core.StatusActive,
			CreatedAt:   time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          "2",
			OwnerID:     "demo-alice",
			Name:        "Website redesign",
			Description: "Refresh the corporate site UI/UX",
			Status:      core.StatusActive,
			CreatedAt:   time.Date(2026, 2, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:          "3",
			OwnerID:     "demo-bob",
			Name:        "Payment gateway integration",
			Description: "Hook up the new payment provider",
			Status:      core.StatusArchived,
			ArchivedAt:  &archivedAt,
			CreatedAt:   time.Date(2025, 12, 10, 9, 15, 0, 0, time.UTC),
		},
	} {
		p.UpdatedAt = p.CreatedAt
		a.projects[p.ID] = p
	}
}

// AccountStorage

func (a *Adapter) CreateAccount(acc *core.Account) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.accounts[acc.ID]; exists {
		return core.ErrAccountExists
	}
	cp := *acc
	a.accounts[acc.ID] = &cp
	return nil
}

func (a *Adapter) GetAccountByID(id string) (*core.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	acc, ok := a.accounts[id]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	cp := *acc
	return &cp, nil
}

func (a *Adapter) GetAccountByEmail(email string) (*core.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, acc := range a.accounts {
		if acc.Email == email {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, core.ErrAccountNotFound
}

func (a *Adapter) UpdateAccount(acc *core.Account) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.accounts[acc.ID]; !exists {
		return core.ErrAccountNotFound
	}
	cp := *acc
	cp.UpdatedAt = time.Now()
	a.accounts[acc.ID] = &cp
	return nil
}

func (a *Adapter) SetAccountActive(id string, active bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[id]
	if !ok {
		return core.ErrAccountNotFound
	}
	acc.IsActive = active
	acc.UpdatedAt = time.Now()
	return nil
}

// CredentialStorage

func (a *Adapter) CreateCredential(c *core.Credential) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := *c
	a.credentials[c.TokenHash] = &cp
	return nil
}

func (a *Adapter) GetCredentialByHash(tokenHash string) (*core.Credential, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c, ok := a.credentials[tokenHash]
	if !ok {
		return nil, core.ErrCredentialRevoked
	}
	cp := *c
	return &cp, nil
}

func (a *Adapter) GetAccountCredentials(accountID string) ([]*core.Credential, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []*core.Credential
	for _, c := range a.credentials {
		if c.AccountID == accountID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (a *Adapter) DeleteCredentialByHash(tokenHash string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.credentials[tokenHash]; !ok {
		return core.ErrCredentialRevoked
	}
	delete(a.credentials, tokenHash)
	return nil
}

func (a *Adapter) DeleteAccountCredentials(accountID string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	count := 0
	for k, c := range a.credentials {
		if c.AccountID == accountID {
			delete(a.credentials, k)
			count++
		}
	}
	return count, nil
}

// SessionStorage

func (a *Adapter) CreateSession(s *core.Session) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := *s
	a.sessions[s.TokenHash] = &cp
	return nil
}

func (a *Adapter) GetSessionByHash(tokenHash string) (*core.Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sessions[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (a *Adapter) GetSessionByID(id string) (*core.Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, s := range a.sessions {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, core.ErrSessionNotFound
}

func (a *Adapter) GetAccountSessions(accountID string) ([]*core.Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []*core.Session
	for _, s := range a.sessions {
		if s.AccountID == accountID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (a *Adapter) DeleteSessionByID(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for k, s := range a.sessions {
		if s.ID == id {
			delete(a.sessions, k)
			return nil
		}
	}
	return core.ErrSessionNotFound
}

func (a *Adapter) DeleteSessionByHash(tokenHash string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.sessions[tokenHash]; !ok {
		return core.ErrSessionNotFound
	}
	delete(a.sessions, tokenHash)
	return nil
}

func (a *Adapter) DeleteAccountSessions(accountID string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	count := 0
	for k, s := range a.sessions {
		if s.AccountID == accountID {
			delete(a.sessions, k)
			count++
		}
	}
	return count, nil
}

func (a *Adapter) DeleteExpiredSessions() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := time.Now()
	count := 0
	for k, s := range a.sessions {
		if now.After(s.ExpiresAt) {
			delete(a.sessions, k)
			count++
		}
	}
	return count, nil
}

// ProjectStorage

func (a *Adapter) CreateProject(p *core.Project) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.projects[p.ID] = p.Clone()
	return nil
}

func (a *Adapter) GetProjectByID(id string) (*core.Project, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p, ok := a.projects[id]
	if !ok {
		return nil, core.ErrProjectNotFound
	}
	return p.Clone(), nil
}

func (a *Adapter) ListProjects() ([]*core.Project, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*core.Project, 0, len(a.projects))
	for _, p := range a.projects {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (a *Adapter) UpdateProject(p *core.Project) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.projects[p.ID]; !exists {
		return core.ErrProjectNotFound
	}
	a.projects[p.ID] = p.Clone()
	return nil
}
