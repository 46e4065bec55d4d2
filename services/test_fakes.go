package services

import (
	"sync"
	"time"

	"github.com/tracklite/tracklite/core"
)

// FakeStorage is a test-only fake implementing core.Storage. It keeps
// everything in maps and exposes error fields for behavior injection.
type FakeStorage struct {
	mu sync.RWMutex

	accounts    map[string]*core.Account
	credentials map[string]*core.Credential // keyed by token hash
	sessions    map[string]*core.Session    // keyed by token hash
	projects    map[string]*core.Project

	accountErr       error
	credentialErr    error
	revokeAllErr     error
	sessionErr       error
	deleteAllSessErr error
	projectErr       error
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		accounts:    make(map[string]*core.Account),
		credentials: make(map[string]*core.Credential),
		sessions:    make(map[string]*core.Session),
		projects:    make(map[string]*core.Project),
	}
}

var _ core.Storage = (*FakeStorage)(nil)

// AccountStorage implementation

func (f *FakeStorage) CreateAccount(a *core.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accountErr != nil {
		return f.accountErr
	}
	if _, exists := f.accounts[a.ID]; exists {
		return core.ErrAccountExists
	}
	f.accounts[a.ID] = a
	return nil
}

func (f *FakeStorage) GetAccountByID(id string) (*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	if a, ok := f.accounts[id]; ok {
		return a, nil
	}
	return nil, core.ErrAccountNotFound
}

func (f *FakeStorage) GetAccountByEmail(email string) (*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	for _, a := range f.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, core.ErrAccountNotFound
}

func (f *FakeStorage) UpdateAccount(a *core.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[a.ID]; !exists {
		return core.ErrAccountNotFound
	}
	f.accounts[a.ID] = a
	return nil
}

func (f *FakeStorage) SetAccountActive(id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accountErr != nil {
		return f.accountErr
	}
	a, exists := f.accounts[id]
	if !exists {
		return core.ErrAccountNotFound
	}
	a.IsActive = active
	return nil
}

// CredentialStorage implementation

func (f *FakeStorage) CreateCredential(c *core.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.credentialErr != nil {
		return f.credentialErr
	}
	f.credentials[c.TokenHash] = c
	return nil
}

func (f *FakeStorage) GetCredentialByHash(tokenHash string) (*core.Credential, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.credentialErr != nil {
		return nil, f.credentialErr
	}
	if c, ok := f.credentials[tokenHash]; ok {
		return c, nil
	}
	return nil, core.ErrCredentialRevoked
}

func (f *FakeStorage) GetAccountCredentials(accountID string) ([]*core.Credential, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*core.Credential
	for _, c := range f.credentials {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeStorage) DeleteCredentialByHash(tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.credentialErr != nil {
		return f.credentialErr
	}
	if _, ok := f.credentials[tokenHash]; !ok {
		return core.ErrCredentialRevoked
	}
	delete(f.credentials, tokenHash)
	return nil
}

func (f *FakeStorage) DeleteAccountCredentials(accountID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revokeAllErr != nil {
		return 0, f.revokeAllErr
	}
	count := 0
	for k, c := range f.credentials {
		if c.AccountID == accountID {
			delete(f.credentials, k)
			count++
		}
	}
	return count, nil
}

// SessionStorage implementation

func (f *FakeStorage) CreateSession(s *core.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return f.sessionErr
	}
	f.sessions[s.TokenHash] = s
	return nil
}

func (f *FakeStorage) GetSessionByHash(tokenHash string) (*core.Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	s, ok := f.sessions[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return s, nil
}

func (f *FakeStorage) GetSessionByID(id string) (*core.Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, core.ErrSessionNotFound
}

func (f *FakeStorage) GetAccountSessions(accountID string) ([]*core.Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*core.Session
	for _, s := range f.sessions {
		if s.AccountID == accountID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *FakeStorage) DeleteSessionByID(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, s := range f.sessions {
		if s.ID == id {
			delete(f.sessions, k)
			return nil
		}
	}
	return core.ErrSessionNotFound
}

func (f *FakeStorage) DeleteSessionByHash(tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return f.sessionErr
	}
	if _, ok := f.sessions[tokenHash]; !ok {
		return core.ErrSessionNotFound
	}
	delete(f.sessions, tokenHash)
	return nil
}

func (f *FakeStorage) DeleteAccountSessions(accountID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteAllSessErr != nil {
		return 0, f.deleteAllSessErr
	}
	count := 0
	for k, s := range f.sessions {
		if s.AccountID == accountID {
			delete(f.sessions, k)
			count++
		}
	}
	return count, nil
}

func (f *FakeStorage) DeleteExpiredSessions() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	count := 0
	for k, s := range f.sessions {
		if now.After(s.ExpiresAt) {
			delete(f.sessions, k)
			count++
		}
	}
	return count, nil
}

// ProjectStorage implementation

func (f *FakeStorage) CreateProject(p *core.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.projectErr != nil {
		return f.projectErr
	}
	f.projects[p.ID] = p.Clone()
	return nil
}

func (f *FakeStorage) GetProjectByID(id string) (*core.Project, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.projectErr != nil {
		return nil, f.projectErr
	}
	if p, ok := f.projects[id]; ok {
		return p.Clone(), nil
	}
	return nil, core.ErrProjectNotFound
}

func (f *FakeStorage) ListProjects() ([]*core.Project, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*core.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (f *FakeStorage) UpdateProject(p *core.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.projectErr != nil {
		return f.projectErr
	}
	if _, exists := f.projects[p.ID]; !exists {
		return core.ErrProjectNotFound
	}
	f.projects[p.ID] = p.Clone()
	return nil
}
