package services

import (
	"time"

	"github.com/tracklite/tracklite/core"
	"github.com/tracklite/tracklite/pkg/crypto"
)

// SessionManager tracks login sessions separately from bearer
// credentials. Sessions die with the account: deactivation destroys
// every one of them.
type SessionManager struct {
	config  core.SessionConfig
	storage core.SessionStorage
	cache   core.Cache // optional, can be nil if caching is disabled
	nanoid  *crypto.NanoIDGenerator
}

func NewSessionManager(config core.SessionConfig, storage core.SessionStorage, cache core.Cache) *SessionManager {
	nanoid, _ := crypto.NewNanoID()
	return &SessionManager{config: config, storage: storage, cache: cache, nanoid: nanoid}
}

type CreateSessionResult struct {
	Session *core.Session `json:"session"`
	Token   string        `json:"token"`
}

func (sm *SessionManager) Create(accountID, ip, userAgent string) (*CreateSessionResult, error) {
	pair, err := crypto.GenerateHashedToken()
	if err != nil {
		return nil, err
	}

	sessionID, err := sm.nanoid.Generate()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &core.Session{
		ID:        sessionID,
		AccountID: accountID,
		TokenHash: pair.Hash,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(sm.config.MaxAge),
	}

	if err := sm.storage.CreateSession(session); err != nil {
		return nil, err
	}

	// We don't fail the request if caching fails
	if sm.cache != nil {
		_ = sm.cache.Set(pair.Hash, session)
	}

	return &CreateSessionResult{Session: session, Token: pair.Token}, nil
}

func (sm *SessionManager) Verify(token string) (*core.Session, error) {
	if token == "" {
		return nil, core.ErrInvalidToken
	}

	tokenHash := crypto.HashToken(token)

	// Try cache first if caching is enabled
	if sm.cache != nil {
		if session, err := sm.cache.Get(tokenHash); err == nil && session != nil {
			if time.Now().After(session.ExpiresAt) {
				_ = sm.cache.Delete(tokenHash)
				return nil, core.ErrSessionExpired
			}
			return session, nil
		}
		// Cache miss - fall through to storage
	}

	session, err := sm.storage.GetSessionByHash(tokenHash)
	if err != nil {
		return nil, core.ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = sm.storage.DeleteSessionByID(session.ID)
		return nil, core.ErrSessionExpired
	}

	if sm.cache != nil {
		_ = sm.cache.Set(tokenHash, session)
	}

	return session, nil
}

func (sm *SessionManager) Destroy(token string) error {
	if token == "" {
		return core.ErrInvalidToken
	}

	tokenHash := crypto.HashToken(token)

	if sm.cache != nil {
		_ = sm.cache.Delete(tokenHash)
	}

	return sm.storage.DeleteSessionByHash(tokenHash)
}

// CleanupExpired deletes sessions past their expiry. Verify already
// rejects them individually; this reclaims the storage rows in bulk.
func (sm *SessionManager) CleanupExpired() (int, error) {
	return sm.storage.DeleteExpiredSessions()
}

// DestroyAllAccountSessions deletes every session the account holds,
// enumerated by account id. Returns the number of sessions removed.
func (sm *SessionManager) DestroyAllAccountSessions(accountID string) (int, error) {
	count, err := sm.storage.DeleteAccountSessions(accountID)
	if err != nil {
		return 0, err
	}

	// Clearing the whole cache is conservative but avoids fetching the
	// account's sessions just to pick out their hashes.
	if sm.cache != nil && count > 0 {
		_ = sm.cache.Clear()
	}

	return count, nil
}
