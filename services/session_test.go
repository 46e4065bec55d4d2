package services

import (
	"errors"
	"testing"
	"time"

	"github.com/tracklite/tracklite/core"
	"github.com/tracklite/tracklite/pkg/cache"
	"github.com/tracklite/tracklite/pkg/crypto"
)

// Requirement: Create stores only the token hash and returns the raw
// token exactly once.
func TestSessionManager_Create(t *testing.T) {
	storage := NewFakeStorage()
	sm := NewSessionManager(core.SessionConfig{MaxAge: 24 * time.Hour}, storage, nil)

	result, err := sm.Create("alice", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Token == "" {
		t.Fatal("Create() should return the raw token")
	}
	if result.Session.TokenHash == result.Token {
		t.Error("raw token stored instead of hash")
	}
	if result.Session.TokenHash != crypto.HashToken(result.Token) {
		t.Error("stored hash does not match the raw token")
	}
	if !result.Session.ExpiresAt.After(time.Now()) {
		t.Error("new session already expired")
	}
}

// Requirement: Verify resolves a raw token through the hash and enforces
// expiry, removing expired sessions from storage on sight.
func TestSessionManager_Verify(t *testing.T) {
	storage := NewFakeStorage()
	sm := NewSessionManager(core.SessionConfig{MaxAge: 24 * time.Hour}, storage, nil)

	result, err := sm.Create("alice", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	session, err := sm.Verify(result.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if session.AccountID != "alice" {
		t.Errorf("AccountID = %q, want alice", session.AccountID)
	}

	if _, err := sm.Verify(""); !errors.Is(err, core.ErrInvalidToken) {
		t.Errorf("Verify(empty) error = %v, want %v", err, core.ErrInvalidToken)
	}
	if _, err := sm.Verify("not-a-token"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("Verify(unknown) error = %v, want %v", err, core.ErrSessionNotFound)
	}

	// Expired session: verification fails and the record is deleted.
	expired := NewSessionManager(core.SessionConfig{MaxAge: -time.Minute}, storage, nil)
	stale, err := expired.Create("alice", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := expired.Verify(stale.Token); !errors.Is(err, core.ErrSessionExpired) {
		t.Errorf("Verify(expired) error = %v, want %v", err, core.ErrSessionExpired)
	}
	if _, err := storage.GetSessionByID(stale.Session.ID); !errors.Is(err, core.ErrSessionNotFound) {
		t.Error("expired session should be deleted from storage on verify")
	}
}

// Requirement: a cached session is served without a storage read, and
// cache expiry checks still apply.
func TestSessionManager_VerifyCached(t *testing.T) {
	storage := NewFakeStorage()
	c := cache.NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	sm := NewSessionManager(core.SessionConfig{MaxAge: 24 * time.Hour}, storage, c)

	result, err := sm.Create("alice", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Delete from storage; the cache entry written at Create must still
	// satisfy verification.
	if err := storage.DeleteSessionByHash(result.Session.TokenHash); err != nil {
		t.Fatalf("DeleteSessionByHash() error = %v", err)
	}
	if _, err := sm.Verify(result.Token); err != nil {
		t.Errorf("Verify() should hit the cache, got error %v", err)
	}
}

// Requirement: Destroy removes the session from cache and storage; the
// token no longer verifies.
func TestSessionManager_Destroy(t *testing.T) {
	storage := NewFakeStorage()
	c := cache.NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	sm := NewSessionManager(core.SessionConfig{MaxAge: 24 * time.Hour}, storage, c)

	result, err := sm.Create("alice", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := sm.Destroy(result.Token); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if _, err := sm.Verify(result.Token); err == nil {
		t.Error("destroyed session still verifies")
	}
	if err := sm.Destroy(""); !errors.Is(err, core.ErrInvalidToken) {
		t.Errorf("Destroy(empty) error = %v, want %v", err, core.ErrInvalidToken)
	}
}

// Requirement: CleanupExpired reclaims expired rows in bulk and leaves
// live sessions alone.
func TestSessionManager_CleanupExpired(t *testing.T) {
	storage := NewFakeStorage()
	live := NewSessionManager(core.SessionConfig{MaxAge: 24 * time.Hour}, storage, nil)
	stale := NewSessionManager(core.SessionConfig{MaxAge: -time.Minute}, storage, nil)

	kept, err := live.Create("alice", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := stale.Create("alice", "127.0.0.1", "test-agent"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	count, err := live.CleanupExpired()
	if err != nil {
		t.Fatalf("CleanupExpired() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if _, err := live.Verify(kept.Token); err != nil {
		t.Errorf("live session removed by cleanup: %v", err)
	}
}

// Requirement: DestroyAllAccountSessions removes every session of the
// account, reports the count, and leaves no cached copy behind.
func TestSessionManager_DestroyAllAccountSessions(t *testing.T) {
	storage := NewFakeStorage()
	c := cache.NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	sm := NewSessionManager(core.SessionConfig{MaxAge: 24 * time.Hour}, storage, c)

	var tokens []string
	for i := 0; i < 3; i++ {
		result, err := sm.Create("alice", "127.0.0.1", "test-agent")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		tokens = append(tokens, result.Token)
	}
	other, err := sm.Create("bob", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	count, err := sm.DestroyAllAccountSessions("alice")
	if err != nil {
		t.Fatalf("DestroyAllAccountSessions() error = %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	for _, token := range tokens {
		if _, err := sm.Verify(token); err == nil {
			t.Error("a destroyed session still verifies, cache not invalidated")
		}
	}
	// Bob's session survives, even if it has to be re-fetched.
	if _, err := sm.Verify(other.Token); err != nil {
		t.Errorf("unrelated session destroyed: %v", err)
	}

	// No sessions at all: count is zero, no error.
	count, err = sm.DestroyAllAccountSessions("nobody")
	if err != nil || count != 0 {
		t.Errorf("DestroyAllAccountSessions(nobody) = %d, %v, want 0, nil", count, err)
	}
}
