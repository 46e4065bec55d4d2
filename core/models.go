package core

import "time"

// Principal is the identity a request acts as.
//
// It is derived from the resolved Account once per request and never
// mutated afterwards; authorization only ever sees this snapshot.
type Principal struct {
	ID              string `json:"id"`
	IsAdmin         bool   `json:"isAdmin"`
	IsAuthenticated bool   `json:"-"`
}

// Account represents a user account in the system
//
// This is the "identity" - who someone is
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	IsAdmin      bool      `json:"isAdmin"`
	IsActive     bool      `json:"isActive"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal returns the request identity for this account.
func (a *Account) Principal() Principal {
	if a == nil {
		return Principal{}
	}
	return Principal{
		ID:              a.ID,
		IsAdmin:         a.IsAdmin,
		IsAuthenticated: true,
	}
}

// Credential is a bearer token bound to exactly one account
//
// This is the "credential" - how someone proves who they are.
// It exists from issuance until explicit revocation or account
// deactivation. Only the hash is ever stored.
type Credential struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	TokenHash string    `json:"-"` // Never expose in JSON (security!)
	CreatedAt time.Time `json:"createdAt"`
}

// Session represents an active login session, tracked separately
// from bearer credentials
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	TokenHash string    `json:"-"` // Never expose in JSON (security!)
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectStatus is the lifecycle state of a project. The only legal
// transition is active -> archived, one-way.
type ProjectStatus string

const (
	StatusActive   ProjectStatus = "active"
	StatusArchived ProjectStatus = "archived"
)

// Project is an ownable resource. OwnerID is immutable after creation;
// descriptive fields are mutable only while the project is active.
type Project struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"ownerId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	ArchivedAt  *time.Time    `json:"archivedAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Archived reports whether the project has reached its terminal state.
func (p *Project) Archived() bool {
	return p.Status == StatusArchived
}

// MarkArchived performs the guarded active -> archived transition.
// It returns false without touching the project when the project is
// already archived, so ArchivedAt is stamped exactly once.
func (p *Project) MarkArchived(now time.Time) bool {
	if p.Status == StatusArchived {
		return false
	}
	p.Status = StatusArchived
	p.ArchivedAt = &now
	p.UpdatedAt = now
	return true
}

// Clone returns a copy so callers can hand out snapshots without
// sharing the stored record.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	if p.ArchivedAt != nil {
		ts := *p.ArchivedAt
		cp.ArchivedAt = &ts
	}
	return &cp
}
