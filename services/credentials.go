package services

import (
	"fmt"
	"time"

	"github.com/tracklite/tracklite/core"
	"github.com/tracklite/tracklite/pkg/crypto"
)

// CredentialManager issues and revokes the bearer tokens an account
// authenticates API requests with. The raw token leaves the process
// exactly once, at issuance; storage only ever sees the hash.
type CredentialManager struct {
	storage core.CredentialStorage
	nanoid  *crypto.NanoIDGenerator
}

func NewCredentialManager(storage core.CredentialStorage) *CredentialManager {
	nanoid, _ := crypto.NewNanoID()
	return &CredentialManager{storage: storage, nanoid: nanoid}
}

type IssueCredentialResult struct {
	Credential *core.Credential `json:"credential"`
	Token      string           `json:"token"`
}

// Issue mints a new bearer credential for the account.
func (cm *CredentialManager) Issue(accountID string) (*IssueCredentialResult, error) {
	pair, err := crypto.GenerateHashedToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	id, err := cm.nanoid.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate credential id: %w", err)
	}

	credential := &core.Credential{
		ID:        id,
		AccountID: accountID,
		TokenHash: pair.Hash,
		CreatedAt: time.Now(),
	}

	if err := cm.storage.CreateCredential(credential); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	return &IssueCredentialResult{Credential: credential, Token: pair.Token}, nil
}

// Verify resolves a presented bearer token to its credential record.
// A revoked credential is indistinguishable from one that never
// existed; both come back ErrCredentialRevoked.
func (cm *CredentialManager) Verify(token string) (*core.Credential, error) {
	if token == "" {
		return nil, core.ErrInvalidToken
	}

	credential, err := cm.storage.GetCredentialByHash(crypto.HashToken(token))
	if err != nil {
		return nil, core.ErrCredentialRevoked
	}

	return credential, nil
}

// Revoke invalidates the single presented credential.
func (cm *CredentialManager) Revoke(token string) error {
	if token == "" {
		return core.ErrInvalidToken
	}
	return cm.storage.DeleteCredentialByHash(crypto.HashToken(token))
}

// RevokeAll deletes every credential bound to the account, enumerated
// by account id rather than by any presenting token. A forgotten
// credential is a security hole.
func (cm *CredentialManager) RevokeAll(accountID string) (int, error) {
	if accountID == "" {
		return 0, core.ErrAccountNotFound
	}
	return cm.storage.DeleteAccountCredentials(accountID)
}
