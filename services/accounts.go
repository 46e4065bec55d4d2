package services

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tracklite/tracklite/core"
)

// AccountService orchestrates the irreversible account deactivation
// protocol: flip the active flag, revoke every credential, destroy
// every session. The flag commits first, so a crash mid-sweep leaves
// an inactive account whose next Deactivate call converges instead of
// a live account with half its credentials gone.
type AccountService struct {
	storage     core.AccountStorage
	credentials *CredentialManager
	sessions    *SessionManager
	locks       *entityLocks
	logger      zerolog.Logger
}

func NewAccountService(storage core.AccountStorage, credentials *CredentialManager, sessions *SessionManager, logger *zerolog.Logger) *AccountService {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &AccountService{
		storage:     storage,
		credentials: credentials,
		sessions:    sessions,
		locks:       newEntityLocks(),
		logger:      l,
	}
}

// Get returns the account record behind a principal.
func (s *AccountService) Get(id string) (*core.Account, error) {
	account, err := s.storage.GetAccountByID(id)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return nil, core.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// Deactivate permanently disables the principal's own account.
//
// The operation is self-service only and idempotent: a second call on
// an already-inactive account re-runs the revocation sweep and reports
// success, so a failed sweep can always be retried to completion.
// From the outside a concurrent request sees either a fully active or
// a fully deactivated account, never the in-between.
func (s *AccountService) Deactivate(p core.Principal, targetAccountID string) error {
	if !p.IsAuthenticated {
		return core.ErrInvalidToken
	}
	if p.ID != targetAccountID {
		// Deactivating someone else's account is out of bounds even
		// for admins; that would be a separate, audited operation.
		return core.ErrNotAccountHolder
	}

	unlock := s.locks.acquire(targetAccountID)
	defer unlock()

	account, err := s.storage.GetAccountByID(targetAccountID)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return core.ErrAccountNotFound
		}
		return fmt.Errorf("failed to load account: %w", err)
	}

	// Step 1: commit the flag before touching credentials. Once this
	// lands the account is deactivated no matter what happens below.
	if account.IsActive {
		if err := s.storage.SetAccountActive(targetAccountID, false); err != nil {
			return fmt.Errorf("failed to deactivate account: %w", err)
		}
	}

	// Steps 2+3: the revocation sweep. Runs on retries too, so an
	// inactive account with leftover credentials always converges.
	if err := s.sweep(targetAccountID); err != nil {
		s.logger.Error().
			Err(err).
			Str("account_id", targetAccountID).
			Msg("deactivation sweep incomplete, safe to retry")
		return fmt.Errorf("deactivation incomplete, retry: %w", err)
	}

	return nil
}

// sweep revokes every credential and destroys every session the
// account holds, enumerated by account id.
func (s *AccountService) sweep(accountID string) error {
	revoked, err := s.credentials.RevokeAll(accountID)
	if err != nil {
		return fmt.Errorf("failed to revoke credentials: %w", err)
	}

	destroyed, err := s.sessions.DestroyAllAccountSessions(accountID)
	if err != nil {
		return fmt.Errorf("failed to destroy sessions: %w", err)
	}

	if revoked > 0 || destroyed > 0 {
		s.logger.Info().
			Str("account_id", accountID).
			Int("credentials_revoked", revoked).
			Int("sessions_destroyed", destroyed).
			Msg("account deactivated")
	}

	return nil
}
