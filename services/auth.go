package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tracklite/tracklite/core"
	"github.com/tracklite/tracklite/pkg/crypto"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

// AuthService owns registration, login and identity resolution. It is
// the only place that turns a bearer token into an account, so the
// "deactivated means unauthenticated" rule is enforced exactly once.
type AuthService struct {
	storage     core.Storage
	passwords   crypto.PasswordHandler
	sessions    *SessionManager
	credentials *CredentialManager
	nanoid      *crypto.NanoIDGenerator
}

func NewAuthService(storage core.Storage, passwords crypto.PasswordHandler, sessions *SessionManager, credentials *CredentialManager) *AuthService {
	nanoid, _ := crypto.NewNanoID()
	return &AuthService{
		storage:     storage,
		passwords:   passwords,
		sessions:    sessions,
		credentials: credentials,
		nanoid:      nanoid,
	}
}

// SignUpInput contains the data needed to register a new account
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignUpResult contains the newly created account, its first session
// and its first bearer credential.
type SignUpResult struct {
	Account      *core.Account `json:"account"`
	Session      *core.Session `json:"session"`
	Token        string        `json:"token"`        // raw credential token (not the hash)
	SessionToken string        `json:"sessionToken"` // raw session token, for the cookie
}

func validateSignUp(input SignUpInput) error {
	switch {
	case input.Email == "":
		return core.ErrEmailRequired
	case !strings.Contains(input.Email, "@"):
		return core.ErrInvalidEmail
	case input.Password == "":
		return core.ErrPasswordRequired
	case len(input.Password) < minPasswordLength:
		return core.ErrPasswordTooShort
	case len(input.Password) > maxPasswordLength:
		return core.ErrPasswordTooLong
	}
	return nil
}

// SignUp registers a new account with email and password
func (s *AuthService) SignUp(input SignUpInput, ipAddress, userAgent string) (*SignUpResult, error) {
	if err := validateSignUp(input); err != nil {
		return nil, err
	}

	// Step 1: Check if the email is already taken
	existing, err := s.storage.GetAccountByEmail(input.Email)
	if err != nil && !errors.Is(err, core.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, core.ErrAccountExists
	}

	// Step 2: Hash the password
	hashed, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Create the account, active by default
	id, err := s.nanoid.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account id: %w", err)
	}

	now := time.Now()
	account := &core.Account{
		ID:           id,
		Email:        input.Email,
		Name:         input.Name,
		IsActive:     true,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateAccount(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Step 4: Issue the first bearer credential and session
	return s.establish(account, ipAddress, userAgent)
}

// SignInInput contains the credentials for authentication
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn authenticates an account with email and password
func (s *AuthService) SignIn(input SignInInput, ipAddress, userAgent string) (*SignUpResult, error) {
	// Step 1: Find the account by email
	account, err := s.storage.GetAccountByEmail(input.Email)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	// Step 2: A deactivated account can never sign back in
	if !account.IsActive {
		return nil, core.ErrInvalidCredentials
	}

	// Step 3: Verify the password
	valid, err := s.passwords.Verify(input.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	// Step 4: Issue a fresh credential and session
	return s.establish(account, ipAddress, userAgent)
}

func (s *AuthService) establish(account *core.Account, ipAddress, userAgent string) (*SignUpResult, error) {
	issued, err := s.credentials.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue credential: %w", err)
	}

	sessionResult, err := s.sessions.Create(account.ID, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SignUpResult{
		Account:      account,
		Session:      sessionResult.Session,
		Token:        issued.Token,
		SessionToken: sessionResult.Token,
	}, nil
}

// SignOut invalidates the presenting credential and session. Other
// credentials the account holds stay valid; only deactivation sweeps
// them all.
func (s *AuthService) SignOut(credentialToken, sessionToken string) error {
	if credentialToken != "" {
		if err := s.credentials.Revoke(credentialToken); err != nil && !errors.Is(err, core.ErrCredentialRevoked) {
			return fmt.Errorf("failed to revoke credential: %w", err)
		}
	}
	if sessionToken != "" {
		if err := s.sessions.Destroy(sessionToken); err != nil && !errors.Is(err, core.ErrSessionNotFound) {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
	}
	return nil
}

// Identify resolves a bearer token to its account. It tries the
// credential store first and falls back to session tokens, so both the
// API token and the cookie session authenticate a request. Tokens of
// deactivated accounts fail here, not in authorization.
func (s *AuthService) Identify(token string) (*core.Account, error) {
	if token == "" {
		return nil, core.ErrInvalidToken
	}

	accountID := ""
	if credential, err := s.credentials.Verify(token); err == nil {
		accountID = credential.AccountID
	} else if session, err := s.sessions.Verify(token); err == nil {
		accountID = session.AccountID
	} else {
		return nil, core.ErrInvalidToken
	}

	account, err := s.storage.GetAccountByID(accountID)
	if err != nil {
		return nil, core.ErrInvalidToken
	}
	if !account.IsActive {
		return nil, core.ErrAccountDeactivated
	}

	return account, nil
}

// GetSession returns the account and session a session token belongs to.
type SessionData struct {
	Account *core.Account `json:"account"`
	Session *core.Session `json:"session"`
}

func (s *AuthService) GetSession(token string) (*SessionData, error) {
	session, err := s.sessions.Verify(token)
	if err != nil {
		return nil, err
	}

	account, err := s.storage.GetAccountByID(session.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if !account.IsActive {
		return nil, core.ErrAccountDeactivated
	}

	return &SessionData{Account: account, Session: session}, nil
}
