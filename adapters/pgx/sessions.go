package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tracklite/tracklite/core"
)

const sessionColumns = `id, account_id, token_hash, ip_address, user_agent, expires_at, created_at, updated_at`

func scanSession(row pgx.Row) (*core.Session, error) {
	var s core.Session
	err := row.Scan(&s.ID, &s.AccountID, &s.TokenHash, &s.IPAddress, &s.UserAgent,
		&s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (a *Adapter) CreateSession(s *core.Session) error {
	_, err := a.pool.Exec(context.Background(),
		`INSERT INTO sessions (id, account_id, token_hash, ip_address, user_agent, expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.AccountID, s.TokenHash, s.IPAddress, s.UserAgent, s.ExpiresAt, s.CreatedAt, s.UpdatedAt)
	return err
}

func (a *Adapter) GetSessionByHash(tokenHash string) (*core.Session, error) {
	row := a.pool.QueryRow(context.Background(),
		`SELECT `+sessionColumns+` FROM sessions WHERE token_hash = $1`, tokenHash)
	return scanSession(row)
}

func (a *Adapter) GetSessionByID(id string) (*core.Session, error) {
	row := a.pool.QueryRow(context.Background(),
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

func (a *Adapter) GetAccountSessions(accountID string) ([]*core.Session, error) {
	rows, err := a.pool.Query(context.Background(),
		`SELECT `+sessionColumns+` FROM sessions WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*core.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (a *Adapter) DeleteSessionByID(id string) error {
	tag, err := a.pool.Exec(context.Background(),
		`DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteSessionByHash(tokenHash string) error {
	tag, err := a.pool.Exec(context.Background(),
		`DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteAccountSessions(accountID string) (int, error) {
	tag, err := a.pool.Exec(context.Background(),
		`DELETE FROM sessions WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (a *Adapter) DeleteExpiredSessions() (int, error) {
	tag, err := a.pool.Exec(context.Background(),
		`DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
