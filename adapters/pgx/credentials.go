package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tracklite/tracklite/core"
)

func (a *Adapter) CreateCredential(c *core.Credential) error {
	_, err := a.pool.Exec(context.Background(),
		`INSERT INTO credentials (id, account_id, token_hash, created_at)
		 VALUES ($1, $2, $3, $4)`,
		c.ID, c.AccountID, c.TokenHash, c.CreatedAt)
	return err
}

func (a *Adapter) GetCredentialByHash(tokenHash string) (*core.Credential, error) {
	var c core.Credential
	err := a.pool.QueryRow(context.Background(),
		`SELECT id, account_id, token_hash, created_at FROM credentials WHERE token_hash = $1`,
		tokenHash).Scan(&c.ID, &c.AccountID, &c.TokenHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrCredentialRevoked
		}
		return nil, err
	}
	return &c, nil
}

func (a *Adapter) GetAccountCredentials(accountID string) ([]*core.Credential, error) {
	rows, err := a.pool.Query(context.Background(),
		`SELECT id, account_id, token_hash, created_at FROM credentials WHERE account_id = $1`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*core.Credential
	for rows.Next() {
		var c core.Credential
		if err := rows.Scan(&c.ID, &c.AccountID, &c.TokenHash, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (a *Adapter) DeleteCredentialByHash(tokenHash string) error {
	tag, err := a.pool.Exec(context.Background(),
		`DELETE FROM credentials WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrCredentialRevoked
	}
	return nil
}

func (a *Adapter) DeleteAccountCredentials(accountID string) (int, error) {
	tag, err := a.pool.Exec(context.Background(),
		`DELETE FROM credentials WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
