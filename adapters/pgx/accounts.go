package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tracklite/tracklite/core"
)

func (a *Adapter) CreateAccount(acc *core.Account) error {
	_, err := a.pool.Exec(context.Background(),
		`INSERT INTO accounts (id, email, name, is_admin, is_active, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		acc.ID, acc.Email, acc.Name, acc.IsAdmin, acc.IsActive, acc.PasswordHash, acc.CreatedAt, acc.UpdatedAt)
	return err
}

func (a *Adapter) scanAccount(row pgx.Row) (*core.Account, error) {
	var acc core.Account
	err := row.Scan(&acc.ID, &acc.Email, &acc.Name, &acc.IsAdmin, &acc.IsActive,
		&acc.PasswordHash, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

const accountColumns = `id, email, name, is_admin, is_active, password_hash, created_at, updated_at`

func (a *Adapter) GetAccountByID(id string) (*core.Account, error) {
	row := a.pool.QueryRow(context.Background(),
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return a.scanAccount(row)
}

func (a *Adapter) GetAccountByEmail(email string) (*core.Account, error) {
	row := a.pool.QueryRow(context.Background(),
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return a.scanAccount(row)
}

func (a *Adapter) UpdateAccount(acc *core.Account) error {
	tag, err := a.pool.Exec(context.Background(),
		`UPDATE accounts SET email = $2, name = $3, is_admin = $4, is_active = $5,
		        password_hash = $6, updated_at = NOW()
		 WHERE id = $1`,
		acc.ID, acc.Email, acc.Name, acc.IsAdmin, acc.IsActive, acc.PasswordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}

func (a *Adapter) SetAccountActive(id string, active bool) error {
	tag, err := a.pool.Exec(context.Background(),
		`UPDATE accounts SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}
