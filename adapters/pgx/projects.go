package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tracklite/tracklite/core"
)

const projectColumns = `id, owner_id, name, description, status, archived_at, created_at, updated_at`

func scanProject(row pgx.Row) (*core.Project, error) {
	var p core.Project
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Status,
		&p.ArchivedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (a *Adapter) CreateProject(p *core.Project) error {
	_, err := a.pool.Exec(context.Background(),
		`INSERT INTO projects (id, owner_id, name, description, status, archived_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.OwnerID, p.Name, p.Description, p.Status, p.ArchivedAt, p.CreatedAt, p.UpdatedAt)
	return err
}

func (a *Adapter) GetProjectByID(id string) (*core.Project, error) {
	row := a.pool.QueryRow(context.Background(),
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func (a *Adapter) ListProjects() ([]*core.Project, error) {
	rows, err := a.pool.Query(context.Background(),
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*core.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (a *Adapter) UpdateProject(p *core.Project) error {
	tag, err := a.pool.Exec(context.Background(),
		`UPDATE projects SET name = $2, description = $3, status = $4,
		        archived_at = $5, updated_at = $6
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Status, p.ArchivedAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrProjectNotFound
	}
	return nil
}
