package db

import (
	"context"

	"github.com/jonathan/proposal-agent/internal/types"
)

// AddProject validates and persists a project, returning its assigned id.
// Projects are append-only: there is no update or delete path.
func (db *DB) AddProject(ctx context.Context, project *types.Project) (int64, error) {
	if err := project.Validate(); err != nil {
		return 0, err
	}

	tags := types.NormalizeTags(project.TechTags)

	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO projects (name, description, tech_tags, outcomes, vertical, portfolio_link)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		 RETURNING id`,
		project.Name, project.Description, tags, project.Outcomes,
		project.Vertical, project.PortfolioLink,
	).Scan(&id)
	if err != nil {
		return 0, &StorageError{Op: "add project", Cause: err}
	}
	return id, nil
}

// ListProjects returns every stored project in insertion order.
func (db *DB) ListProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, description, tech_tags, outcomes,
		        COALESCE(vertical, ''), COALESCE(portfolio_link, ''),
		        created_at, updated_at
		 FROM projects ORDER BY id`,
	)
	if err != nil {
		return nil, &StorageError{Op: "list projects", Cause: err}
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		var p types.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.TechTags, &p.Outcomes,
			&p.Vertical, &p.PortfolioLink, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, &StorageError{Op: "scan project", Cause: err}
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list projects", Cause: err}
	}
	return projects, nil
}
