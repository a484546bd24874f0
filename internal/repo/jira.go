package repo

import (
	"context"
	"time"

	"github.com/lucsmac/team-dashboard/internal/domain"
)

const jiraCols = `id, name, jira_url, project_key, board_id, api_token, email, is_active, last_sync_at`

func scanJira(row interface{ Scan(...any) error }) (*domain.JiraIntegration, error) {
	var j domain.JiraIntegration
	if err := row.Scan(&j.ID, &j.Name, &j.JiraURL, &j.ProjectKey, &j.BoardID,
		&j.APIToken, &j.Email, &j.IsActive, &j.LastSyncAt); err != nil {
		return nil, wrapErr(err)
	}
	return &j, nil
}

func (r *Repository) ListJiraIntegrations(ctx context.Context) ([]domain.JiraIntegration, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+jiraCols+` FROM jira_integrations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.JiraIntegration
	for rows.Next() {
		j, err := scanJira(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

func (r *Repository) GetJiraIntegration(ctx context.Context, id int64) (*domain.JiraIntegration, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+jiraCols+` FROM jira_integrations WHERE id=$1`, id)
	return scanJira(row)
}

func (r *Repository) CreateJiraIntegration(ctx context.Context, j *domain.JiraIntegration) error {
	const q = `INSERT INTO jira_integrations(name, jira_url, project_key, board_id, api_token, email, is_active)
        VALUES($1,$2,$3,$4,$5,$6,$7) RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, j.Name, j.JiraURL, j.ProjectKey, j.BoardID,
		j.APIToken, j.Email, j.IsActive).Scan(&j.ID)
	return wrapErr(err)
}

func (r *Repository) UpdateJiraIntegration(ctx context.Context, j *domain.JiraIntegration) error {
	const q = `UPDATE jira_integrations SET name=$2, jira_url=$3, project_key=$4,
        board_id=$5, api_token=$6, email=$7, is_active=$8 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, j.ID, j.Name, j.JiraURL, j.ProjectKey,
		j.BoardID, j.APIToken, j.Email, j.IsActive)
	return expectRow(tag, err)
}

func (r *Repository) DeleteJiraIntegration(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM jira_integrations WHERE id=$1`, id)
	return expectRow(tag, err)
}

func (r *Repository) TouchJiraSync(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE jira_integrations SET last_sync_at=$2 WHERE id=$1`, id, at)
	return expectRow(tag, err)
}
