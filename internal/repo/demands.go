package repo

import (
	"context"

	"github.com/lucsmac/team-dashboard/internal/domain"
)

const demandCols = `id, category, title, status, priority, stage, assignees, value, details, links`

func scanDemand(row interface{ Scan(...any) error }) (*domain.Demand, error) {
	var d domain.Demand
	if err := row.Scan(&d.ID, &d.Category, &d.Title, &d.Status, &d.Priority,
		&d.Stage, &d.Assignees, &d.Value, &d.Details, &d.Links); err != nil {
		return nil, wrapErr(err)
	}
	return &d, nil
}

func (r *Repository) ListDemands(ctx context.Context) ([]domain.Demand, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+demandCols+` FROM demands ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Demand
	for rows.Next() {
		d, err := scanDemand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *Repository) GetDemand(ctx context.Context, id int64) (*domain.Demand, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+demandCols+` FROM demands WHERE id=$1`, id)
	return scanDemand(row)
}

func (r *Repository) CreateDemand(ctx context.Context, d *domain.Demand) error {
	const q = `INSERT INTO demands(category, title, status, priority, stage, assignees, value, details, links)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, d.Category, d.Title, d.Status, d.Priority,
		d.Stage, d.Assignees, d.Value, d.Details, d.Links).Scan(&d.ID)
	return wrapErr(err)
}

func (r *Repository) UpdateDemand(ctx context.Context, d *domain.Demand) error {
	const q = `UPDATE demands SET category=$2, title=$3, status=$4, priority=$5,
        stage=$6, assignees=$7, value=$8, details=$9, links=$10 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, d.ID, d.Category, d.Title, d.Status,
		d.Priority, d.Stage, d.Assignees, d.Value, d.Details, d.Links)
	return expectRow(tag, err)
}

func (r *Repository) DeleteDemand(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM demands WHERE id=$1`, id)
	return expectRow(tag, err)
}
