package repo

import (
	"context"

	"github.com/lucsmac/team-dashboard/internal/domain"
)

const highlightCols = `id, type, text, severity, demand_id, task_id, devs, week_start, week_end`

func scanHighlight(row interface{ Scan(...any) error }) (*domain.Highlight, error) {
	var h domain.Highlight
	if err := row.Scan(&h.ID, &h.Type, &h.Text, &h.Severity, &h.DemandID,
		&h.TaskID, &h.Devs, &h.WeekStart, &h.WeekEnd); err != nil {
		return nil, wrapErr(err)
	}
	return &h, nil
}

func (r *Repository) ListHighlights(ctx context.Context) ([]domain.Highlight, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+highlightCols+` FROM highlights ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Highlight
	for rows.Next() {
		h, err := scanHighlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func (r *Repository) GetHighlight(ctx context.Context, id int64) (*domain.Highlight, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+highlightCols+` FROM highlights WHERE id=$1`, id)
	return scanHighlight(row)
}

func (r *Repository) CreateHighlight(ctx context.Context, h *domain.Highlight) error {
	const q = `INSERT INTO highlights(type, text, severity, demand_id, task_id, devs, week_start, week_end)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, h.Type, h.Text, h.Severity, h.DemandID,
		h.TaskID, h.Devs, h.WeekStart, h.WeekEnd).Scan(&h.ID)
	return wrapErr(err)
}

func (r *Repository) UpdateHighlight(ctx context.Context, h *domain.Highlight) error {
	const q = `UPDATE highlights SET type=$2, text=$3, severity=$4, demand_id=$5,
        task_id=$6, devs=$7, week_start=$8, week_end=$9 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, h.ID, h.Type, h.Text, h.Severity,
		h.DemandID, h.TaskID, h.Devs, h.WeekStart, h.WeekEnd)
	return expectRow(tag, err)
}

func (r *Repository) DeleteHighlight(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM highlights WHERE id=$1`, id)
	return expectRow(tag, err)
}
