package repo

import (
	"context"

	"github.com/lucsmac/team-dashboard/internal/domain"
)

const devCols = `id, name, color, role, seniority, last_week, this_week, next_week`

func scanDev(row interface{ Scan(...any) error }) (*domain.Dev, error) {
	var d domain.Dev
	if err := row.Scan(&d.ID, &d.Name, &d.Color, &d.Role, &d.Seniority,
		&d.LastWeek, &d.ThisWeek, &d.NextWeek); err != nil {
		return nil, wrapErr(err)
	}
	return &d, nil
}

func (r *Repository) ListDevs(ctx context.Context) ([]domain.Dev, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+devCols+` FROM devs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Dev
	for rows.Next() {
		d, err := scanDev(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *Repository) GetDev(ctx context.Context, id int64) (*domain.Dev, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+devCols+` FROM devs WHERE id=$1`, id)
	return scanDev(row)
}

func (r *Repository) CreateDev(ctx context.Context, d *domain.Dev) error {
	const q = `INSERT INTO devs(name, color, role, seniority, last_week, this_week, next_week)
        VALUES($1,$2,$3,$4,$5,$6,$7) RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, d.Name, d.Color, d.Role, d.Seniority,
		d.LastWeek, d.ThisWeek, d.NextWeek).Scan(&d.ID)
	return wrapErr(err)
}

func (r *Repository) UpdateDev(ctx context.Context, d *domain.Dev) error {
	const q = `UPDATE devs SET name=$2, color=$3, role=$4, seniority=$5,
        last_week=$6, this_week=$7, next_week=$8 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, d.ID, d.Name, d.Color, d.Role, d.Seniority,
		d.LastWeek, d.ThisWeek, d.NextWeek)
	return expectRow(tag, err)
}

func (r *Repository) DeleteDev(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM devs WHERE id=$1`, id)
	return expectRow(tag, err)
}
