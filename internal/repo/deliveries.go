package repo

import (
	"context"

	"github.com/lucsmac/team-dashboard/internal/domain"
)

func scanDelivery(row interface{ Scan(...any) error }) (*domain.Delivery, error) {
	var d domain.Delivery
	if err := row.Scan(&d.ID, &d.Title, &d.ValueType, &d.Items); err != nil {
		return nil, wrapErr(err)
	}
	return &d, nil
}

func (r *Repository) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, title, value_type, items FROM deliveries ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *Repository) GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT id, title, value_type, items FROM deliveries WHERE id=$1`, id)
	return scanDelivery(row)
}

func (r *Repository) CreateDelivery(ctx context.Context, d *domain.Delivery) error {
	const q = `INSERT INTO deliveries(title, value_type, items) VALUES($1,$2,$3) RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, d.Title, d.ValueType, d.Items).Scan(&d.ID)
	return wrapErr(err)
}

func (r *Repository) UpdateDelivery(ctx context.Context, d *domain.Delivery) error {
	const q = `UPDATE deliveries SET title=$2, value_type=$3, items=$4 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, d.ID, d.Title, d.ValueType, d.Items)
	return expectRow(tag, err)
}

func (r *Repository) DeleteDelivery(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM deliveries WHERE id=$1`, id)
	return expectRow(tag, err)
}
