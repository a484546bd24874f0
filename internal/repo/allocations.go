package repo

import (
	"context"
	"time"

	"github.com/lucsmac/team-dashboard/internal/domain"
)

const allocationCols = `id, dev_id, week_start, week_end, allocation_type, allocation_percent, notes`

func scanAllocation(row interface{ Scan(...any) error }) (*domain.DevWeekAllocation, error) {
	var a domain.DevWeekAllocation
	if err := row.Scan(&a.ID, &a.DevID, &a.WeekStart, &a.WeekEnd,
		&a.AllocationType, &a.AllocationPercent, &a.Notes); err != nil {
		return nil, wrapErr(err)
	}
	return &a, nil
}

func (r *Repository) ListAllocations(ctx context.Context, devID int64, weekStart *time.Time) ([]domain.DevWeekAllocation, error) {
	q := `SELECT ` + allocationCols + ` FROM dev_week_allocations WHERE 1=1`
	args := []any{}
	if devID > 0 {
		args = append(args, devID)
		q += ` AND dev_id=$1`
	}
	if weekStart != nil {
		args = append(args, *weekStart)
		if devID > 0 {
			q += ` AND week_start=$2`
		} else {
			q += ` AND week_start=$1`
		}
	}
	rows, err := r.db.Pool.Query(ctx, q+` ORDER BY week_start, dev_id, allocation_type`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.DevWeekAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *Repository) AllocationsForDevWeek(ctx context.Context, devID int64, weekStart time.Time) ([]domain.DevWeekAllocation, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+allocationCols+` FROM dev_week_allocations
        WHERE dev_id=$1 AND week_start=$2 ORDER BY allocation_type`, devID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.DevWeekAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *Repository) AllocationsForWeek(ctx context.Context, weekStart time.Time) ([]domain.DevWeekAllocation, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+allocationCols+` FROM dev_week_allocations
        WHERE week_start=$1 ORDER BY dev_id, allocation_type`, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.DevWeekAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *Repository) UpsertAllocation(ctx context.Context, a *domain.DevWeekAllocation) error {
	const q = `INSERT INTO dev_week_allocations(dev_id, week_start, week_end, allocation_type, allocation_percent, notes)
        VALUES($1,$2,$3,$4,$5,$6)
        ON CONFLICT (dev_id, week_start, allocation_type) DO UPDATE SET
            week_end=EXCLUDED.week_end,
            allocation_percent=EXCLUDED.allocation_percent,
            notes=EXCLUDED.notes
        RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, a.DevID, a.WeekStart, a.WeekEnd,
		a.AllocationType, a.AllocationPercent, a.Notes).Scan(&a.ID)
	return wrapErr(err)
}

func (r *Repository) DeleteAllocation(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM dev_week_allocations WHERE id=$1`, id)
	return expectRow(tag, err)
}
