package repo

import (
	"context"
	"encoding/json"

	"github.com/lucsmac/team-dashboard/internal/domain"
)

func (r *Repository) ListConfig(ctx context.Context) ([]domain.ConfigEntry, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT key, value FROM config ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.ConfigEntry
	for rows.Next() {
		var e domain.ConfigEntry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) GetConfig(ctx context.Context, key string) (*domain.ConfigEntry, error) {
	var e domain.ConfigEntry
	e.Key = key
	err := r.db.Pool.QueryRow(ctx, `SELECT value FROM config WHERE key=$1`, key).Scan(&e.Value)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &e, nil
}

func (r *Repository) SetConfig(ctx context.Context, key string, value json.RawMessage) error {
	const q = `INSERT INTO config(key, value) VALUES($1,$2)
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value`
	_, err := r.db.Pool.Exec(ctx, q, key, value)
	return wrapErr(err)
}

func (r *Repository) DeleteConfig(ctx context.Context, key string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM config WHERE key=$1`, key)
	return expectRow(tag, err)
}
