package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lucsmac/team-dashboard/internal/config"
	"github.com/lucsmac/team-dashboard/internal/domain"
	"github.com/rs/zerolog"
)

type DB struct {
	Pool *pgxpool.Pool
	log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(ctx2); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	return &DB{Pool: pool, log: log}
}

func (d *DB) Close() { d.Pool.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS devs(
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT '',
    seniority TEXT NOT NULL DEFAULT '',
    last_week TEXT NOT NULL DEFAULT '',
    this_week TEXT NOT NULL DEFAULT '',
    next_week TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS demands(
    id BIGSERIAL PRIMARY KEY,
    category TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL DEFAULT '',
    stage TEXT NOT NULL DEFAULT '',
    assignees TEXT[] NOT NULL DEFAULT '{}',
    value TEXT NOT NULL DEFAULT '',
    details TEXT NOT NULL DEFAULT '',
    links TEXT[] NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS deliveries(
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    value_type TEXT NOT NULL DEFAULT '',
    items TEXT[] NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS timeline_tasks(
    id BIGSERIAL PRIMARY KEY,
    week_start TIMESTAMPTZ NOT NULL,
    week_end TIMESTAMPTZ NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT '',
    progress INT NOT NULL DEFAULT 0,
    demand_id BIGINT REFERENCES demands(id) ON DELETE SET NULL,
    deadline TIMESTAMPTZ,
    delivery_stage TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS timeline_task_assignments(
    task_id BIGINT NOT NULL REFERENCES timeline_tasks(id) ON DELETE CASCADE,
    dev_id BIGINT NOT NULL REFERENCES devs(id) ON DELETE CASCADE,
    PRIMARY KEY(task_id, dev_id)
);
CREATE TABLE IF NOT EXISTS highlights(
    id BIGSERIAL PRIMARY KEY,
    type TEXT NOT NULL,
    text TEXT NOT NULL,
    severity TEXT NOT NULL DEFAULT '',
    demand_id BIGINT REFERENCES demands(id) ON DELETE SET NULL,
    task_id BIGINT REFERENCES timeline_tasks(id) ON DELETE CASCADE,
    devs TEXT[] NOT NULL DEFAULT '{}',
    week_start TIMESTAMPTZ,
    week_end TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS dev_week_allocations(
    id BIGSERIAL PRIMARY KEY,
    dev_id BIGINT NOT NULL REFERENCES devs(id) ON DELETE CASCADE,
    week_start TIMESTAMPTZ NOT NULL,
    week_end TIMESTAMPTZ NOT NULL,
    allocation_type TEXT NOT NULL,
    allocation_percent INT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    UNIQUE(dev_id, week_start, allocation_type)
);
CREATE TABLE IF NOT EXISTS config(
    key TEXT PRIMARY KEY,
    value JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS jira_integrations(
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    jira_url TEXT NOT NULL,
    project_key TEXT NOT NULL DEFAULT '',
    board_id BIGINT NOT NULL DEFAULT 0,
    api_token TEXT NOT NULL,
    email TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT true,
    last_sync_at TIMESTAMPTZ
);
`

// EnsureSchema bootstraps the tables on startup. Statements are idempotent so
// repeated starts are safe.
func (d *DB) EnsureSchema(ctx context.Context) error {
	_, err := d.Pool.Exec(ctx, schema)
	return err
}

type Repository struct {
	db  *DB
	log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
	return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
	var ok bool
	err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
	if !ok && err == nil {
		return errors.New("advisory unlock returned false")
	}
	return err
}

// wrapErr maps driver errors onto the domain taxonomy: no rows → ErrNotFound,
// unique violation → ErrConflict.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrConflict
	}
	return err
}

// expectRow turns a zero-rows-affected exec into ErrNotFound; update/delete
// targets must exist.
func expectRow(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
