package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lucsmac/team-dashboard/internal/domain"
)

const taskCols = `id, week_start, week_end, title, status, progress, demand_id, deadline, delivery_stage`

func scanTask(row interface{ Scan(...any) error }) (*domain.TimelineTask, error) {
	var t domain.TimelineTask
	if err := row.Scan(&t.ID, &t.WeekStart, &t.WeekEnd, &t.Title, &t.Status,
		&t.Progress, &t.DemandID, &t.Deadline, &t.DeliveryStage); err != nil {
		return nil, wrapErr(err)
	}
	return &t, nil
}

type taskAssignment struct {
	TaskID  int64
	DevID   int64
	DevName string
}

func (r *Repository) taskAssignments(ctx context.Context, taskID int64) ([]taskAssignment, error) {
	q := `SELECT a.task_id, a.dev_id, d.name
        FROM timeline_task_assignments a JOIN devs d ON d.id = a.dev_id`
	args := []any{}
	if taskID > 0 {
		q += ` WHERE a.task_id=$1`
		args = append(args, taskID)
	}
	q += ` ORDER BY a.task_id, a.dev_id`
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []taskAssignment
	for rows.Next() {
		var a taskAssignment
		if err := rows.Scan(&a.TaskID, &a.DevID, &a.DevName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) taskHighlights(ctx context.Context, taskID int64) ([]domain.Highlight, error) {
	q := `SELECT ` + highlightCols + ` FROM highlights WHERE task_id IS NOT NULL`
	args := []any{}
	if taskID > 0 {
		q = `SELECT ` + highlightCols + ` FROM highlights WHERE task_id=$1`
		args = append(args, taskID)
	}
	rows, err := r.db.Pool.Query(ctx, q+` ORDER BY id`, args...)
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

// ListTaskViews returns every task with assignees and highlights materialized.
// WeekType is left empty; the service layer classifies against its own clock.
func (r *Repository) ListTaskViews(ctx context.Context) ([]domain.TimelineTaskView, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+taskCols+` FROM timeline_tasks ORDER BY week_start, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var views []domain.TimelineTaskView
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.TimelineTaskView{TimelineTask: *t})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	assignments, err := r.taskAssignments(ctx, 0)
	if err != nil {
		return nil, err
	}
	highlights, err := r.taskHighlights(ctx, 0)
	if err != nil {
		return nil, err
	}

	byTask := map[int64]*domain.TimelineTaskView{}
	for i := range views {
		byTask[views[i].ID] = &views[i]
	}
	for _, a := range assignments {
		if v, ok := byTask[a.TaskID]; ok {
			v.DevIDs = append(v.DevIDs, a.DevID)
			v.Assignees = append(v.Assignees, a.DevName)
		}
	}
	for _, h := range highlights {
		if h.TaskID == nil {
			continue
		}
		if v, ok := byTask[*h.TaskID]; ok {
			v.Highlights = append(v.Highlights, h)
		}
	}
	return views, nil
}

func (r *Repository) GetTaskView(ctx context.Context, id int64) (*domain.TimelineTaskView, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+taskCols+` FROM timeline_tasks WHERE id=$1`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	v := &domain.TimelineTaskView{TimelineTask: *t}
	assignments, err := r.taskAssignments(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		v.DevIDs = append(v.DevIDs, a.DevID)
		v.Assignees = append(v.Assignees, a.DevName)
	}
	v.Highlights, err = r.taskHighlights(ctx, id)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func insertTaskRelations(ctx context.Context, tx pgx.Tx, taskID int64, devIDs []int64, highlights []domain.Highlight) error {
	if len(devIDs) == 0 && len(highlights) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	n := 0
	for _, devID := range devIDs {
		batch.Queue(`INSERT INTO timeline_task_assignments(task_id, dev_id) VALUES($1,$2)
            ON CONFLICT DO NOTHING`, taskID, devID)
		n++
	}
	for _, h := range highlights {
		typ := h.Type
		if typ == "" {
			typ = domain.HighlightBlockers
		}
		batch.Queue(`INSERT INTO highlights(type, text, severity, demand_id, task_id, devs, week_start, week_end)
            VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
			typ, h.Text, h.Severity, h.DemandID, taskID, h.Devs, h.WeekStart, h.WeekEnd)
		n++
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return wrapErr(err)
		}
	}
	return nil
}

// CreateTask writes the task plus its assignments and highlights in one
// transaction; a crash mid-write leaves nothing behind.
func (r *Repository) CreateTask(ctx context.Context, t *domain.TimelineTask, devIDs []int64, highlights []domain.Highlight) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `INSERT INTO timeline_tasks(week_start, week_end, title, status, progress, demand_id, deadline, delivery_stage)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`
	if err := tx.QueryRow(ctx, q, t.WeekStart, t.WeekEnd, t.Title, t.Status,
		t.Progress, t.DemandID, t.Deadline, t.DeliveryStage).Scan(&t.ID); err != nil {
		return wrapErr(err)
	}
	if err := insertTaskRelations(ctx, tx, t.ID, devIDs, highlights); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateTask rewrites the task row; non-nil devIDs/highlights replace the
// related rows wholesale, nil leaves them untouched.
func (r *Repository) UpdateTask(ctx context.Context, t *domain.TimelineTask, devIDs []int64, highlights []domain.Highlight) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `UPDATE timeline_tasks SET week_start=$2, week_end=$3, title=$4, status=$5,
        progress=$6, demand_id=$7, deadline=$8, delivery_stage=$9 WHERE id=$1`
	tag, err := tx.Exec(ctx, q, t.ID, t.WeekStart, t.WeekEnd, t.Title, t.Status,
		t.Progress, t.DemandID, t.Deadline, t.DeliveryStage)
	if err := expectRow(tag, err); err != nil {
		return err
	}
	if devIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM timeline_task_assignments WHERE task_id=$1`, t.ID); err != nil {
			return err
		}
	}
	if highlights != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM highlights WHERE task_id=$1`, t.ID); err != nil {
			return err
		}
	}
	if err := insertTaskRelations(ctx, tx, t.ID, devIDs, highlights); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeleteTask removes the task; assignments and highlights go with it via
// ON DELETE CASCADE.
func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM timeline_tasks WHERE id=$1`, id)
	return expectRow(tag, err)
}
