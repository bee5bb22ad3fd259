package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboard/internal/db"
)

// SQLStore keeps tasks in postgres or mysql.
type SQLStore struct {
	DB     *sql.DB
	Driver string
}

func NewSQLStore(dbx *sql.DB, driver string) *SQLStore {
	return &SQLStore{DB: dbx, Driver: driver}
}

const selectTask = `SELECT id, title, description, completed, created_at FROM tasks`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (Task, error) {
	var t Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt); err != nil {
		return Task{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (s *SQLStore) q(query string) string {
	return db.Rebind(s.Driver, query)
}

func (s *SQLStore) List(ctx context.Context) ([]Task, error) {
	rows, err := s.DB.QueryContext(ctx, selectTask+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Get(ctx context.Context, id int) (Task, error) {
	return s.get(ctx, s.DB, selectTask+` WHERE id = ?`, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) get(ctx context.Context, q queryer, query string, id int) (Task, error) {
	t, err := scanTask(q.QueryRowContext(ctx, s.q(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *SQLStore) Create(ctx context.Context, in NewTask) (Task, error) {
	in, err := in.normalize()
	if err != nil {
		return Task{}, err
	}

	if s.Driver == "postgres" {
		t := Task{Title: in.Title, Description: in.Description, Completed: in.Completed}
		err := s.DB.QueryRowContext(ctx, s.q(`
			INSERT INTO tasks (title, description, completed)
			VALUES (?, ?, ?)
			RETURNING id, created_at
		`), in.Title, in.Description, in.Completed).Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			return Task{}, fmt.Errorf("insert task: %w", err)
		}
		t.CreatedAt = t.CreatedAt.UTC()
		return t, nil
	}

	res, err := s.DB.ExecContext(ctx, s.q(`
		INSERT INTO tasks (title, description, completed)
		VALUES (?, ?, ?)
	`), in.Title, in.Description, in.Completed)
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	return s.Get(ctx, int(id))
}

func (s *SQLStore) Update(ctx context.Context, id int, p Patch) (Task, error) {
	if err := p.validate(); err != nil {
		return Task{}, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Task{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// row lock: a concurrent toggle waits instead of being overwritten
	cur, err := s.get(ctx, tx, selectTask+` WHERE id = ? FOR UPDATE`, id)
	if err != nil {
		return Task{}, err
	}
	next := p.apply(cur)

	// mysql reports 0 affected rows when nothing changed, so the row count is not checked here.
	_, err = tx.ExecContext(ctx, s.q(`
		UPDATE tasks
		SET title = ?, description = ?, completed = ?
		WHERE id = ?
	`), next.Title, next.Description, next.Completed, id)
	if err != nil {
		return Task{}, fmt.Errorf("update task %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return Task{}, fmt.Errorf("commit: %w", err)
	}
	return next, nil
}

func (s *SQLStore) Delete(ctx context.Context, id int) error {
	res, err := s.DB.ExecContext(ctx, s.q(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Toggle(ctx context.Context, id int) (Task, error) {
	res, err := s.DB.ExecContext(ctx, s.q(`UPDATE tasks SET completed = NOT completed WHERE id = ?`), id)
	if err != nil {
		return Task{}, fmt.Errorf("toggle task %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Task{}, fmt.Errorf("toggle task %d: %w", id, err)
	}
	if affected == 0 {
		return Task{}, ErrNotFound
	}
	return s.Get(ctx, id)
}
