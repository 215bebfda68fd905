package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"todolist/internal/model"
)

// createdAtLayout is fixed width so created_at sorts correctly as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLTodoRepository is a TodoStore on database/sql with the pure-Go SQLite
// driver. It needs no cgo.
type SQLTodoRepository struct {
	db  *sql.DB
	mu  sync.RWMutex
	ids *idGenerator
}

func OpenSQL(dbPath string) (*SQLTodoRepository, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &SQLTodoRepository{db: db, ids: newIDGenerator(time.Now)}
	if err := r.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLTodoRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLTodoRepository) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT DEFAULT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos (created_at);`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func (r *SQLTodoRepository) Load(ctx context.Context, query string) ([]model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx, `SELECT id, title, description, completed, created_at FROM todos ORDER BY created_at DESC, id DESC;`)
	if err != nil {
		return nil, ioError("load todos", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, ioError("load todos", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("load todos", err)
	}
	return filterTodos(todos, query), nil
}

func (r *SQLTodoRepository) Add(ctx context.Context, title string, description *string) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var todo model.Todo
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		id, err := r.ids.next(func(id int64) (bool, error) { return rowExists(ctx, tx, id) })
		if err != nil {
			return err
		}
		todo = model.Todo{
			ID:          id,
			Title:       title,
			Description: model.NormalizeDescription(description),
			CreatedAt:   r.ids.now().UTC(),
		}
		return insertRow(ctx, tx, todo)
	})
	if err != nil {
		return model.Todo{}, ioError("add todo", err)
	}
	return todo, nil
}

func (r *SQLTodoRepository) Insert(ctx context.Context, todo model.Todo) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo = prepareInsert(todo, r.ids.now())
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := rowExists(ctx, tx, todo.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("insert todo %d: %w", todo.ID, ErrConflict)
		}
		return insertRow(ctx, tx, todo)
	})
	if err != nil {
		return model.Todo{}, ioError(fmt.Sprintf("insert todo %d", todo.ID), err)
	}
	return todo, nil
}

func (r *SQLTodoRepository) Update(ctx context.Context, todo model.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE todos SET title = ?, description = ?, completed = ? WHERE id = ?;`,
			todo.Title, nullString(model.NormalizeDescription(todo.Description)), boolInt(todo.Completed), todo.ID)
		if err != nil {
			return err
		}
		return requireAffected(res, fmt.Sprintf("update todo %d", todo.ID))
	})
	if err != nil {
		return ioError(fmt.Sprintf("update todo %d", todo.ID), err)
	}
	return nil
}

func (r *SQLTodoRepository) Toggle(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE todos SET completed = 1 - completed WHERE id = ?;`, id)
		if err != nil {
			return err
		}
		return requireAffected(res, fmt.Sprintf("toggle todo %d", id))
	})
	if err != nil {
		return ioError(fmt.Sprintf("toggle todo %d", id), err)
	}
	return nil
}

func (r *SQLTodoRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = ?;`, id)
		return err
	})
	if err != nil {
		return ioError(fmt.Sprintf("delete todo %d", id), err)
	}
	return nil
}

func (r *SQLTodoRepository) Get(ctx context.Context, id int64) (model.Todo, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRowContext(ctx, `SELECT id, title, description, completed, created_at FROM todos WHERE id = ?;`, id)
	todo, err := scanTodo(row)
	switch {
	case err == nil:
		return todo, true, nil
	case errors.Is(err, sql.ErrNoRows):
		return model.Todo{}, false, nil
	default:
		return model.Todo{}, false, ioError(fmt.Sprintf("get todo %d", id), err)
	}
}

func (r *SQLTodoRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos;`).Scan(&n); err != nil {
		return 0, ioError("count todos", err)
	}
	return n, nil
}

func (r *SQLTodoRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (model.Todo, error) {
	var t model.Todo
	var description sql.NullString
	var completed int
	var createdStr string
	if err := row.Scan(&t.ID, &t.Title, &description, &completed, &createdStr); err != nil {
		return model.Todo{}, err
	}
	if description.Valid {
		t.Description = model.NormalizeDescription(&description.String)
	}
	t.Completed = completed == 1
	created, err := time.Parse(createdAtLayout, createdStr)
	if err != nil {
		return model.Todo{}, fmt.Errorf("parse created_at %q: %w", createdStr, err)
	}
	t.CreatedAt = created
	return t, nil
}

func insertRow(ctx context.Context, tx *sql.Tx, todo model.Todo) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO todos (id, title, description, completed, created_at) VALUES (?, ?, ?, ?, ?);`,
		todo.ID, todo.Title, nullString(todo.Description), boolInt(todo.Completed), todo.CreatedAt.UTC().Format(createdAtLayout))
	return err
}

func rowExists(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos WHERE id = ?;`, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
