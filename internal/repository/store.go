package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"todolist/internal/model"
)

var (
	// ErrNotFound is returned by Update and Toggle for a missing id.
	ErrNotFound = errors.New("todo not found")
	// ErrConflict is returned by Insert when the id is already taken.
	ErrConflict = errors.New("todo id already exists")
	// ErrIO wraps failures of the underlying storage engine.
	ErrIO = errors.New("storage failure")
)

// TodoStore is the persistence contract for todos. Every call is atomic with
// respect to the others.
type TodoStore interface {
	// Load returns todos newest first, filtered by query when it is not blank.
	Load(ctx context.Context, query string) ([]model.Todo, error)
	// Add creates a todo with a fresh id.
	Add(ctx context.Context, title string, description *string) (model.Todo, error)
	// Insert stores a fully formed todo and fails with ErrConflict on a taken id.
	Insert(ctx context.Context, todo model.Todo) (model.Todo, error)
	// Update replaces title, description and completed of an existing todo.
	Update(ctx context.Context, todo model.Todo) error
	Toggle(ctx context.Context, id int64) error
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (model.Todo, bool, error)
	Count(ctx context.Context) (int64, error)
}

func ioError(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrIO) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrIO, err)
}

// idGenerator hands out millisecond timestamps, bumped past the last issued
// id and past any id already present.
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDGenerator(now func() time.Time) *idGenerator {
	if now == nil {
		now = time.Now
	}
	return &idGenerator{now: now}
}

func (g *idGenerator) next(exists func(id int64) (bool, error)) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	candidate := max(g.now().UnixMilli(), g.last+1)
	for {
		taken, err := exists(candidate)
		if err != nil {
			return 0, err
		}
		if !taken {
			break
		}
		candidate++
	}
	g.last = candidate
	return candidate, nil
}

// filterTodos keeps todos whose title or description contains query under
// Unicode case folding. Order is preserved.
func filterTodos(todos []model.Todo, query string) []model.Todo {
	query = strings.TrimSpace(query)
	if query == "" {
		return todos
	}
	folder := cases.Fold()
	needle := folder.String(query)

	filtered := make([]model.Todo, 0, len(todos))
	for _, todo := range todos {
		if strings.Contains(folder.String(todo.Title), needle) ||
			strings.Contains(folder.String(todo.DescriptionText()), needle) {
			filtered = append(filtered, todo)
		}
	}
	return filtered
}

func sortNewestFirst(todos []model.Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		}
		return todos[i].ID > todos[j].ID
	})
}

// prepareInsert normalizes a caller-built todo before it is stored.
func prepareInsert(todo model.Todo, now time.Time) model.Todo {
	todo.Description = model.NormalizeDescription(todo.Description)
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = now
	}
	todo.CreatedAt = todo.CreatedAt.UTC()
	return todo
}
