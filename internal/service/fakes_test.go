package service

import (
	"context"
	"errors"
	"sync"

	"todolist/internal/model"
	"todolist/internal/repository"
)

type fakeSource struct {
	mu      sync.Mutex
	todos   []model.RemoteTodo
	err     error
	calls   int
	release chan struct{}
}

func (f *fakeSource) FetchTodos(ctx context.Context) ([]model.RemoteTodo, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.RemoteTodo, len(f.todos))
	copy(out, f.todos)
	return out, nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func remoteTodos(n int) []model.RemoteTodo {
	todos := make([]model.RemoteTodo, 0, n)
	for i := 1; i <= n; i++ {
		todos = append(todos, model.RemoteTodo{
			ID:        int64(i),
			Todo:      "Remote task " + string(rune('A'+i-1)),
			Completed: i%2 == 0,
			UserID:    10 + int64(i),
		})
	}
	return todos
}

// flakyStore lets tests inject failures into a real store.
type flakyStore struct {
	repository.TodoStore

	mu            sync.Mutex
	loadErr       error
	addErr        error
	insertErrID   map[int64]error
	countOverride *int64
}

func newFlakyStore() *flakyStore {
	return &flakyStore{
		TodoStore:   repository.NewMemoryTodoRepository(),
		insertErrID: make(map[int64]error),
	}
}

func (f *flakyStore) setLoadErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadErr = err
}

// Load fails on a done ctx the way the SQL-backed stores do.
func (f *flakyStore) Load(ctx context.Context, query string) ([]model.Todo, error) {
	f.mu.Lock()
	err := f.loadErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.TodoStore.Load(ctx, query)
}

func (f *flakyStore) Add(ctx context.Context, title string, description *string) (model.Todo, error) {
	f.mu.Lock()
	err := f.addErr
	f.mu.Unlock()
	if err != nil {
		return model.Todo{}, err
	}
	return f.TodoStore.Add(ctx, title, description)
}

func (f *flakyStore) Insert(ctx context.Context, todo model.Todo) (model.Todo, error) {
	f.mu.Lock()
	err := f.insertErrID[todo.ID]
	f.mu.Unlock()
	if err != nil {
		return model.Todo{}, err
	}
	return f.TodoStore.Insert(ctx, todo)
}

func (f *flakyStore) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	override := f.countOverride
	f.mu.Unlock()
	if override != nil {
		return *override, nil
	}
	return f.TodoStore.Count(ctx)
}

type failingSettings struct {
	readErr  error
	writeErr error
}

func (f failingSettings) Bool(string) (bool, error) {
	return false, f.readErr
}

func (f failingSettings) SetBool(string, bool) error {
	return f.writeErr
}

var errDisk = errors.Join(repository.ErrIO, errors.New("disk unplugged"))
