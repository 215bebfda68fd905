package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"todolist/internal/model"
)

// MemoryTodoRepository keeps todos in a map. Nothing survives the process.
type MemoryTodoRepository struct {
	mu    sync.RWMutex
	todos map[int64]model.Todo
	ids   *idGenerator
}

func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{
		todos: make(map[int64]model.Todo),
		ids:   newIDGenerator(time.Now),
	}
}

func (r *MemoryTodoRepository) Load(_ context.Context, query string) ([]model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]model.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		todos = append(todos, cloneTodo(todo))
	}
	sortNewestFirst(todos)
	return filterTodos(todos, query), nil
}

func (r *MemoryTodoRepository) Add(_ context.Context, title string, description *string) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.ids.next(func(id int64) (bool, error) {
		_, ok := r.todos[id]
		return ok, nil
	})
	if err != nil {
		return model.Todo{}, err
	}
	todo := model.Todo{
		ID:          id,
		Title:       title,
		Description: model.NormalizeDescription(description),
		CreatedAt:   r.ids.now().UTC(),
	}
	r.todos[id] = todo
	return cloneTodo(todo), nil
}

func (r *MemoryTodoRepository) Insert(_ context.Context, todo model.Todo) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[todo.ID]; ok {
		return model.Todo{}, fmt.Errorf("insert todo %d: %w", todo.ID, ErrConflict)
	}
	todo = prepareInsert(todo, r.ids.now())
	r.todos[todo.ID] = todo
	return cloneTodo(todo), nil
}

func (r *MemoryTodoRepository) Update(_ context.Context, todo model.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.todos[todo.ID]
	if !ok {
		return fmt.Errorf("update todo %d: %w", todo.ID, ErrNotFound)
	}
	existing.Title = todo.Title
	existing.Description = model.NormalizeDescription(todo.Description)
	existing.Completed = todo.Completed
	r.todos[todo.ID] = existing
	return nil
}

func (r *MemoryTodoRepository) Toggle(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.todos[id]
	if !ok {
		return fmt.Errorf("toggle todo %d: %w", id, ErrNotFound)
	}
	existing.Completed = !existing.Completed
	r.todos[id] = existing
	return nil
}

func (r *MemoryTodoRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.todos, id)
	return nil
}

func (r *MemoryTodoRepository) Get(_ context.Context, id int64) (model.Todo, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	todo, ok := r.todos[id]
	if !ok {
		return model.Todo{}, false, nil
	}
	return cloneTodo(todo), true, nil
}

func (r *MemoryTodoRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.todos)), nil
}

// cloneTodo detaches the description pointer from the stored record.
func cloneTodo(todo model.Todo) model.Todo {
	todo.Description = model.NormalizeDescription(todo.Description)
	return todo
}
