package service

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"todolist/internal/model"
	"todolist/internal/repository"
)

// SeedRunner is satisfied by *Seeder.
type SeedRunner interface {
	Run(ctx context.Context) (SeedResult, error)
}

// Controller is the view-model the front-ends talk to. It holds the visible
// list and the search term; store failures are logged and never returned.
type Controller struct {
	store  repository.TodoStore
	logger *log.Logger

	mu         sync.RWMutex
	todos      []model.Todo
	searchText string

	seedDone   chan struct{}
	seedResult SeedResult
	seedErr    error
}

// NewController starts the seeding task in the background and loads the
// current store contents before returning.
func NewController(ctx context.Context, store repository.TodoStore, seeder SeedRunner, logger *log.Logger) *Controller {
	c := &Controller{
		store:    store,
		logger:   logger,
		seedDone: make(chan struct{}),
	}
	if seeder == nil {
		close(c.seedDone)
	} else {
		go c.seed(ctx, seeder)
	}
	c.Reload(ctx)
	return c
}

func (c *Controller) seed(ctx context.Context, seeder SeedRunner) {
	defer close(c.seedDone)

	result, err := seeder.Run(ctx)
	c.mu.Lock()
	c.seedResult, c.seedErr = result, err
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("seeding deferred", "err", err)
		return
	}
	if result.Imported() {
		c.Reload(ctx)
	}
}

// SeedDone is closed once the seeding task has finished.
func (c *Controller) SeedDone() <-chan struct{} {
	return c.seedDone
}

// Wait blocks until seeding has finished and returns its outcome.
func (c *Controller) Wait() (SeedResult, error) {
	<-c.seedDone
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seedResult, c.seedErr
}

// Todos returns a copy of the visible list.
func (c *Controller) Todos() []model.Todo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Todo, len(c.todos))
	copy(out, c.todos)
	return out
}

func (c *Controller) SearchText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searchText
}

// Reload refreshes the visible list using the current search term.
func (c *Controller) Reload(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reloadLocked(ctx)
}

func (c *Controller) Search(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchText = text
	c.reloadLocked(ctx)
}

// AddTodo creates a todo. ok is false when the store rejected it.
func (c *Controller) AddTodo(ctx context.Context, title string, description *string) (model.Todo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	todo, err := c.store.Add(ctx, title, description)
	if err != nil {
		c.logger.Error("add todo", "title", title, "err", err)
		return model.Todo{}, false
	}
	c.logger.Info("todo added", "id", todo.ID)
	c.reloadLocked(ctx)
	return todo, true
}

func (c *Controller) ToggleTodo(ctx context.Context, id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Toggle(ctx, id); err != nil {
		c.logger.Error("toggle todo", "id", id, "err", err)
		return false
	}
	c.logger.Info("todo toggled", "id", id)
	c.reloadLocked(ctx)
	return true
}

func (c *Controller) UpdateTodo(ctx context.Context, todo model.Todo) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Update(ctx, todo); err != nil {
		c.logger.Error("update todo", "id", todo.ID, "err", err)
		return false
	}
	c.logger.Info("todo updated", "id", todo.ID)
	c.reloadLocked(ctx)
	return true
}

func (c *Controller) DeleteTodo(ctx context.Context, id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, id); err != nil {
		c.logger.Error("delete todo", "id", id, "err", err)
		return false
	}
	c.logger.Info("todo deleted", "id", id)
	c.reloadLocked(ctx)
	return true
}

// Get looks a todo up directly in the store. Lookup failures read as absent.
func (c *Controller) Get(ctx context.Context, id int64) (model.Todo, bool) {
	todo, ok, err := c.store.Get(ctx, id)
	if err != nil {
		c.logger.Error("get todo", "id", id, "err", err)
		return model.Todo{}, false
	}
	return todo, ok
}

// reloadLocked clears the list on failure rather than show stale rows.
func (c *Controller) reloadLocked(ctx context.Context) {
	// The write already landed; a caller that went away must not blank the list.
	todos, err := c.store.Load(context.WithoutCancel(ctx), c.searchText)
	if err != nil {
		c.logger.Error("reload todos", "query", c.searchText, "err", err)
		c.todos = nil
		return
	}
	c.todos = todos
}
