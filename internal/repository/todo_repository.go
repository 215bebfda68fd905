package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"todolist/internal/model"
)

// TodoRepository is the gorm-backed TodoStore.
type TodoRepository struct {
	db  *gorm.DB
	mu  sync.RWMutex
	ids *idGenerator
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db, ids: newIDGenerator(time.Now)}
}

func (r *TodoRepository) Load(ctx context.Context, query string) ([]model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var todos []model.Todo
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&todos).Error; err != nil {
		return nil, ioError("load todos", err)
	}
	return filterTodos(todos, query), nil
}

func (r *TodoRepository) Add(ctx context.Context, title string, description *string) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var todo model.Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := r.ids.next(func(id int64) (bool, error) { return todoExists(tx, id) })
		if err != nil {
			return err
		}
		todo = model.Todo{
			ID:          id,
			Title:       title,
			Description: model.NormalizeDescription(description),
			CreatedAt:   r.ids.now().UTC(),
		}
		return tx.Create(&todo).Error
	})
	if err != nil {
		return model.Todo{}, ioError("add todo", err)
	}
	return todo, nil
}

func (r *TodoRepository) Insert(ctx context.Context, todo model.Todo) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo = prepareInsert(todo, r.ids.now())
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := todoExists(tx, todo.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("insert todo %d: %w", todo.ID, ErrConflict)
		}
		return tx.Create(&todo).Error
	})
	if err != nil {
		return model.Todo{}, ioError(fmt.Sprintf("insert todo %d", todo.ID), err)
	}
	return todo, nil
}

func (r *TodoRepository) Update(ctx context.Context, todo model.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var description any
	if d := model.NormalizeDescription(todo.Description); d != nil {
		description = *d
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Todo{}).Where("id = ?", todo.ID).Updates(map[string]any{
			"title":       todo.Title,
			"description": description,
			"completed":   todo.Completed,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("update todo %d: %w", todo.ID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return ioError(fmt.Sprintf("update todo %d", todo.ID), err)
	}
	return nil
}

func (r *TodoRepository) Toggle(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Todo{}).Where("id = ?", id).
			Update("completed", gorm.Expr("NOT completed"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("toggle todo %d: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return ioError(fmt.Sprintf("toggle todo %d", id), err)
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(&model.Todo{}).Error
	})
	if err != nil {
		return ioError(fmt.Sprintf("delete todo %d", id), err)
	}
	return nil
}

func (r *TodoRepository) Get(ctx context.Context, id int64) (model.Todo, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var todo model.Todo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&todo).Error
	switch {
	case err == nil:
		return todo, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Todo{}, false, nil
	default:
		return model.Todo{}, false, ioError(fmt.Sprintf("get todo %d", id), err)
	}
}

func (r *TodoRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Todo{}).Count(&n).Error; err != nil {
		return 0, ioError("count todos", err)
	}
	return n, nil
}

func todoExists(tx *gorm.DB, id int64) (bool, error) {
	var n int64
	if err := tx.Model(&model.Todo{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
