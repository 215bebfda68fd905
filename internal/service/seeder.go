package service

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"todolist/internal/repository"
	"todolist/internal/settings"
)

// SkipReason explains why a seeding pass imported nothing.
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipAlreadySeeded SkipReason = "already seeded"
	SkipLocalData     SkipReason = "local data present"
)

// SeedResult summarizes one seeding pass.
type SeedResult struct {
	Skipped  SkipReason
	Fetched  int
	Inserted int
	Updated  int
	Failed   int
}

// Imported reports whether the pass changed the store.
func (r SeedResult) Imported() bool {
	return r.Inserted+r.Updated > 0
}

// Seeder imports the remote list into the store once per installation.
type Seeder struct {
	store    repository.TodoStore
	settings settings.Store
	source   RemoteSource
	logger   *log.Logger
	now      func() time.Time
}

func NewSeeder(store repository.TodoStore, flags settings.Store, source RemoteSource, logger *log.Logger) *Seeder {
	return &Seeder{
		store:    store,
		settings: flags,
		source:   source,
		logger:   logger,
		now:      time.Now,
	}
}

// Run performs the seeding pass. A returned error means the flag was left
// unset and the next launch will try again.
func (s *Seeder) Run(ctx context.Context) (SeedResult, error) {
	var result SeedResult

	seeded, err := s.settings.Bool(settings.SeededKey)
	if err != nil {
		s.logger.Error("read seed flag", "err", err)
		return result, fmt.Errorf("read seed flag: %w", err)
	}
	if seeded {
		result.Skipped = SkipAlreadySeeded
		s.logger.Debug("seeding skipped", "reason", result.Skipped)
		return result, nil
	}

	resuming, err := s.settings.Bool(settings.SeedingKey)
	if err != nil {
		s.logger.Error("read seeding marker", "err", err)
		return result, fmt.Errorf("read seeding marker: %w", err)
	}

	if !resuming {
		count, err := s.store.Count(ctx)
		if err != nil {
			s.logger.Error("count local todos", "err", err)
			return result, fmt.Errorf("count local todos: %w", err)
		}
		if count > 0 {
			result.Skipped = SkipLocalData
			s.logger.Info("seeding skipped", "reason", result.Skipped, "local", count)
			return result, s.markSeeded()
		}
	} else {
		s.logger.Info("resuming interrupted seeding")
	}

	remote, err := s.source.FetchTodos(ctx)
	if err != nil {
		s.logger.Warn("fetch seed list, will retry next launch", "err", err)
		return result, fmt.Errorf("fetch seed list: %w", err)
	}
	result.Fetched = len(remote)

	if err := s.settings.SetBool(settings.SeedingKey, true); err != nil {
		s.logger.Error("write seeding marker", "err", err)
		return result, fmt.Errorf("write seeding marker: %w", err)
	}

	for _, item := range remote {
		if ctx.Err() != nil {
			s.logger.Warn("seeding interrupted", "err", ctx.Err())
			return result, ctx.Err()
		}

		existing, ok, err := s.store.Get(ctx, item.ID)
		if err != nil {
			result.Failed++
			s.logger.Warn("seed item lookup failed", "id", item.ID, "err", err)
			continue
		}

		if ok {
			existing.Title = item.Todo
			existing.Description = nil
			existing.Completed = item.Completed
			if err := s.store.Update(ctx, existing); err != nil {
				result.Failed++
				s.logger.Warn("seed item update failed", "id", item.ID, "err", err)
				continue
			}
			result.Updated++
			continue
		}

		if _, err := s.store.Insert(ctx, item.ToTodo(s.now())); err != nil {
			result.Failed++
			s.logger.Warn("seed item insert failed", "id", item.ID, "err", err)
			continue
		}
		result.Inserted++
	}

	if err := s.markSeeded(); err != nil {
		return result, err
	}
	s.logger.Info("seeding finished", "fetched", result.Fetched, "inserted", result.Inserted,
		"updated", result.Updated, "failed", result.Failed)
	return result, nil
}

// markSeeded sets the flag first so a crash between the two writes still
// reads as seeded.
func (s *Seeder) markSeeded() error {
	if err := s.settings.SetBool(settings.SeededKey, true); err != nil {
		s.logger.Error("write seed flag", "err", err)
		return fmt.Errorf("write seed flag: %w", err)
	}
	if err := s.settings.SetBool(settings.SeedingKey, false); err != nil {
		s.logger.Error("clear seeding marker", "err", err)
		return fmt.Errorf("clear seeding marker: %w", err)
	}
	return nil
}
