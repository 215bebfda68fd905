package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"todolist/internal/bot"
	"todolist/internal/config"
	"todolist/internal/httpapi"
	"todolist/internal/logging"
	"todolist/internal/repository"
	"todolist/internal/service"
	"todolist/internal/settings"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("todolist", "err", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Format = cfg.LogFormat
	logger := logging.New(opts)

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("open store %s: %w", cfg.StoreDriver, err)
	}
	defer closeStore()

	flags, err := settings.NewFile(cfg.SettingsPath)
	if err != nil {
		return fmt.Errorf("open settings %s: %w", cfg.SettingsPath, err)
	}

	source := service.NewHTTPSource(cfg.SeedURL, cfg.SeedTimeout, nil)
	seeder := service.NewSeeder(store, flags, source, logger.WithPrefix("seed"))
	controller := service.NewController(ctx, store, seeder, logger.WithPrefix("controller"))
	// The seeding pass writes to the store; let it finish before closeStore runs.
	defer controller.Wait()
	digest := service.NewDigestService(store)

	var wg sync.WaitGroup
	defer wg.Wait()

	if cfg.HTTPAddr != "" {
		router := httpapi.NewRouter(controller, logger.WithPrefix("http"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := httpapi.Serve(ctx, cfg.HTTPAddr, router, logger); err != nil {
				logger.Error("http server stopped with error", "err", err)
				stop()
			}
		}()
	}

	if cfg.TelegramToken != "" {
		telegramBot, err := bot.New(cfg.TelegramToken, controller, digest, cfg.OwnerChatID, logger.WithPrefix("bot"))
		if err != nil {
			stop()
			return fmt.Errorf("bot: %w", err)
		}

		scheduler := service.NewSchedulerService(time.Local)
		job := func() {
			jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if err := telegramBot.SendDigests(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("digest", "err", err)
			}
		}
		if cfg.ReportAt != "" {
			_, err = scheduler.ScheduleDaily(cfg.ReportAt, job)
		} else {
			_, err = scheduler.ScheduleInterval(cfg.ReportInterval, job)
		}
		if err != nil {
			stop()
			return fmt.Errorf("schedule digest: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("bot stopped with error", "err", err)
				stop()
			}
		}()
	}

	logger.Info("todolist started", "driver", cfg.StoreDriver, "http", cfg.HTTPAddr != "", "bot", cfg.TelegramToken != "")
	<-ctx.Done()
	wg.Wait()
	if _, err := controller.Wait(); err != nil {
		logger.Warn("seeding did not complete", "err", err)
	}
	logger.Info("shutdown complete")
	return nil
}

func openStore(cfg config.Config, logger *log.Logger) (repository.TodoStore, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverModernc:
		repo, err := repository.OpenSQL(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	case config.DriverMemory:
		return repository.NewMemoryTodoRepository(), func() {}, nil
	default:
		db, err := repository.NewDB(cfg.DatabaseURL, logger.WithPrefix("gorm"))
		if err != nil {
			return nil, nil, err
		}
		return repository.NewTodoRepository(db), closeGorm(db), nil
	}
}

func closeGorm(db *gorm.DB) func() {
	return func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
