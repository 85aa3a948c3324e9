package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yukikurage/task-relations-api/internal/config"
	"github.com/yukikurage/task-relations-api/internal/database"
	"github.com/yukikurage/task-relations-api/internal/logging"
	"github.com/yukikurage/task-relations-api/internal/repository"
	"github.com/yukikurage/task-relations-api/internal/services"
)

// app holds everything a command needs once configuration is loaded
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	close    func()
}

func loadConfig() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logging.New(logging.OptionsFromConfig(cfg)), nil
}

// openApp connects to the configured store. migrate controls whether the
// schema (or Mongo indexes) is brought up to date first.
func openApp(ctx context.Context, migrate bool) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, close: func() {}}

	if !cfg.IsSQL() {
		client, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.close = func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("failed to disconnect from mongo", "err", err)
			}
		}
		if migrate {
			if err := database.EnsureMongoIndexes(ctx, db); err != nil {
				a.close()
				return nil, err
			}
		}
		a.taskRepo = repository.NewMongoTaskRepository(db)
		a.userRepo = repository.NewMongoUserRepository(db)
		logger.Info("connected to mongo", "database", cfg.MongoDatabase)
		return a, nil
	}

	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	db := database.GetDB()
	a.close = func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if migrate {
		if err := database.MigrateDatabase(db, logger); err != nil {
			a.close()
			return nil, err
		}
	}
	a.taskRepo = repository.NewTaskRepository(db)
	a.userRepo = repository.NewUserRepository(db)
	logger.Info("connected to database", "driver", cfg.DBDriver)
	return a, nil
}

func (a *app) coordinator() *services.Coordinator {
	var aiService *services.AIService
	if a.cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(a.cfg.OpenAIAPIKey)
	}
	return services.NewCoordinator(a.taskRepo, a.userRepo, aiService, a.logger)
}
