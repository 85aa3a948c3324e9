package database

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yukikurage/task-relations-api/internal/models"
	"gorm.io/gorm"
)

// index is a secondary index that AutoMigrate does not derive from struct tags
type index struct {
	model   interface{}
	name    string
	columns string
}

// AddIndexes adds indexes used by list ordering and owner lookups
func AddIndexes(db *gorm.DB, logger *log.Logger) error {
	indexes := []index{
		{&models.Task{}, "idx_tasks_created_at_id", "created_at, id"},
		{&models.Task{}, "idx_tasks_assigned_user_completed", "assigned_user, completed"},
		{&models.User{}, "idx_users_created_at_id", "created_at, id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			logger.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Info("created index", "index", idx.name, "table", stmt.Schema.Table, "columns", idx.columns)
	}

	return nil
}

// MigrateDatabase runs the schema migration and then adds indexes
func MigrateDatabase(db *gorm.DB, logger *log.Logger) error {
	if err := Migrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db, logger); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
