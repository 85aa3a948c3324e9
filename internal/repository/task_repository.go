package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yukikurage/task-relations-api/internal/database"
	"github.com/yukikurage/task-relations-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return translateGormError(r.db.WithContext(ctx).Create(task).Error)
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	key, ok := canonicalID(id)
	if !ok {
		return nil, ErrNotFound
	}

	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", key).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &task, nil
}

// Find finds every task whose ID is in ids
func (r *GormTaskRepository) Find(ctx context.Context, ids []string) ([]models.Task, error) {
	keys := canonicalIDs(ids)
	if len(keys) == 0 {
		return []models.Task{}, nil
	}

	var tasks []models.Task
	if err := r.db.WithContext(ctx).Where("id IN ?", keys).Find(&tasks).Error; err != nil {
		return nil, translateGormError(err)
	}
	return tasks, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.Task{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateGormError(err)
	}

	listQuery := query.Order("created_at DESC").Order("id ASC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, translateGormError(err)
	}

	return tasks, total, nil
}

// Update applies a partial update to one task
func (r *GormTaskRepository) Update(ctx context.Context, id string, fields TaskFields) error {
	key, ok := canonicalID(id)
	if !ok {
		return ErrNotFound
	}
	if fields.IsEmpty() {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", key).
		Updates(taskColumns(fields)).Error
	return translateGormError(err)
}

// UpdateWhere applies a partial update to every matching task
func (r *GormTaskRepository) UpdateWhere(ctx context.Context, filter TaskFilter, fields TaskFields) (int64, error) {
	if filter.IsEmpty() {
		return 0, ErrEmptyFilter
	}
	if fields.IsEmpty() || (filter.IDs != nil && len(canonicalIDs(filter.IDs)) == 0) {
		return 0, nil
	}

	result := r.applyFilter(r.db.WithContext(ctx).Model(&models.Task{}), filter).
		Updates(taskColumns(fields))
	if result.Error != nil {
		return 0, translateGormError(result.Error)
	}
	return result.RowsAffected, nil
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	key, ok := canonicalID(id)
	if !ok {
		return ErrNotFound
	}

	result := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", key)
	if result.Error != nil {
		return translateGormError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormTaskRepository) applyFilter(query *gorm.DB, filter TaskFilter) *gorm.DB {
	if filter.IDs != nil {
		query = query.Where("id IN ?", canonicalIDs(filter.IDs))
	}
	if filter.AssignedUser != nil {
		if *filter.AssignedUser == "" {
			query = query.Where("(assigned_user IS NULL OR assigned_user = '')")
		} else {
			query = query.Where("assigned_user = ?", *filter.AssignedUser)
		}
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	return query
}

// taskColumns maps a partial update onto column names
func taskColumns(fields TaskFields) map[string]interface{} {
	columns := make(map[string]interface{})
	if fields.Name != nil {
		columns["name"] = *fields.Name
	}
	if fields.Description != nil {
		columns["description"] = *fields.Description
	}
	if fields.Deadline != nil {
		columns["deadline"] = *fields.Deadline
	}
	if fields.Completed != nil {
		columns["completed"] = *fields.Completed
	}
	if fields.Assignment != nil {
		if fields.Assignment.UserID == "" {
			columns["assigned_user"] = nil
			columns["assigned_user_name"] = ""
		} else {
			columns["assigned_user"] = fields.Assignment.UserID
			columns["assigned_user_name"] = fields.Assignment.UserName
		}
	}
	if fields.AssignedUserName != nil {
		columns["assigned_user_name"] = *fields.AssignedUserName
	}
	return columns
}

// canonicalID validates a UUID key and returns its canonical form
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// canonicalIDs keeps the valid keys of ids, removing duplicates
func canonicalIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))

	for _, id := range ids {
		key, ok := canonicalID(id)
		if !ok {
			continue
		}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, key)
	}

	return result
}

// isRecordNotFound reports whether err is GORM's missing-row error
func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
