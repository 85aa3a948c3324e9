package repository

import (
	"context"
	"sort"

	"github.com/yukikurage/task-relations-api/internal/database"
	"github.com/yukikurage/task-relations-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a user and its pending rows atomically
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Pending").Create(user).Error; err != nil {
			return err
		}
		return insertPendingRows(tx, user.ID, user.PendingTasks)
	})
	if err != nil {
		return translateUserError(err)
	}

	user.PendingTasks = sortedCopy(canonicalIDs(user.PendingTasks))
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	key, ok := canonicalID(id)
	if !ok {
		return nil, ErrNotFound
	}

	var user models.User
	if err := r.db.WithContext(ctx).Preload("Pending").First(&user, "id = ?", key).Error; err != nil {
		return nil, translateGormError(err)
	}
	ensurePendingSlice(&user)
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Pending").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	ensurePendingSlice(&user)
	return &user, nil
}

// Find finds every user whose ID is in ids
func (r *GormUserRepository) Find(ctx context.Context, ids []string) ([]models.User, error) {
	keys := canonicalIDs(ids)
	if len(keys) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Preload("Pending").Where("id IN ?", keys).Find(&users).Error; err != nil {
		return nil, translateGormError(err)
	}
	for i := range users {
		ensurePendingSlice(&users[i])
	}
	return users, nil
}

// List retrieves users with filtering and pagination
func (r *GormUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	var users []models.User

	query := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateGormError(err)
	}

	listQuery := query.Order("created_at DESC").Order("id ASC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Pending").Find(&users).Error; err != nil {
		return nil, 0, translateGormError(err)
	}
	for i := range users {
		ensurePendingSlice(&users[i])
	}

	return users, total, nil
}

// Update applies a partial update to one user. Replacing the pending set
// happens in the same transaction as the column update.
func (r *GormUserRepository) Update(ctx context.Context, id string, fields UserFields) error {
	key, ok := canonicalID(id)
	if !ok {
		return ErrNotFound
	}

	columns := make(map[string]interface{})
	if fields.Name != nil {
		columns["name"] = *fields.Name
	}
	if fields.Email != nil {
		columns["email"] = *fields.Email
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", key).Updates(columns).Error; err != nil {
				return err
			}
		}

		if fields.PendingTasks == nil {
			return nil
		}
		if err := tx.Where("user_id = ?", key).Delete(&models.PendingTask{}).Error; err != nil {
			return err
		}
		return insertPendingRows(tx, key, *fields.PendingTasks)
	})

	return translateUserError(err)
}

// AddPendingTask adds a task to the user's pending set
func (r *GormUserRepository) AddPendingTask(ctx context.Context, userID, taskID string) error {
	userKey, ok := canonicalID(userID)
	if !ok {
		return nil
	}
	taskKey, ok := canonicalID(taskID)
	if !ok {
		return nil
	}

	return insertPendingRows(r.db.WithContext(ctx), userKey, []string{taskKey})
}

// RemovePendingTask removes a task from the user's pending set
func (r *GormUserRepository) RemovePendingTask(ctx context.Context, userID, taskID string) error {
	userKey, ok := canonicalID(userID)
	if !ok {
		return nil
	}
	taskKey, ok := canonicalID(taskID)
	if !ok {
		return nil
	}

	return r.db.WithContext(ctx).
		Where("user_id = ? AND task_id = ?", userKey, taskKey).
		Delete(&models.PendingTask{}).Error
}

// Delete deletes a user and its pending rows in a transaction
func (r *GormUserRepository) Delete(ctx context.Context, id string) error {
	key, ok := canonicalID(id)
	if !ok {
		return ErrNotFound
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", key).Delete(&models.PendingTask{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, "id = ?", key)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// insertPendingRows inserts join rows, ignoring ones that already exist
func insertPendingRows(db *gorm.DB, userID string, taskIDs []string) error {
	keys := canonicalIDs(taskIDs)
	if len(keys) == 0 {
		return nil
	}

	rows := make([]models.PendingTask, len(keys))
	for i, taskID := range keys {
		rows[i] = models.PendingTask{
			UserID: userID,
			TaskID: taskID,
		}
	}

	return db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func translateUserError(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		return ErrDuplicateEmail
	}
	return translateGormError(err)
}

func ensurePendingSlice(user *models.User) {
	if user.PendingTasks == nil {
		user.PendingTasks = []string{}
	}
}

func sortedCopy(ids []string) []string {
	result := make([]string, len(ids))
	copy(result, ids)
	sort.Strings(result)
	return result
}
