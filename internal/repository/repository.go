package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/task-relations-api/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist or its identifier
	// is not a valid key for the backing store.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEmail is returned when a write would violate email uniqueness.
	ErrDuplicateEmail = errors.New("repository: duplicate email")
	// ErrEmptyFilter is returned by bulk updates that would otherwise touch every record.
	ErrEmptyFilter = errors.New("repository: refusing bulk update without a filter")
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a task and assigns its identifier
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// Find returns the tasks whose IDs are in ids. Unknown or malformed IDs are skipped.
	Find(ctx context.Context, ids []string) ([]models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update applies a partial field update to one task
	Update(ctx context.Context, id string, fields TaskFields) error

	// UpdateWhere applies a partial field update to every task matching filter
	UpdateWhere(ctx context.Context, filter TaskFilter, fields TaskFields) (int64, error)

	// Delete deletes a task
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a user along with its pending set
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Find returns the users whose IDs are in ids. Unknown or malformed IDs are skipped.
	Find(ctx context.Context, ids []string) ([]models.User, error)

	// List retrieves users with filtering and pagination
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)

	// Update applies a partial field update to one user
	Update(ctx context.Context, id string, fields UserFields) error

	// AddPendingTask adds taskID to the user's pending set. Adding an existing member is a no-op.
	AddPendingTask(ctx context.Context, userID, taskID string) error

	// RemovePendingTask removes taskID from the user's pending set if present.
	RemovePendingTask(ctx context.Context, userID, taskID string) error

	// Delete deletes a user
	Delete(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing and bulk-updating tasks.
// Set fields are combined with AND.
type TaskFilter struct {
	IDs          []string
	AssignedUser *string
	Completed    *bool
	Page         int
	PageSize     int
}

// IsEmpty reports whether the filter has no predicate.
func (f TaskFilter) IsEmpty() bool {
	return f.IDs == nil && f.AssignedUser == nil && f.Completed == nil
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Email    *string
	Page     int
	PageSize int
}

// Assignment is the owner half of a task. The zero value means "unassigned".
type Assignment struct {
	UserID   string
	UserName string
}

// AssignTo returns an assignment to the given user.
func AssignTo(user models.User) *Assignment {
	return &Assignment{UserID: user.ID, UserName: user.Name}
}

// Unassigned returns an assignment that clears the owner.
func Unassigned() *Assignment {
	return &Assignment{}
}

// TaskFields is a partial task update. Nil fields are left untouched.
type TaskFields struct {
	Name        *string
	Description *string
	Deadline    *time.Time
	Completed   *bool
	// Assignment replaces both assignedUser and assignedUserName.
	Assignment *Assignment
	// AssignedUserName re-stamps only the denormalized owner name.
	AssignedUserName *string
}

// IsEmpty reports whether the update changes nothing.
func (f TaskFields) IsEmpty() bool {
	return f.Name == nil && f.Description == nil && f.Deadline == nil &&
		f.Completed == nil && f.Assignment == nil && f.AssignedUserName == nil
}

// UserFields is a partial user update. Nil fields are left untouched.
type UserFields struct {
	Name  *string
	Email *string
	// PendingTasks replaces the whole pending set.
	PendingTasks *[]string
}
