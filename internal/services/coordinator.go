package services

import (
	"fmt"

	"github.com/charmbracelet/log"
	apierrors "github.com/yukikurage/task-relations-api/internal/errors"
	"github.com/yukikurage/task-relations-api/internal/repository"
)

var (
	ErrTaskNotFound         = apierrors.NotFoundError("Task not found")
	ErrUserNotFound         = apierrors.NotFoundError("User not found")
	ErrNameRequired         = apierrors.Validation("Name is required")
	ErrDeadlineRequired     = apierrors.Validation("Deadline is required")
	ErrDeadlineInvalid      = apierrors.Validation("Deadline must be a valid date")
	ErrAssignedUserNotFound = apierrors.Precondition("Assigned user not found")
	ErrNameAndEmailRequired = apierrors.Validation("Name and email are required")
	ErrEmailExists          = apierrors.Validation("Email already exists")
	ErrPendingTasksNotList  = apierrors.Validation("pendingTasks must be a list of task identifiers")
	ErrPendingTaskInvalidID = apierrors.Validation("pendingTasks contains an empty or invalid task identifier")
	ErrPendingTasksNotFound = apierrors.NotFoundError("one or more pending tasks were not found")
	ErrPendingTaskCompleted = apierrors.Validation("Pending tasks must be incomplete")
	ErrPendingTaskConflict  = apierrors.ConflictError("One or more pending tasks are already assigned to another user")
)

// Coordinator is the only writer of the task/user ownership relation. It
// validates against current state before any write and then updates both
// sides of the relation in a fixed order. The stores offer no multi-record
// transaction, so a failure part-way through is logged and returned rather
// than rolled back.
type Coordinator struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	aiService *AIService
	logger    *log.Logger
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(taskRepo repository.TaskRepository, userRepo repository.UserRepository, aiService *AIService, logger *log.Logger) *Coordinator {
	return &Coordinator{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		aiService: aiService,
		logger:    logger,
	}
}

// partialWrite logs a follow-up write that failed after an earlier write had
// already been applied, then returns the wrapped error.
func (s *Coordinator) partialWrite(step string, err error, keyvals ...interface{}) error {
	s.logger.Warn("relationship write failed after primary write", append([]interface{}{"step", step, "err", err}, keyvals...)...)
	return fmt.Errorf("failed to %s: %w", step, err)
}
