package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-relations-api/internal/models"
	"github.com/yukikurage/task-relations-api/internal/repository"
)

// TaskInput is a task mutation as received from the caller. Nothing in it is
// assumed to be validated yet.
type TaskInput struct {
	Name         string
	Description  string
	Deadline     interface{}
	Completed    interface{}
	AssignedUser string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	AssignedUser *string
	Completed    *bool
	Page         int
	PageSize     int
}

// validatedTask is a TaskInput after normalization and owner resolution
type validatedTask struct {
	fields repository.TaskFields
	owner  *models.User
	task   models.Task
}

// ListTasks returns tasks matching the filters
func (s *Coordinator) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(ctx, repository.TaskFilter{
		AssignedUser: input.AssignedUser,
		Completed:    input.Completed,
		Page:         input.Page,
		PageSize:     input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a task by ID
func (s *Coordinator) GetTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask validates and persists a task, then adds it to the owner's
// pending set when it is assigned and not completed.
func (s *Coordinator) CreateTask(ctx context.Context, input TaskInput) (*models.Task, error) {
	v, err := s.validateTask(ctx, input)
	if err != nil {
		return nil, err
	}

	task := v.task
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	s.logger.Debug("task created", "task", task.ID, "owner", task.Owner(), "completed", task.Completed)

	if v.owner != nil && !task.Completed {
		if err := s.userRepo.AddPendingTask(ctx, v.owner.ID, task.ID); err != nil {
			return nil, s.partialWrite("add task to pending list", err, "task", task.ID, "user", v.owner.ID)
		}
	}

	return &task, nil
}

// UpdateTask replaces a task's writable fields and reconciles the pending
// sets of the previous and the new owner.
func (s *Coordinator) UpdateTask(ctx context.Context, id string, input TaskInput) (*models.Task, error) {
	existing, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	oldOwner := existing.Owner()

	v, err := s.validateTask(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, existing.ID, v.fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	newOwner := v.task.Owner()
	s.logger.Debug("task updated", "task", existing.ID, "old_owner", oldOwner, "new_owner", newOwner, "completed", v.task.Completed)

	if err := s.reconcilePending(ctx, existing.ID, oldOwner, newOwner, v.task.Completed); err != nil {
		return nil, err
	}

	return s.GetTask(ctx, existing.ID)
}

// DeleteTask deletes a task and removes it from its owner's pending set
func (s *Coordinator) DeleteTask(ctx context.Context, id string) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	owner := task.Owner()

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.logger.Debug("task deleted", "task", task.ID, "owner", owner)

	if owner != "" {
		if err := s.userRepo.RemovePendingTask(ctx, owner, task.ID); err != nil {
			return s.partialWrite("remove deleted task from pending list", err, "task", task.ID, "user", owner)
		}
	}

	return nil
}

// reconcilePending drops the task from the old owner's pending set before
// touching the new owner's, so it never sits in two sets at once.
func (s *Coordinator) reconcilePending(ctx context.Context, taskID, oldOwner, newOwner string, completed bool) error {
	if oldOwner != "" && oldOwner != newOwner {
		if err := s.userRepo.RemovePendingTask(ctx, oldOwner, taskID); err != nil {
			return s.partialWrite("remove task from previous owner", err, "task", taskID, "user", oldOwner)
		}
	}

	if newOwner == "" {
		return nil
	}

	if completed {
		if err := s.userRepo.RemovePendingTask(ctx, newOwner, taskID); err != nil {
			return s.partialWrite("remove completed task from pending list", err, "task", taskID, "user", newOwner)
		}
		return nil
	}

	if err := s.userRepo.AddPendingTask(ctx, newOwner, taskID); err != nil {
		return s.partialWrite("add task to pending list", err, "task", taskID, "user", newOwner)
	}
	return nil
}

// validateTask normalizes every writable field and resolves the owner. It
// performs reads only.
func (s *Coordinator) validateTask(ctx context.Context, input TaskInput) (*validatedTask, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	deadline, err := ParseDeadline(input.Deadline)
	if err != nil {
		return nil, err
	}

	description := input.Description
	completed := ParseBool(input.Completed)

	v := &validatedTask{
		task: models.Task{
			Name:        name,
			Description: description,
			Deadline:    deadline,
			Completed:   completed,
		},
		fields: repository.TaskFields{
			Name:        &name,
			Description: &description,
			Deadline:    &deadline,
			Completed:   &completed,
			Assignment:  repository.Unassigned(),
		},
	}

	ownerID := strings.TrimSpace(input.AssignedUser)
	if ownerID == "" {
		return v, nil
	}

	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignedUserNotFound
		}
		return nil, fmt.Errorf("failed to find assigned user: %w", err)
	}

	v.owner = owner
	v.task.AssignedUser = &owner.ID
	v.task.AssignedUserName = owner.Name
	v.fields.Assignment = repository.AssignTo(*owner)
	return v, nil
}
