package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yukikurage/task-relations-api/internal/models"
	"github.com/yukikurage/task-relations-api/internal/repository"
)

// UserInput is a user mutation as received from the caller
type UserInput struct {
	Name         string
	Email        string
	PendingTasks interface{}
}

// ListUsersInput represents filters for listing users
type ListUsersInput struct {
	Email    *string
	Page     int
	PageSize int
}

// ListUsers returns users matching the filters
func (s *Coordinator) ListUsers(ctx context.Context, input ListUsersInput) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		Email:    input.Email,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser returns a user by ID
func (s *Coordinator) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUser persists a user and claims every task in its pending set
func (s *Coordinator) CreateUser(ctx context.Context, input UserInput) (*models.User, error) {
	name, email, err := requireNameAndEmail(input)
	if err != nil {
		return nil, err
	}

	pending, err := NormalizePendingTasks(input.PendingTasks)
	if err != nil {
		return nil, err
	}
	tasks, err := s.validatePendingTasks(ctx, pending, "")
	if err != nil {
		return nil, err
	}
	pending = taskIDs(tasks)

	user := &models.User{
		Name:         name,
		Email:        email,
		PendingTasks: pending,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Debug("user created", "user", user.ID, "pending", len(pending))

	if err := s.claimTasks(ctx, *user, pending); err != nil {
		return nil, err
	}
	if err := s.restampOwnerName(ctx, *user); err != nil {
		return nil, err
	}

	return s.GetUser(ctx, user.ID)
}

// UpdateUser replaces a user's writable fields and applies the difference
// between the old and new pending sets to the task side.
func (s *Coordinator) UpdateUser(ctx context.Context, id string, input UserInput) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	name, email, err := requireNameAndEmail(input)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		existing, err := s.userRepo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, ErrEmailExists
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}

	pending, err := NormalizePendingTasks(input.PendingTasks)
	if err != nil {
		return nil, err
	}
	tasks, err := s.validatePendingTasks(ctx, pending, user.ID)
	if err != nil {
		return nil, err
	}
	pending = taskIDs(tasks)

	removed := difference(user.PendingTasks, pending)

	if err := s.userRepo.Update(ctx, user.ID, repository.UserFields{
		Name:         &name,
		Email:        &email,
		PendingTasks: &pending,
	}); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated := models.User{ID: user.ID, Name: name, Email: email}
	s.logger.Debug("user updated", "user", user.ID, "pending", len(pending), "released", len(removed))

	if len(removed) > 0 {
		if _, err := s.taskRepo.UpdateWhere(ctx, repository.TaskFilter{IDs: removed}, repository.TaskFields{
			Assignment: repository.Unassigned(),
		}); err != nil {
			return nil, s.partialWrite("release tasks removed from pending list", err, "user", user.ID)
		}
	}
	if err := s.claimTasks(ctx, updated, pending); err != nil {
		return nil, err
	}
	if err := s.restampOwnerName(ctx, updated); err != nil {
		return nil, err
	}

	return s.GetUser(ctx, user.ID)
}

// DeleteUser releases every task the user holds and then deletes the user.
// Tasks are released both by the user's pending set and by a sweep over
// assignedUser, since the two can drift apart.
func (s *Coordinator) DeleteUser(ctx context.Context, id string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if len(user.PendingTasks) > 0 {
		if _, err := s.taskRepo.UpdateWhere(ctx, repository.TaskFilter{IDs: user.PendingTasks}, repository.TaskFields{
			Assignment: repository.Unassigned(),
		}); err != nil {
			return fmt.Errorf("failed to release pending tasks: %w", err)
		}
	}

	ownerID := user.ID
	if _, err := s.taskRepo.UpdateWhere(ctx, repository.TaskFilter{AssignedUser: &ownerID}, repository.TaskFields{
		Assignment: repository.Unassigned(),
	}); err != nil {
		return s.partialWrite("release assigned tasks", err, "user", user.ID)
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return s.partialWrite("delete user", err, "user", user.ID)
	}
	s.logger.Debug("user deleted", "user", user.ID, "released", len(user.PendingTasks))

	return nil
}

// validatePendingTasks resolves ids in one batched read and checks that each
// task exists, is open, and is not owned by anyone other than currentUserID.
func (s *Coordinator) validatePendingTasks(ctx context.Context, ids []string, currentUserID string) ([]models.Task, error) {
	if len(ids) == 0 {
		return []models.Task{}, nil
	}

	tasks, err := s.taskRepo.Find(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending tasks: %w", err)
	}
	if len(tasks) != len(ids) {
		return nil, ErrPendingTasksNotFound
	}

	for _, task := range tasks {
		if task.Completed {
			return nil, ErrPendingTaskCompleted
		}
	}
	for _, task := range tasks {
		if task.IsAssigned() && task.Owner() != currentUserID {
			return nil, ErrPendingTaskConflict
		}
	}

	return tasks, nil
}

// claimTasks points every task in ids at user
func (s *Coordinator) claimTasks(ctx context.Context, user models.User, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.taskRepo.UpdateWhere(ctx, repository.TaskFilter{IDs: ids}, repository.TaskFields{
		Assignment: repository.AssignTo(user),
	}); err != nil {
		return s.partialWrite("assign pending tasks", err, "user", user.ID)
	}
	return nil
}

// restampOwnerName rewrites assignedUserName on every task owned by user.
// This is a full sweep over the user's tasks, not just the changed ones.
func (s *Coordinator) restampOwnerName(ctx context.Context, user models.User) error {
	ownerID := user.ID
	name := user.Name
	if _, err := s.taskRepo.UpdateWhere(ctx, repository.TaskFilter{AssignedUser: &ownerID}, repository.TaskFields{
		AssignedUserName: &name,
	}); err != nil {
		return s.partialWrite("re-stamp assigned user name", err, "user", user.ID)
	}
	return nil
}

// taskIDs returns the sorted IDs of tasks as the store reports them
func taskIDs(tasks []models.Task) []string {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	sort.Strings(ids)
	return ids
}

func requireNameAndEmail(input UserInput) (string, string, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return "", "", ErrNameAndEmailRequired
	}
	return name, email, nil
}
