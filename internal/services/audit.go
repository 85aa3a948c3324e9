package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/yukikurage/task-relations-api/internal/models"
	"github.com/yukikurage/task-relations-api/internal/repository"
)

// ViolationKind names the invariant a Violation breaks
type ViolationKind string

const (
	// An assigned task points at a user that does not exist
	ViolationMissingOwner ViolationKind = "missing_owner"
	// An open assigned task is absent from its owner's pending set
	ViolationNotPending ViolationKind = "not_pending"
	// A completed task is still in its owner's pending set
	ViolationCompletedPending ViolationKind = "completed_pending"
	// A pending set references a task that does not exist
	ViolationMissingTask ViolationKind = "missing_task"
	// A pending set references a task owned by someone else, or nobody
	ViolationForeignPending ViolationKind = "foreign_pending"
	// A task appears in more than one pending set
	ViolationMultipleOwners ViolationKind = "multiple_owners"
	// assignedUserName does not match the owner's current name
	ViolationStaleOwnerName ViolationKind = "stale_owner_name"
)

// Violation is one broken invariant between a task and a user
type Violation struct {
	Kind   ViolationKind `json:"kind"`
	TaskID string        `json:"task_id"`
	UserID string        `json:"user_id,omitempty"`
	Detail string        `json:"detail"`
}

// Audit scans every task and user and reports where the two sides of the
// ownership relation disagree. It never writes.
func (s *Coordinator) Audit(ctx context.Context) ([]Violation, error) {
	tasks, _, err := s.taskRepo.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	users, _, err := s.userRepo.List(ctx, repository.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return findViolations(tasks, users), nil
}

func findViolations(tasks []models.Task, users []models.User) []Violation {
	taskByID := make(map[string]models.Task, len(tasks))
	for _, task := range tasks {
		taskByID[task.ID] = task
	}
	userByID := make(map[string]models.User, len(users))
	holders := make(map[string][]string)
	for _, user := range users {
		userByID[user.ID] = user
		for _, taskID := range user.PendingTasks {
			holders[taskID] = append(holders[taskID], user.ID)
		}
	}

	violations := []Violation{}

	for _, task := range tasks {
		if !task.IsAssigned() {
			continue
		}
		owner, ok := userByID[task.Owner()]
		if !ok {
			violations = append(violations, Violation{
				Kind:   ViolationMissingOwner,
				TaskID: task.ID,
				UserID: task.Owner(),
				Detail: "assigned user does not exist",
			})
			continue
		}
		held := owner.HasPendingTask(task.ID)
		switch {
		case task.Completed && held:
			violations = append(violations, Violation{
				Kind:   ViolationCompletedPending,
				TaskID: task.ID,
				UserID: owner.ID,
				Detail: "completed task is still pending for its owner",
			})
		case !task.Completed && !held:
			violations = append(violations, Violation{
				Kind:   ViolationNotPending,
				TaskID: task.ID,
				UserID: owner.ID,
				Detail: "open task is missing from its owner's pending tasks",
			})
		}
		if task.AssignedUserName != owner.Name {
			violations = append(violations, Violation{
				Kind:   ViolationStaleOwnerName,
				TaskID: task.ID,
				UserID: owner.ID,
				Detail: fmt.Sprintf("assignedUserName is %q, owner is named %q", task.AssignedUserName, owner.Name),
			})
		}
	}

	for _, user := range users {
		for _, taskID := range user.PendingTasks {
			task, ok := taskByID[taskID]
			switch {
			case !ok:
				violations = append(violations, Violation{
					Kind:   ViolationMissingTask,
					TaskID: taskID,
					UserID: user.ID,
					Detail: "pending task does not exist",
				})
			case task.Owner() != user.ID:
				violations = append(violations, Violation{
					Kind:   ViolationForeignPending,
					TaskID: taskID,
					UserID: user.ID,
					Detail: fmt.Sprintf("pending task is assigned to %q", task.Owner()),
				})
			}
		}
	}

	for taskID, userIDs := range holders {
		if len(userIDs) > 1 {
			sort.Strings(userIDs)
			violations = append(violations, Violation{
				Kind:   ViolationMultipleOwners,
				TaskID: taskID,
				Detail: fmt.Sprintf("task is pending for %d users: %v", len(userIDs), userIDs),
			})
		}
	}

	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].TaskID != violations[j].TaskID {
			return violations[i].TaskID < violations[j].TaskID
		}
		return violations[i].Kind < violations[j].Kind
	})
	return violations
}
