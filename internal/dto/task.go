package dto

import (
	"time"

	"github.com/yukikurage/task-relations-api/internal/constants"
	"github.com/yukikurage/task-relations-api/internal/models"
	"github.com/yukikurage/task-relations-api/internal/services"
	"github.com/yukikurage/task-relations-api/internal/utils"
)

// TaskDTO represents a task in API responses. An unassigned task carries an
// empty assignedUser and the "unassigned" name.
type TaskDTO struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Deadline         time.Time `json:"deadline"`
	Completed        bool      `json:"completed"`
	AssignedUser     string    `json:"assignedUser"`
	AssignedUserName string    `json:"assignedUserName"`
	DateCreated      time.Time `json:"dateCreated"`
}

// TaskDraftDTO represents a suggested task
type TaskDraftDTO struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// Response is the envelope for every successful response
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ListResponse is the envelope for paginated lists
type ListResponse struct {
	Message    string                   `json:"message"`
	Data       interface{}              `json:"data"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:               task.ID,
		Name:             task.Name,
		Description:      task.Description,
		Deadline:         task.Deadline,
		Completed:        task.Completed,
		AssignedUser:     task.Owner(),
		AssignedUserName: task.AssignedUserName,
		DateCreated:      task.CreatedAt,
	}

	if !task.IsAssigned() {
		dto.AssignedUser = ""
		dto.AssignedUserName = constants.UnassignedUserName
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskDraftDTOs converts generated drafts
func ToTaskDraftDTOs(drafts []services.TaskDraft) []TaskDraftDTO {
	items := make([]TaskDraftDTO, len(drafts))
	for i, draft := range drafts {
		items[i] = TaskDraftDTO{
			Name:        draft.Name,
			Description: draft.Description,
			Deadline:    draft.Deadline,
		}
	}
	return items
}

// ToTaskListResponse converts a page of tasks to a ListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) ListResponse {
	return ListResponse{
		Message: "OK",
		Data:    ToTaskDTOs(tasks),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
