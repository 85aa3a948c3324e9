package dto

import (
	"time"

	"github.com/yukikurage/task-relations-api/internal/models"
	"github.com/yukikurage/task-relations-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PendingTasks []string  `json:"pendingTasks"`
	DateCreated  time.Time `json:"dateCreated"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	pending := user.PendingTasks
	if pending == nil {
		pending = []string{}
	}

	return UserDTO{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PendingTasks: pending,
		DateCreated:  user.CreatedAt,
	}
}

// ToUserListResponse converts a page of users to a ListResponse
func ToUserListResponse(users []models.User, params utils.PaginationParams, total int64) ListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}

	return ListResponse{
		Message: "OK",
		Data:    items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
