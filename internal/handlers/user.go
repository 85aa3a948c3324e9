package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-relations-api/internal/constants"
	"github.com/yukikurage/task-relations-api/internal/dto"
	apierrors "github.com/yukikurage/task-relations-api/internal/errors"
	"github.com/yukikurage/task-relations-api/internal/services"
	"github.com/yukikurage/task-relations-api/internal/utils"
)

type UserHandler struct {
	coordinator *services.Coordinator
}

func NewUserHandler(coordinator *services.Coordinator) *UserHandler {
	return &UserHandler{
		coordinator: coordinator,
	}
}

// UserRequest is the body of create and update
type UserRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PendingTasks any    `json:"pendingTasks"`
}

func (r UserRequest) toInput() services.UserInput {
	return services.UserInput{
		Name:         r.Name,
		Email:        r.Email,
		PendingTasks: r.PendingTasks,
	}
}

// ListUsers returns users, optionally filtered by email
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c, constants.DefaultPageSize)

	input := services.ListUsersInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if email, ok := c.GetQuery("email"); ok {
		input.Email = &email
	}

	users, total, err := h.coordinator.ListUsers(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, err)
		return
	}

	if wantsCount(c) {
		c.JSON(http.StatusOK, dto.Response{Message: "OK", Data: total})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, params, total))
}

// GetUser returns a specific user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.coordinator.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{Message: "OK", Data: dto.ToUserDTO(*user)})
}

// CreateUser creates a user and claims its pending tasks
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.coordinator.CreateUser(c.Request.Context(), req.toInput())
	if err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Response{Message: "User created", Data: dto.ToUserDTO(*user)})
}

// UpdateUser replaces a user's writable fields
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.coordinator.UpdateUser(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{Message: "User updated", Data: dto.ToUserDTO(*user)})
}

// DeleteUser releases the user's tasks and deletes the user
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.coordinator.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{Message: "User deleted", Data: []interface{}{}})
}
