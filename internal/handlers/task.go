package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-relations-api/internal/constants"
	"github.com/yukikurage/task-relations-api/internal/dto"
	apierrors "github.com/yukikurage/task-relations-api/internal/errors"
	"github.com/yukikurage/task-relations-api/internal/services"
	"github.com/yukikurage/task-relations-api/internal/utils"
)

type TaskHandler struct {
	coordinator *services.Coordinator
}

func NewTaskHandler(coordinator *services.Coordinator) *TaskHandler {
	return &TaskHandler{
		coordinator: coordinator,
	}
}

// TaskRequest is the body of create and update. deadline and completed are
// left untyped so the coordinator can accept every form clients send.
type TaskRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Deadline     any    `json:"deadline"`
	Completed    any    `json:"completed"`
	AssignedUser string `json:"assignedUser"`
}

func (r TaskRequest) toInput() services.TaskInput {
	return services.TaskInput{
		Name:         r.Name,
		Description:  r.Description,
		Deadline:     r.Deadline,
		Completed:    r.Completed,
		AssignedUser: r.AssignedUser,
	}
}

// ListTasks returns tasks, optionally filtered by assignedUser and completed
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c, constants.DefaultTaskPageSize)

	input := services.ListTasksInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if owner, ok := c.GetQuery("assignedUser"); ok {
		input.AssignedUser = &owner
	}
	if completedStr, ok := c.GetQuery("completed"); ok {
		completed, err := strconv.ParseBool(completedStr)
		if err != nil {
			apierrors.BadRequest(c, "completed must be true or false")
			return
		}
		input.Completed = &completed
	}

	tasks, total, err := h.coordinator.ListTasks(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, err)
		return
	}

	if wantsCount(c) {
		c.JSON(http.StatusOK, dto.Response{Message: "OK", Data: total})
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// wantsCount reports whether the caller asked for the match count instead of records
func wantsCount(c *gin.Context) bool {
	count, err := strconv.ParseBool(c.DefaultQuery("count", "false"))
	return err == nil && count
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.coordinator.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{Message: "OK", Data: dto.ToTaskDTO(*task)})
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.coordinator.CreateTask(c.Request.Context(), req.toInput())
	if err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Response{Message: "Task created", Data: dto.ToTaskDTO(*task)})
}

// UpdateTask replaces a task's writable fields
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.coordinator.UpdateTask(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{Message: "Task updated", Data: dto.ToTaskDTO(*task)})
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.coordinator.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{Message: "Task deleted", Data: []interface{}{}})
}

// DraftTasks uses AI to suggest tasks from free text. Nothing is persisted.
func (h *TaskHandler) DraftTasks(c *gin.Context) {
	type DraftTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req DraftTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "text is required")
		return
	}

	drafts, err := h.coordinator.DraftTasks(c.Request.Context(), req.Text)
	if err != nil {
		_ = c.Error(err)
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{Message: "OK", Data: dto.ToTaskDraftDTOs(drafts)})
}
