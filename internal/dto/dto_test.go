package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-relations-api/internal/models"
	"github.com/yukikurage/task-relations-api/internal/utils"
)

func TestToTaskDTO_Unassigned(t *testing.T) {
	task := models.Task{ID: "t1", Name: "Write report"}

	dto := ToTaskDTO(task)

	assert.Equal(t, "", dto.AssignedUser)
	assert.Equal(t, "unassigned", dto.AssignedUserName)
}

func TestToTaskDTO_Assigned(t *testing.T) {
	owner := "u1"
	task := models.Task{ID: "t1", Name: "Write report", AssignedUser: &owner, AssignedUserName: "Ada"}

	dto := ToTaskDTO(task)

	assert.Equal(t, "u1", dto.AssignedUser)
	assert.Equal(t, "Ada", dto.AssignedUserName)
}

func TestToTaskDTO_WireFieldNames(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	body, err := json.Marshal(ToTaskDTO(models.Task{ID: "t1", Name: "n", CreatedAt: created}))
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))
	for _, key := range []string{"id", "name", "description", "deadline", "completed", "assignedUser", "assignedUserName", "dateCreated"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "2024-01-02T03:04:05Z", raw["dateCreated"])
}

func TestToUserDTO_NilPendingBecomesEmptyList(t *testing.T) {
	body, err := json.Marshal(ToUserDTO(models.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}))
	require.NoError(t, err)

	assert.Contains(t, string(body), `"pendingTasks":[]`)
}

func TestToUserListResponse(t *testing.T) {
	users := []models.User{{ID: "u1"}, {ID: "u2"}}

	resp := ToUserListResponse(users, utils.PaginationParams{Page: 2, Limit: 2}, 5)

	assert.Equal(t, "OK", resp.Message)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, int64(5), resp.Pagination.Total)
}
