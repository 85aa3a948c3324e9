package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/task-relations-api/internal/dto"
)

// TestCreateUser_ClaimsPendingTasks tests the round trip from a user's pending list to the task side
func (suite *APITestSuite) TestCreateUser_ClaimsPendingTasks() {
	task := suite.createTask(gin.H{"name": "Report", "deadline": testDeadline})

	w, resp := suite.do("POST", "/api/users", gin.H{
		"name":         " Ada ",
		"email":        "ada@example.com",
		"pendingTasks": []string{task.ID, " " + task.ID + " "},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(suite.T(), "User created", resp.Message)

	user := suite.decodeUser(resp)
	assert.Equal(suite.T(), "Ada", user.Name)
	assert.Equal(suite.T(), []string{task.ID}, user.PendingTasks)

	reloaded := suite.getTask(task.ID)
	assert.Equal(suite.T(), user.ID, reloaded.AssignedUser)
	assert.Equal(suite.T(), "Ada", reloaded.AssignedUserName)
}

// TestCreateUser_DuplicateEmail tests that a reused email is a validation error
func (suite *APITestSuite) TestCreateUser_DuplicateEmail() {
	suite.createUser(gin.H{"name": "Ada", "email": "ada@example.com"})

	w, resp := suite.do("POST", "/api/users", gin.H{"name": "Imposter", "email": "ada@example.com"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "INVALID_INPUT", resp.Code)
	assert.Equal(suite.T(), "Email already exists", resp.Message)

	_, resp = suite.do("GET", "/api/users", nil)
	assert.Equal(suite.T(), int64(1), resp.Pagination.Total)
}

// TestCreateUser_ValidationErrors tests client faults on create
func (suite *APITestSuite) TestCreateUser_ValidationErrors() {
	owner := suite.createUser(gin.H{"name": "Bob", "email": "bob@example.com"})
	owned := suite.createTask(gin.H{"name": "Owned", "deadline": testDeadline, "assignedUser": owner.ID})
	done := suite.createTask(gin.H{"name": "Done", "deadline": testDeadline, "completed": true})

	tests := []struct {
		name   string
		body   gin.H
		status int
		code   string
	}{
		{"missing email", gin.H{"name": "Ada"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"blank name", gin.H{"name": " ", "email": "ada@example.com"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"pending not a list", gin.H{"name": "Ada", "email": "ada@example.com", "pendingTasks": "abc"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"pending empty id", gin.H{"name": "Ada", "email": "ada@example.com", "pendingTasks": []string{""}}, http.StatusBadRequest, "INVALID_INPUT"},
		{"pending missing", gin.H{"name": "Ada", "email": "ada@example.com", "pendingTasks": []string{"6f1c1b0e-8a55-4a4e-9c62-5d8f0c7d1a11"}}, http.StatusNotFound, "NOT_FOUND"},
		{"pending completed", gin.H{"name": "Ada", "email": "ada@example.com", "pendingTasks": []string{done.ID}}, http.StatusBadRequest, "INVALID_INPUT"},
		{"pending owned elsewhere", gin.H{"name": "Ada", "email": "ada@example.com", "pendingTasks": []string{owned.ID}}, http.StatusConflict, "CONFLICT"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w, resp := suite.do("POST", "/api/users", tt.body)
			assert.Equal(suite.T(), tt.status, w.Code, w.Body.String())
			assert.Equal(suite.T(), tt.code, resp.Code)
		})
	}

	_, resp := suite.do("GET", "/api/users", nil)
	assert.Equal(suite.T(), int64(1), resp.Pagination.Total)
}

// TestUpdateUser_PendingDiff tests releasing and claiming tasks through the user side
func (suite *APITestSuite) TestUpdateUser_PendingDiff() {
	first := suite.createTask(gin.H{"name": "First", "deadline": testDeadline})
	second := suite.createTask(gin.H{"name": "Second", "deadline": testDeadline})
	user := suite.createUser(gin.H{"name": "Ada", "email": "ada@example.com", "pendingTasks": []string{first.ID}})

	w, resp := suite.do("PUT", "/api/users/"+user.ID, gin.H{
		"name":         "Ada Lovelace",
		"email":        "ada@example.com",
		"pendingTasks": []string{second.ID},
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	assert.Equal(suite.T(), "User updated", resp.Message)
	assert.Equal(suite.T(), []string{second.ID}, suite.decodeUser(resp).PendingTasks)

	released := suite.getTask(first.ID)
	assert.Equal(suite.T(), "", released.AssignedUser)
	assert.Equal(suite.T(), "unassigned", released.AssignedUserName)

	claimed := suite.getTask(second.ID)
	assert.Equal(suite.T(), user.ID, claimed.AssignedUser)
	assert.Equal(suite.T(), "Ada Lovelace", claimed.AssignedUserName)
}

// TestUpdateUser_Conflict tests that a task owned by another user is rejected without writes
func (suite *APITestSuite) TestUpdateUser_Conflict() {
	ada := suite.createUser(gin.H{"name": "Ada", "email": "ada@example.com"})
	bob := suite.createUser(gin.H{"name": "Bob", "email": "bob@example.com"})
	task := suite.createTask(gin.H{"name": "Report", "deadline": testDeadline, "assignedUser": ada.ID})

	w, resp := suite.do("PUT", "/api/users/"+bob.ID, gin.H{
		"name":         "Bob",
		"email":        "bob@example.com",
		"pendingTasks": []string{task.ID},
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Equal(suite.T(), "CONFLICT", resp.Code)

	assert.Equal(suite.T(), []string{task.ID}, suite.getUser(ada.ID).PendingTasks)
	assert.Empty(suite.T(), suite.getUser(bob.ID).PendingTasks)
	assert.Equal(suite.T(), ada.ID, suite.getTask(task.ID).AssignedUser)
}

// TestUpdateUser_NotFound tests updating a missing user
func (suite *APITestSuite) TestUpdateUser_NotFound() {
	w, resp := suite.do("PUT", "/api/users/6f1c1b0e-8a55-4a4e-9c62-5d8f0c7d1a11", gin.H{
		"name":  "Ada",
		"email": "ada@example.com",
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "User not found", resp.Message)
}

// TestDeleteUser_Cascade tests that deleting a user unassigns its tasks
func (suite *APITestSuite) TestDeleteUser_Cascade() {
	first := suite.createTask(gin.H{"name": "First", "deadline": testDeadline})
	second := suite.createTask(gin.H{"name": "Second", "deadline": testDeadline})
	user := suite.createUser(gin.H{"name": "Ada", "email": "ada@example.com", "pendingTasks": []string{first.ID, second.ID}})

	w, resp := suite.do("DELETE", "/api/users/"+user.ID, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "User deleted", resp.Message)

	w, _ = suite.do("GET", "/api/users/"+user.ID, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	for _, id := range []string{first.ID, second.ID} {
		task := suite.getTask(id)
		assert.Equal(suite.T(), "", task.AssignedUser)
		assert.Equal(suite.T(), "unassigned", task.AssignedUserName)
	}
}

// TestListUsers_EmailFilter tests the email filter
func (suite *APITestSuite) TestListUsers_EmailFilter() {
	suite.createUser(gin.H{"name": "Ada", "email": "ada@example.com"})
	suite.createUser(gin.H{"name": "Bob", "email": "bob@example.com"})

	w, resp := suite.do("GET", "/api/users?email=bob@example.com", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), int64(1), resp.Pagination.Total)

	var users []dto.UserDTO
	suite.Require().NoError(json.Unmarshal(resp.Data, &users))
	suite.Require().Len(users, 1)
	assert.Equal(suite.T(), "Bob", users[0].Name)
	assert.Equal(suite.T(), []string{}, users[0].PendingTasks)
}
