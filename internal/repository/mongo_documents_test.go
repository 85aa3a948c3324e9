package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-relations-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestObjectIDs_SkipsMalformedAndDuplicates(t *testing.T) {
	oid := primitive.NewObjectID()

	ids := objectIDs([]string{oid.Hex(), "garbage", oid.Hex(), ""})

	assert.Equal(t, []primitive.ObjectID{oid}, ids)
}

func TestTaskDocument_RoundTrip(t *testing.T) {
	owner := "65a000000000000000000001"
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	task := &models.Task{
		Name:             "Report",
		Deadline:         time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		AssignedUser:     &owner,
		AssignedUserName: "Ada",
		CreatedAt:        created,
	}

	doc := newTaskDocument(task)
	doc.ID = primitive.NewObjectID()
	model := doc.toModel()

	assert.Equal(t, doc.ID.Hex(), model.ID)
	assert.Equal(t, owner, model.Owner())
	assert.Equal(t, "Ada", model.AssignedUserName)
	assert.Equal(t, created, model.CreatedAt)
}

func TestTaskDocument_UnassignedOmitsOwner(t *testing.T) {
	raw, err := bson.Marshal(newTaskDocument(&models.Task{Name: "Report"}))
	require.NoError(t, err)

	var decoded bson.M
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "assignedUser")
	assert.NotContains(t, decoded, "_id")

	var doc taskDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.False(t, doc.toModel().IsAssigned())
}

func TestUserDocument_DeduplicatesPending(t *testing.T) {
	doc := newUserDocument(&models.User{Name: "Ada", Email: "ada@example.com", PendingTasks: []string{"b", "a", "b"}})
	assert.Equal(t, []string{"b", "a"}, doc.PendingTasks)

	assert.Equal(t, []string{"a", "b"}, doc.toModel().PendingTasks)
	assert.Equal(t, []string{}, userDocument{}.toModel().PendingTasks)
}

func TestSortedCopy_EmptyStaysNonNil(t *testing.T) {
	assert.Equal(t, []string{}, sortedCopy(nil))
	assert.Equal(t, []string{}, sortedCopy([]string{}))

	input := []string{"b", "a"}
	assert.Equal(t, []string{"a", "b"}, sortedCopy(input))
	assert.Equal(t, []string{"b", "a"}, input)
}

func TestTaskFilterDocument(t *testing.T) {
	oid := primitive.NewObjectID()
	owner := "u1"
	unassigned := ""
	completed := false

	assert.Equal(t, bson.M{
		"_id":          bson.M{"$in": []primitive.ObjectID{oid}},
		"assignedUser": "u1",
		"completed":    false,
	}, taskFilterDocument(TaskFilter{IDs: []string{oid.Hex()}, AssignedUser: &owner, Completed: &completed}))

	assert.Equal(t, bson.M{
		"assignedUser": bson.M{"$in": bson.A{nil, ""}},
	}, taskFilterDocument(TaskFilter{AssignedUser: &unassigned}))
}

func TestTaskUpdateDocument(t *testing.T) {
	name := "Report"
	completed := true

	t.Run("assign", func(t *testing.T) {
		update := taskUpdateDocument(TaskFields{
			Name:       &name,
			Completed:  &completed,
			Assignment: &Assignment{UserID: "u1", UserName: "Ada"},
		})
		assert.Equal(t, bson.M{"$set": bson.M{
			"name":             "Report",
			"completed":        true,
			"assignedUser":     "u1",
			"assignedUserName": "Ada",
		}}, update)
	})

	t.Run("clear owner unsets fields", func(t *testing.T) {
		update := taskUpdateDocument(TaskFields{Assignment: Unassigned()})
		assert.Equal(t, bson.M{"$unset": bson.M{
			"assignedUser":     "",
			"assignedUserName": "",
		}}, update)
	})

	t.Run("restamp name only", func(t *testing.T) {
		renamed := "Ada Lovelace"
		update := taskUpdateDocument(TaskFields{AssignedUserName: &renamed})
		assert.Equal(t, bson.M{"$set": bson.M{"assignedUserName": "Ada Lovelace"}}, update)
	})
}

func TestUserUpdateDocument(t *testing.T) {
	email := "ada@example.com"
	pending := []string{"t1", "t1", "t2"}

	assert.Equal(t, bson.M{"$set": bson.M{
		"email":        "ada@example.com",
		"pendingTasks": []string{"t1", "t2"},
	}}, userUpdateDocument(UserFields{Email: &email, PendingTasks: &pending}))

	assert.Empty(t, userUpdateDocument(UserFields{}))
}

func TestTranslateMongoError(t *testing.T) {
	assert.NoError(t, translateMongoError(nil))
	assert.ErrorIs(t, translateMongoError(mongo.ErrNoDocuments), ErrNotFound)

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
	assert.ErrorIs(t, translateMongoError(dup), ErrDuplicateEmail)

	other := errors.New("server selection timeout")
	assert.Equal(t, other, translateMongoError(other))
}
