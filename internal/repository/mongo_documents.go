package repository

import (
	"time"

	"github.com/yukikurage/task-relations-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// taskDocument is the stored shape of a task. assignedUser is absent when
// the task has no owner.
type taskDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Description      string             `bson:"description"`
	Deadline         time.Time          `bson:"deadline"`
	Completed        bool               `bson:"completed"`
	AssignedUser     string             `bson:"assignedUser,omitempty"`
	AssignedUserName string             `bson:"assignedUserName,omitempty"`
	DateCreated      time.Time          `bson:"dateCreated"`
}

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PendingTasks []string           `bson:"pendingTasks"`
	DateCreated  time.Time          `bson:"dateCreated"`
}

func (d taskDocument) toModel() models.Task {
	task := models.Task{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Description:      d.Description,
		Deadline:         d.Deadline,
		Completed:        d.Completed,
		AssignedUserName: d.AssignedUserName,
		CreatedAt:        d.DateCreated,
	}
	if d.AssignedUser != "" {
		owner := d.AssignedUser
		task.AssignedUser = &owner
	}
	return task
}

func newTaskDocument(task *models.Task) taskDocument {
	return taskDocument{
		Name:             task.Name,
		Description:      task.Description,
		Deadline:         task.Deadline,
		Completed:        task.Completed,
		AssignedUser:     task.Owner(),
		AssignedUserName: task.AssignedUserName,
		DateCreated:      task.CreatedAt,
	}
}

func (d userDocument) toModel() models.User {
	pending := d.PendingTasks
	if pending == nil {
		pending = []string{}
	}
	return models.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PendingTasks: sortedCopy(pending),
		CreatedAt:    d.DateCreated,
	}
}

func newUserDocument(user *models.User) userDocument {
	return userDocument{
		Name:         user.Name,
		Email:        user.Email,
		PendingTasks: uniqueStrings(user.PendingTasks),
		DateCreated:  user.CreatedAt,
	}
}

// objectIDs parses the valid hex identifiers in ids, skipping the rest.
func objectIDs(ids []string) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	result := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		if _, exists := seen[oid]; exists {
			continue
		}
		seen[oid] = struct{}{}
		result = append(result, oid)
	}
	return result
}

// taskFilterDocument builds the query document for a TaskFilter.
func taskFilterDocument(filter TaskFilter) bson.M {
	query := bson.M{}
	if filter.IDs != nil {
		query["_id"] = bson.M{"$in": objectIDs(filter.IDs)}
	}
	if filter.AssignedUser != nil {
		if *filter.AssignedUser == "" {
			query["assignedUser"] = bson.M{"$in": bson.A{nil, ""}}
		} else {
			query["assignedUser"] = *filter.AssignedUser
		}
	}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}
	return query
}

// taskUpdateDocument builds the update document for a partial task update.
// Clearing the owner unsets assignedUser instead of storing a sentinel.
func taskUpdateDocument(fields TaskFields) bson.M {
	set := bson.M{}
	unset := bson.M{}

	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Deadline != nil {
		set["deadline"] = *fields.Deadline
	}
	if fields.Completed != nil {
		set["completed"] = *fields.Completed
	}
	if fields.Assignment != nil {
		if fields.Assignment.UserID == "" {
			unset["assignedUser"] = ""
			unset["assignedUserName"] = ""
		} else {
			set["assignedUser"] = fields.Assignment.UserID
			set["assignedUserName"] = fields.Assignment.UserName
		}
	}
	if fields.AssignedUserName != nil {
		delete(unset, "assignedUserName")
		set["assignedUserName"] = *fields.AssignedUserName
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

// userUpdateDocument builds the update document for a partial user update.
func userUpdateDocument(fields UserFields) bson.M {
	set := bson.M{}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Email != nil {
		set["email"] = *fields.Email
	}
	if fields.PendingTasks != nil {
		set["pendingTasks"] = uniqueStrings(*fields.PendingTasks)
	}
	if len(set) == 0 {
		return bson.M{}
	}
	return bson.M{"$set": set}
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
