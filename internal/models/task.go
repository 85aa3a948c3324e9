package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID               string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	Description      string    `gorm:"type:text" json:"description"`
	Deadline         time.Time `gorm:"not null" json:"deadline"`
	Completed        bool      `gorm:"not null;default:false;index" json:"completed"`
	AssignedUser     *string   `gorm:"type:varchar(36);index" json:"assignedUser"`
	AssignedUserName string    `gorm:"type:varchar(255)" json:"assignedUserName"`
	CreatedAt        time.Time `json:"dateCreated"`
}

// BeforeCreate assigns a UUID primary key when the caller did not supply one.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Owner returns the assigned user ID, or "" when the task is unassigned.
func (t Task) Owner() string {
	if t.AssignedUser == nil {
		return ""
	}
	return *t.AssignedUser
}

// IsAssigned reports whether the task has an owner.
func (t Task) IsAssigned() bool {
	return t.Owner() != ""
}
