package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"dateCreated"`

	// PendingTasks is the user's side of the ownership relation. SQL stores
	// it as PendingTask rows; document stores keep it inline.
	PendingTasks []string `gorm:"-" json:"pendingTasks"`

	// Relations
	Pending []PendingTask `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate assigns a UUID primary key when the caller did not supply one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// AfterFind projects the preloaded join rows onto PendingTasks.
func (u *User) AfterFind(tx *gorm.DB) error {
	if u.Pending == nil {
		return nil
	}
	ids := make([]string, 0, len(u.Pending))
	for _, p := range u.Pending {
		ids = append(ids, p.TaskID)
	}
	sort.Strings(ids)
	u.PendingTasks = ids
	return nil
}

// HasPendingTask reports whether taskID is in the user's pending set.
func (u User) HasPendingTask(taskID string) bool {
	for _, id := range u.PendingTasks {
		if id == taskID {
			return true
		}
	}
	return false
}
