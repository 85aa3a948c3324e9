package models

import "time"

// PendingTask is one member of a user's pending set. The composite key makes
// re-adding the same task a no-op.
type PendingTask struct {
	UserID    string    `gorm:"primarykey;type:varchar(36)" json:"user_id"`
	TaskID    string    `gorm:"primarykey;type:varchar(36);index" json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}
