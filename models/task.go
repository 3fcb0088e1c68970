package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses. Completion is one-way: once done, the evaluated model
// never un-completes a task.
const (
	TaskStatusInProgress = "inProgress"
	TaskStatusPaused     = "paused"
	TaskStatusDone       = "done"
)

// Task is a per-user task record. CompletedAt is set iff Status == done.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Difficulty  string             `bson:"difficulty" json:"difficulty"`
	Status      string             `bson:"status" json:"status"`
	DueDate     time.Time          `bson:"dueDate" json:"dueDate"`
	TimeSpent   int                `bson:"timeSpent" json:"timeSpent"` // minutes
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// ValidTaskStatus reports whether s is one of the known status tags.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusInProgress, TaskStatusPaused, TaskStatusDone:
		return true
	}
	return false
}
