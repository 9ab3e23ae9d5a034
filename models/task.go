package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "In Progress"
	TaskOnHold     TaskStatus = "On Hold"
	TaskCancelled  TaskStatus = "Cancelled"
	TaskCompleted  TaskStatus = "Completed"
)

func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskOnHold, TaskCancelled, TaskCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	ProjectID   primitive.ObjectID `bson:"projectId" json:"projectId"`
	AssignedTo  primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	Status      TaskStatus         `bson:"status" json:"status"`
	DueDate     time.Time          `bson:"dueDate" json:"dueDate"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// TaskUpdate is the admin full-update shape. Students never reach this path;
// their only write is the status patch.
type TaskUpdate struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	ProjectID   *primitive.ObjectID `json:"projectId,omitempty"`
	AssignedTo  *primitive.ObjectID `json:"assignedTo,omitempty"`
	Status      *TaskStatus         `json:"status,omitempty"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
}

// TaskView is the populated response shape: assignee username and project
// title resolved for display.
type TaskView struct {
	Task
	AssignedToUsername string `json:"assignedToUsername,omitempty"`
	ProjectTitle       string `json:"projectTitle,omitempty"`
}
