package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "Pending"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectOnHold     ProjectStatus = "On Hold"
	ProjectCancelled  ProjectStatus = "Cancelled"
	ProjectCompleted  ProjectStatus = "Completed"
)

func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectPending, ProjectInProgress, ProjectOnHold, ProjectCancelled, ProjectCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Students    []primitive.ObjectID `bson:"students" json:"students"`
	Category    string               `bson:"category" json:"category"`
	StartDate   time.Time            `bson:"startDate" json:"startDate"`
	EndDate     time.Time            `bson:"endDate" json:"endDate"`
	Status      ProjectStatus        `bson:"status" json:"status"`
	Progress    int                  `bson:"progress" json:"progress"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}

// ProjectUpdate carries the admin override fields for a project update.
// Nil fields are left untouched. Progress and Status bypass the derived-state
// rule on purpose; this is the manual correction path.
type ProjectUpdate struct {
	Title       *string               `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	Students    *[]primitive.ObjectID `json:"students,omitempty"`
	Category    *string               `json:"category,omitempty"`
	StartDate   *time.Time            `json:"startDate,omitempty"`
	EndDate     *time.Time            `json:"endDate,omitempty"`
	Status      *ProjectStatus        `json:"status,omitempty"`
	Progress    *int                  `json:"progress,omitempty"`
}

// ProjectView is the populated response shape: student usernames resolved.
type ProjectView struct {
	Project
	StudentUsernames []string `json:"studentUsernames"`
}
