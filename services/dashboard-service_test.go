package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/repositories/inmem"
)

func TestAdminStats(t *testing.T) {
	tasks := inmem.NewTaskRepository()
	projects := inmem.NewProjectRepository()
	users := inmem.NewUserRepository()
	service := NewDashboardService(projects, tasks, users)
	ctx := context.Background()

	mia := &models.User{Username: "mia", Role: models.RoleStudent}
	users.Insert(ctx, mia)
	users.Insert(ctx, &models.User{Username: "leo", Role: models.RoleStudent})
	users.Insert(ctx, &models.User{Username: "boss", Role: models.RoleAdmin})

	done := &models.Project{Title: "done", Status: models.ProjectCompleted, Students: []primitive.ObjectID{mia.ID}}
	projects.Insert(ctx, done)
	projects.Insert(ctx, &models.Project{Title: "wip", Status: models.ProjectInProgress})

	tasks.Insert(ctx, &models.Task{Name: "a", ProjectID: done.ID, AssignedTo: mia.ID, Status: models.TaskCompleted})
	tasks.Insert(ctx, &models.Task{Name: "b", ProjectID: done.ID, AssignedTo: mia.ID, Status: models.TaskPending})

	stats, err := service.GetAdminStats(ctx, adminClaims())
	if err != nil {
		t.Fatalf("GetAdminStats() error = %v", err)
	}
	if stats.Projects != 2 || stats.Students != 2 || stats.Tasks != 2 || stats.FinishedProjects != 1 {
		t.Errorf("stats = %+v, want 2 projects, 2 students, 2 tasks, 1 finished", stats)
	}

	_, err = service.GetAdminStats(ctx, studentClaims(mia))
	var authzErr *models.AuthorizationError
	if !errors.As(err, &authzErr) {
		t.Errorf("GetAdminStats() as student error = %v, want AuthorizationError", err)
	}

	studentStats, err := service.GetStudentStats(ctx, studentClaims(mia), mia.ID)
	if err != nil {
		t.Fatalf("GetStudentStats() error = %v", err)
	}
	if studentStats.Projects != 1 || studentStats.Tasks != 2 || studentStats.CompletedTasks != 1 || studentStats.FinishedProjects != 1 {
		t.Errorf("student stats = %+v, want 1/2/1/1", studentStats)
	}
}
