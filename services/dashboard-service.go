package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quasydwekat2/task-management-system/middleware"
	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/repositories"
	"github.com/quasydwekat2/task-management-system/utils"
)

type DashboardService struct {
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	users    repositories.UserRepository
}

func NewDashboardService(projects repositories.ProjectRepository, tasks repositories.TaskRepository, users repositories.UserRepository) *DashboardService {
	return &DashboardService{projects: projects, tasks: tasks, users: users}
}

type AdminStats struct {
	Projects         int64 `json:"projects"`
	Students         int64 `json:"students"`
	Tasks            int64 `json:"tasks"`
	FinishedProjects int64 `json:"finishedProjects"`
}

type StudentStats struct {
	Projects         int64 `json:"projects"`
	Tasks            int64 `json:"tasks"`
	CompletedTasks   int64 `json:"completedTasks"`
	FinishedProjects int64 `json:"finishedProjects"`
}

func (s *DashboardService) GetAdminStats(ctx context.Context, claims *utils.Claims) (*AdminStats, error) {
	if err := middleware.RequireAdmin(claims); err != nil {
		return nil, err
	}

	projects, err := s.projects.Count(ctx)
	if err != nil {
		return nil, models.NewStoreError("Failed to fetch dashboard statistics", err)
	}
	students, err := s.users.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, models.NewStoreError("Failed to fetch dashboard statistics", err)
	}
	tasks, err := s.tasks.Count(ctx)
	if err != nil {
		return nil, models.NewStoreError("Failed to fetch dashboard statistics", err)
	}
	finished, err := s.projects.CountByStatus(ctx, models.ProjectCompleted)
	if err != nil {
		return nil, models.NewStoreError("Failed to fetch dashboard statistics", err)
	}

	return &AdminStats{
		Projects:         projects,
		Students:         students,
		Tasks:            tasks,
		FinishedProjects: finished,
	}, nil
}

func (s *DashboardService) GetStudentStats(ctx context.Context, claims *utils.Claims, studentID primitive.ObjectID) (*StudentStats, error) {
	if err := middleware.RequireSelfOrAdmin(claims, studentID.Hex()); err != nil {
		return nil, err
	}

	projects, err := s.projects.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, models.NewStoreError("Failed to fetch student statistics", err)
	}
	tasks, err := s.tasks.CountByAssignee(ctx, studentID)
	if err != nil {
		return nil, models.NewStoreError("Failed to fetch student statistics", err)
	}
	completedTasks, err := s.tasks.CountByAssigneeAndStatus(ctx, studentID, models.TaskCompleted)
	if err != nil {
		return nil, models.NewStoreError("Failed to fetch student statistics", err)
	}
	finished, err := s.projects.CountByStudentAndStatus(ctx, studentID, models.ProjectCompleted)
	if err != nil {
		return nil, models.NewStoreError("Failed to fetch student statistics", err)
	}

	return &StudentStats{
		Projects:         int64(len(projects)),
		Tasks:            tasks,
		CompletedTasks:   completedTasks,
		FinishedProjects: finished,
	}, nil
}
