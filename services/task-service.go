package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quasydwekat2/task-management-system/logging"
	"github.com/quasydwekat2/task-management-system/middleware"
	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/repositories"
	"github.com/quasydwekat2/task-management-system/utils"
)

type TaskService struct {
	tasks    repositories.TaskRepository
	projects repositories.ProjectRepository
	users    repositories.UserRepository
	engine   *ProgressEngine
}

func NewTaskService(tasks repositories.TaskRepository, projects repositories.ProjectRepository, users repositories.UserRepository, engine *ProgressEngine) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, users: users, engine: engine}
}

type TaskCreateInput struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ProjectID   primitive.ObjectID `json:"projectId"`
	AssignedTo  primitive.ObjectID `json:"assignedTo"`
	Status      models.TaskStatus  `json:"status"`
	DueDate     time.Time          `json:"dueDate"`
}

// CreateTask validates and persists a new task, then recomputes the owning
// project's derived fields. The recompute result rides along with the
// populated task.
func (s *TaskService) CreateTask(ctx context.Context, input TaskCreateInput) (*models.TaskView, string, error) {
	switch {
	case input.Name == "":
		return nil, "", models.NewValidationError("Task name is required")
	case input.Description == "":
		return nil, "", models.NewValidationError("Task description is required")
	case input.ProjectID.IsZero():
		return nil, "", models.NewValidationError("Project ID is required")
	case input.AssignedTo.IsZero():
		return nil, "", models.NewValidationError("Assignee is required")
	case input.Status == "":
		return nil, "", models.NewValidationError("Task status is required")
	case input.DueDate.IsZero():
		return nil, "", models.NewValidationError("Due date is required")
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, "", models.NewValidationError("Invalid task status")
	}

	project, err := s.projects.GetByID(ctx, input.ProjectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, "", models.NewNotFoundError("Project not found")
	}
	if err != nil {
		return nil, "", models.NewStoreError("Server error", err)
	}
	if input.DueDate.After(project.EndDate) {
		return nil, "", models.NewValidationError("Due date cannot be after the project end date")
	}

	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		AssignedTo:  input.AssignedTo,
		Status:      input.Status,
		DueDate:     input.DueDate,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, "", models.NewStoreError("Server error", err)
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created under project %s", task.ID.Hex(), task.ProjectID.Hex())

	recompute := s.engine.Recompute(ctx, task.ProjectID)
	return s.populate(ctx, *task), recompute, nil
}

// UpdateTask is the admin full-update path. The original owning project id is
// captured before the update so a projectId reassignment recomputes the
// project the task left as well as the one it joined.
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, upd models.TaskUpdate) (*models.TaskView, string, error) {
	existing, err := s.tasks.GetByID(ctx, taskID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, "", models.NewNotFoundError("Task not found")
	}
	if err != nil {
		return nil, "", models.NewStoreError("Server error", err)
	}
	originalProjectID := existing.ProjectID

	if upd.Status != nil && !models.ValidTaskStatus(*upd.Status) {
		return nil, "", models.NewValidationError("Invalid task status")
	}
	if upd.ProjectID != nil || upd.DueDate != nil {
		targetProjectID := originalProjectID
		if upd.ProjectID != nil {
			targetProjectID = *upd.ProjectID
		}
		project, err := s.projects.GetByID(ctx, targetProjectID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", models.NewNotFoundError("Project not found")
		}
		if err != nil {
			return nil, "", models.NewStoreError("Server error", err)
		}
		dueDate := existing.DueDate
		if upd.DueDate != nil {
			dueDate = *upd.DueDate
		}
		if dueDate.After(project.EndDate) {
			return nil, "", models.NewValidationError("Due date cannot be after the project end date")
		}
	}

	updated, err := s.tasks.Update(ctx, taskID, upd)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, "", models.NewNotFoundError("Task not found")
	}
	if err != nil {
		return nil, "", models.NewStoreError("Server error", err)
	}

	recompute := s.engine.Recompute(ctx, originalProjectID)
	if updated.ProjectID != originalProjectID {
		if s.engine.Recompute(ctx, updated.ProjectID) == RecomputeDegraded {
			recompute = RecomputeDegraded
		}
	}
	return s.populate(ctx, *updated), recompute, nil
}

// ChangeTaskStatus is the status-only patch, open to admins and to the
// assigned student.
func (s *TaskService) ChangeTaskStatus(ctx context.Context, claims *utils.Claims, taskID primitive.ObjectID, status models.TaskStatus) (*models.TaskView, string, error) {
	if !models.ValidTaskStatus(status) {
		return nil, "", models.NewValidationError("Invalid task status")
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, "", models.NewNotFoundError("Task not found")
	}
	if err != nil {
		return nil, "", models.NewStoreError("Server error", err)
	}
	if err := middleware.RequireAssignedOrAdmin(claims, task); err != nil {
		return nil, "", err
	}

	if err := s.tasks.SetStatus(ctx, taskID, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", models.NewNotFoundError("Task not found")
		}
		return nil, "", models.NewStoreError("Server error", err)
	}
	task.Status = status

	recompute := s.engine.Recompute(ctx, task.ProjectID)
	return s.populate(ctx, *task), recompute, nil
}

// DeleteTask removes the task and recomputes the project it belonged to.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) (string, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", models.NewNotFoundError("Task not found")
	}
	if err != nil {
		return "", models.NewStoreError("Server error", err)
	}
	projectID := task.ProjectID

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", models.NewNotFoundError("Task not found")
		}
		return "", models.NewStoreError("Server error", err)
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted from project %s", taskID.Hex(), projectID.Hex())

	return s.engine.Recompute(ctx, projectID), nil
}

// GetTasksFor lists all tasks for admins and only assigned tasks for
// students. The scoping happens in the store query, not as a post-filter.
func (s *TaskService) GetTasksFor(ctx context.Context, claims *utils.Claims) ([]models.TaskView, error) {
	var (
		tasks []models.Task
		err   error
	)
	if claims.Role == string(models.RoleAdmin) {
		tasks, err = s.tasks.GetAll(ctx)
	} else {
		callerID, convErr := primitive.ObjectIDFromHex(claims.UserID)
		if convErr != nil {
			return nil, models.NewAuthenticationError("Invalid caller identity")
		}
		tasks, err = s.tasks.GetByAssignee(ctx, callerID)
	}
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	return s.populateAll(ctx, tasks), nil
}

func (s *TaskService) GetTasksByProject(ctx context.Context, claims *utils.Claims, projectID primitive.ObjectID) ([]models.TaskView, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("Project not found")
	}
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	if err := middleware.RequireProjectMemberOrAdmin(claims, project); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.GetByProject(ctx, projectID)
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	return s.populateAll(ctx, tasks), nil
}

func (s *TaskService) GetTasksByStudent(ctx context.Context, claims *utils.Claims, studentID primitive.ObjectID) ([]models.TaskView, error) {
	if err := middleware.RequireSelfOrAdmin(claims, studentID.Hex()); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.GetByAssignee(ctx, studentID)
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	return s.populateAll(ctx, tasks), nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, claims *utils.Claims, taskID primitive.ObjectID) (*models.TaskView, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("Task not found")
	}
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	if err := middleware.RequireAssignedOrAdmin(claims, task); err != nil {
		return nil, err
	}
	return s.populate(ctx, *task), nil
}

// populate resolves the assignee username and project title for display.
// Lookup failures leave the display fields blank rather than failing the
// request.
func (s *TaskService) populate(ctx context.Context, task models.Task) *models.TaskView {
	view := models.TaskView{Task: task}
	if user, err := s.users.GetByID(ctx, task.AssignedTo); err == nil {
		view.AssignedToUsername = user.Username
	}
	if project, err := s.projects.GetByID(ctx, task.ProjectID); err == nil {
		view.ProjectTitle = project.Title
	}
	return &view
}

func (s *TaskService) populateAll(ctx context.Context, tasks []models.Task) []models.TaskView {
	views := make([]models.TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, *s.populate(ctx, task))
	}
	return views
}
