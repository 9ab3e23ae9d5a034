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

type ProjectService struct {
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	users    repositories.UserRepository
}

func NewProjectService(projects repositories.ProjectRepository, tasks repositories.TaskRepository, users repositories.UserRepository) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, users: users}
}

type ProjectCreateInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Students    []primitive.ObjectID `json:"students"`
	Category    string               `json:"category"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     time.Time            `json:"endDate"`
	Status      models.ProjectStatus `json:"status"`
}

// CreateProject persists a new project. Progress always starts at 0 no
// matter what the client sent.
func (s *ProjectService) CreateProject(ctx context.Context, input ProjectCreateInput) (*models.ProjectView, error) {
	switch {
	case input.Title == "":
		return nil, models.NewValidationError("Project title is required")
	case input.Description == "":
		return nil, models.NewValidationError("Project description is required")
	case input.Students == nil:
		return nil, models.NewValidationError("Project students are required")
	case input.Category == "":
		return nil, models.NewValidationError("Project category is required")
	case input.StartDate.IsZero():
		return nil, models.NewValidationError("Project start date is required")
	case input.EndDate.IsZero():
		return nil, models.NewValidationError("Project end date is required")
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, models.NewValidationError("Project end date cannot be before the start date")
	}

	status := input.Status
	if status == "" {
		status = models.ProjectInProgress
	}
	if !models.ValidProjectStatus(status) {
		return nil, models.NewValidationError("Invalid project status")
	}

	project := &models.Project{
		Title:       input.Title,
		Description: input.Description,
		Students:    input.Students,
		Category:    input.Category,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      status,
		Progress:    0,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.projects.Insert(ctx, project); err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created", project.ID.Hex())

	return s.populate(ctx, *project), nil
}

// UpdateProject is the admin override path: any field may be overwritten,
// including progress and status, independent of the derivation rule.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID primitive.ObjectID, upd models.ProjectUpdate) (*models.ProjectView, error) {
	if upd.Status != nil && !models.ValidProjectStatus(*upd.Status) {
		return nil, models.NewValidationError("Invalid project status")
	}
	if upd.Progress != nil && (*upd.Progress < 0 || *upd.Progress > 100) {
		return nil, models.NewValidationError("Progress must be between 0 and 100")
	}

	project, err := s.projects.Update(ctx, projectID, upd)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("Project not found")
	}
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	return s.populate(ctx, *project), nil
}

// PatchProgress overrides the derived progress value directly. The next task
// mutation on the project recomputes it from the task set again.
func (s *ProjectService) PatchProgress(ctx context.Context, projectID primitive.ObjectID, progress int) (*models.ProjectView, error) {
	if progress < 0 || progress > 100 {
		return nil, models.NewValidationError("Progress must be between 0 and 100")
	}
	project, err := s.projects.Update(ctx, projectID, models.ProjectUpdate{Progress: &progress})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("Project not found")
	}
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	return s.populate(ctx, *project), nil
}

// DeleteProject cascades: tasks go first, then the project itself. A failure
// deleting tasks aborts before the project is touched; a failure on the
// second phase is reported after the tasks are already gone, with no
// rollback.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID primitive.ObjectID) error {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.NewNotFoundError("Project not found")
		}
		return models.NewStoreError("Server error", err)
	}

	deleted, err := s.tasks.DeleteByProject(ctx, projectID)
	if err != nil {
		return models.NewStoreError("Failed to delete project tasks", err)
	}
	logging.Logger.Infof("Event ID: PROJECT_TASKS_DELETED, Description: Deleted %d tasks of project %s", deleted, projectID.Hex())

	if err := s.projects.Delete(ctx, projectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.NewNotFoundError("Project not found")
		}
		return models.NewStoreError("Project tasks were deleted but the project itself could not be removed", err)
	}
	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted", projectID.Hex())
	return nil
}

// GetProjectsFor lists all projects for admins; students get a
// membership-filtered store query.
func (s *ProjectService) GetProjectsFor(ctx context.Context, claims *utils.Claims) ([]models.ProjectView, error) {
	var (
		projects []models.Project
		err      error
	)
	if claims.Role == string(models.RoleAdmin) {
		projects, err = s.projects.GetAll(ctx)
	} else {
		callerID, convErr := primitive.ObjectIDFromHex(claims.UserID)
		if convErr != nil {
			return nil, models.NewAuthenticationError("Invalid caller identity")
		}
		projects, err = s.projects.GetByStudent(ctx, callerID)
	}
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	return s.populateAll(ctx, projects), nil
}

func (s *ProjectService) GetProjectsByStudent(ctx context.Context, claims *utils.Claims, studentID primitive.ObjectID) ([]models.ProjectView, error) {
	if err := middleware.RequireSelfOrAdmin(claims, studentID.Hex()); err != nil {
		return nil, err
	}
	projects, err := s.projects.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, models.NewStoreError("Server error", err)
	}
	return s.populateAll(ctx, projects), nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, claims *utils.Claims, projectID primitive.ObjectID) (*models.ProjectView, error) {
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
	return s.populate(ctx, *project), nil
}

func (s *ProjectService) populate(ctx context.Context, project models.Project) *models.ProjectView {
	view := models.ProjectView{Project: project, StudentUsernames: []string{}}
	for _, studentID := range project.Students {
		if user, err := s.users.GetByID(ctx, studentID); err == nil {
			view.StudentUsernames = append(view.StudentUsernames, user.Username)
		}
	}
	return &view
}

func (s *ProjectService) populateAll(ctx context.Context, projects []models.Project) []models.ProjectView {
	views := make([]models.ProjectView, 0, len(projects))
	for _, project := range projects {
		views = append(views, *s.populate(ctx, project))
	}
	return views
}
