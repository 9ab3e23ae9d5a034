package services

import (
	"context"
	"errors"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quasydwekat2/task-management-system/logging"
	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/repositories"
)

// Recompute outcome attached to the responses of triggering operations. A
// degraded recompute never fails the operation that triggered it; the task or
// project write has already committed.
const (
	RecomputeOK       = "ok"
	RecomputeDegraded = "degraded"
)

// DeriveProgress computes the completion percentage of a task set with
// half-up rounding. An empty set derives 0.
func DeriveProgress(tasks []models.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, task := range tasks {
		if task.Status == models.TaskCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(tasks)) * 100))
}

// NextStatus applies the one-directional auto transition: full completion
// closes the project; losing full completion reopens it. Any other admin-set
// status survives untouched, so nil means no change.
func NextStatus(progress int, current models.ProjectStatus) *models.ProjectStatus {
	if progress == 100 && current != models.ProjectCompleted {
		s := models.ProjectCompleted
		return &s
	}
	if progress < 100 && current == models.ProjectCompleted {
		s := models.ProjectInProgress
		return &s
	}
	return nil
}

// ProgressEngine keeps a project's derived progress and status in sync with
// its task set.
type ProgressEngine struct {
	tasks    repositories.TaskRepository
	projects repositories.ProjectRepository
}

func NewProgressEngine(tasks repositories.TaskRepository, projects repositories.ProjectRepository) *ProgressEngine {
	return &ProgressEngine{tasks: tasks, projects: projects}
}

// Recompute re-derives progress and status for the given project from a
// fresh task fetch and persists them in a single project update. A missing
// project is treated as already deleted and logged, not raised; store
// failures are logged and reported as a degraded result so the triggering
// operation still succeeds.
func (e *ProgressEngine) Recompute(ctx context.Context, projectID primitive.ObjectID) string {
	tasks, err := e.tasks.GetByProject(ctx, projectID)
	if err != nil {
		logging.Logger.Errorf("Event ID: PROGRESS_RECOMPUTE_FETCH_FAILED, Description: Failed to fetch tasks for project %s: %v", projectID.Hex(), err)
		return RecomputeDegraded
	}

	if len(tasks) == 0 {
		// Only progress resets here. Status is left alone so admin-set
		// values like Cancelled survive until tasks exist.
		err := e.projects.SetProgress(ctx, projectID, 0, nil)
		return e.finish(projectID, err)
	}

	project, err := e.projects.GetByID(ctx, projectID)
	if errors.Is(err, repositories.ErrNotFound) {
		logging.Logger.Infof("Event ID: PROGRESS_RECOMPUTE_SKIPPED, Description: Project %s no longer exists, skipping recompute", projectID.Hex())
		return RecomputeOK
	}
	if err != nil {
		logging.Logger.Errorf("Event ID: PROGRESS_RECOMPUTE_FETCH_FAILED, Description: Failed to fetch project %s: %v", projectID.Hex(), err)
		return RecomputeDegraded
	}

	progress := DeriveProgress(tasks)
	status := NextStatus(progress, project.Status)
	return e.finish(projectID, e.projects.SetProgress(ctx, projectID, progress, status))
}

func (e *ProgressEngine) finish(projectID primitive.ObjectID, err error) string {
	if errors.Is(err, repositories.ErrNotFound) {
		logging.Logger.Infof("Event ID: PROGRESS_RECOMPUTE_SKIPPED, Description: Project %s no longer exists, skipping recompute", projectID.Hex())
		return RecomputeOK
	}
	if err != nil {
		logging.Logger.Errorf("Event ID: PROGRESS_RECOMPUTE_WRITE_FAILED, Description: Failed to persist progress for project %s: %v", projectID.Hex(), err)
		return RecomputeDegraded
	}
	return RecomputeOK
}
