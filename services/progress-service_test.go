package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/repositories/inmem"
)

func tasksWithStatuses(statuses ...models.TaskStatus) []models.Task {
	tasks := make([]models.Task, 0, len(statuses))
	for _, s := range statuses {
		tasks = append(tasks, models.Task{ID: primitive.NewObjectID(), Status: s})
	}
	return tasks
}

func TestDeriveProgress(t *testing.T) {
	tests := []struct {
		name  string
		tasks []models.Task
		want  int
	}{
		{name: "empty set", tasks: nil, want: 0},
		{name: "none completed", tasks: tasksWithStatuses(models.TaskPending, models.TaskInProgress), want: 0},
		{name: "two thirds", tasks: tasksWithStatuses(models.TaskCompleted, models.TaskCompleted, models.TaskPending), want: 67},
		{name: "one third", tasks: tasksWithStatuses(models.TaskCompleted, models.TaskPending, models.TaskPending), want: 33},
		{name: "one sixth", tasks: tasksWithStatuses(models.TaskCompleted, models.TaskPending, models.TaskPending, models.TaskPending, models.TaskPending, models.TaskPending), want: 17},
		{name: "half rounds up", tasks: tasksWithStatuses(models.TaskCompleted, models.TaskPending, models.TaskPending, models.TaskPending, models.TaskPending, models.TaskPending, models.TaskPending, models.TaskPending), want: 13},
		{name: "all completed", tasks: tasksWithStatuses(models.TaskCompleted, models.TaskCompleted), want: 100},
		{name: "cancelled does not count", tasks: tasksWithStatuses(models.TaskCancelled, models.TaskCompleted), want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveProgress(tt.tasks); got != tt.want {
				t.Errorf("DeriveProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name     string
		progress int
		current  models.ProjectStatus
		want     *models.ProjectStatus
	}{
		{name: "full completion closes", progress: 100, current: models.ProjectInProgress, want: statusPtr(models.ProjectCompleted)},
		{name: "full completion from on hold closes", progress: 100, current: models.ProjectOnHold, want: statusPtr(models.ProjectCompleted)},
		{name: "already completed unchanged", progress: 100, current: models.ProjectCompleted, want: nil},
		{name: "reopening", progress: 67, current: models.ProjectCompleted, want: statusPtr(models.ProjectInProgress)},
		{name: "partial leaves on hold", progress: 50, current: models.ProjectOnHold, want: nil},
		{name: "partial leaves cancelled", progress: 50, current: models.ProjectCancelled, want: nil},
		{name: "partial leaves pending", progress: 10, current: models.ProjectPending, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStatus(tt.progress, tt.current)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("NextStatus() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("NextStatus() = %s, want %s", *got, *tt.want)
			}
		})
	}
}

func statusPtr(s models.ProjectStatus) *models.ProjectStatus { return &s }

func newEngineFixture() (*ProgressEngine, *inmem.TaskRepository, *inmem.ProjectRepository) {
	tasks := inmem.NewTaskRepository()
	projects := inmem.NewProjectRepository()
	return NewProgressEngine(tasks, projects), tasks, projects
}

func seedProject(t *testing.T, projects *inmem.ProjectRepository, status models.ProjectStatus, progress int) *models.Project {
	t.Helper()
	project := &models.Project{
		Title:    "Compilers",
		Status:   status,
		Progress: progress,
	}
	if err := projects.Insert(context.Background(), project); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func seedTask(t *testing.T, tasks *inmem.TaskRepository, projectID primitive.ObjectID, status models.TaskStatus) *models.Task {
	t.Helper()
	task := &models.Task{Name: "lexer", ProjectID: projectID, Status: status}
	if err := tasks.Insert(context.Background(), task); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func TestRecomputeMonotonicCompletion(t *testing.T) {
	engine, tasks, projects := newEngineFixture()
	ctx := context.Background()
	project := seedProject(t, projects, models.ProjectInProgress, 50)
	seedTask(t, tasks, project.ID, models.TaskCompleted)
	last := seedTask(t, tasks, project.ID, models.TaskInProgress)

	if err := tasks.SetStatus(ctx, last.ID, models.TaskCompleted); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if got := engine.Recompute(ctx, project.ID); got != RecomputeOK {
		t.Fatalf("Recompute() = %s, want %s", got, RecomputeOK)
	}

	updated, _ := projects.GetByID(ctx, project.ID)
	if updated.Progress != 100 {
		t.Errorf("progress = %d, want 100", updated.Progress)
	}
	if updated.Status != models.ProjectCompleted {
		t.Errorf("status = %s, want %s", updated.Status, models.ProjectCompleted)
	}
}

func TestRecomputeReopening(t *testing.T) {
	engine, tasks, projects := newEngineFixture()
	ctx := context.Background()
	project := seedProject(t, projects, models.ProjectCompleted, 100)
	seedTask(t, tasks, project.ID, models.TaskCompleted)
	seedTask(t, tasks, project.ID, models.TaskPending)

	engine.Recompute(ctx, project.ID)

	updated, _ := projects.GetByID(ctx, project.ID)
	if updated.Progress != 50 {
		t.Errorf("progress = %d, want 50", updated.Progress)
	}
	if updated.Status != models.ProjectInProgress {
		t.Errorf("status = %s, want %s", updated.Status, models.ProjectInProgress)
	}
}

func TestRecomputeEmptySetResetsProgressOnly(t *testing.T) {
	engine, _, projects := newEngineFixture()
	ctx := context.Background()
	project := seedProject(t, projects, models.ProjectCancelled, 80)

	if got := engine.Recompute(ctx, project.ID); got != RecomputeOK {
		t.Fatalf("Recompute() = %s, want %s", got, RecomputeOK)
	}

	updated, _ := projects.GetByID(ctx, project.ID)
	if updated.Progress != 0 {
		t.Errorf("progress = %d, want 0", updated.Progress)
	}
	if updated.Status != models.ProjectCancelled {
		t.Errorf("status = %s, want %s (untouched)", updated.Status, models.ProjectCancelled)
	}
}

func TestRecomputeLeavesAdminStatusBelowFull(t *testing.T) {
	engine, tasks, projects := newEngineFixture()
	ctx := context.Background()
	project := seedProject(t, projects, models.ProjectOnHold, 0)
	seedTask(t, tasks, project.ID, models.TaskCompleted)
	seedTask(t, tasks, project.ID, models.TaskCompleted)
	seedTask(t, tasks, project.ID, models.TaskPending)

	engine.Recompute(ctx, project.ID)

	updated, _ := projects.GetByID(ctx, project.ID)
	if updated.Progress != 67 {
		t.Errorf("progress = %d, want 67", updated.Progress)
	}
	if updated.Status != models.ProjectOnHold {
		t.Errorf("status = %s, want %s (untouched)", updated.Status, models.ProjectOnHold)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	engine, tasks, projects := newEngineFixture()
	ctx := context.Background()
	project := seedProject(t, projects, models.ProjectInProgress, 0)
	seedTask(t, tasks, project.ID, models.TaskCompleted)
	seedTask(t, tasks, project.ID, models.TaskPending)

	engine.Recompute(ctx, project.ID)
	first, _ := projects.GetByID(ctx, project.ID)

	if got := engine.Recompute(ctx, project.ID); got != RecomputeOK {
		t.Fatalf("second Recompute() = %s, want %s", got, RecomputeOK)
	}
	second, _ := projects.GetByID(ctx, project.ID)

	if first.Progress != second.Progress || first.Status != second.Status {
		t.Errorf("recompute not idempotent: first %d/%s, second %d/%s",
			first.Progress, first.Status, second.Progress, second.Status)
	}
}

func TestRecomputeMissingProjectIsNoOp(t *testing.T) {
	engine, _, _ := newEngineFixture()

	if got := engine.Recompute(context.Background(), primitive.NewObjectID()); got != RecomputeOK {
		t.Errorf("Recompute() on missing project = %s, want %s", got, RecomputeOK)
	}
}
