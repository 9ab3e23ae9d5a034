package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/repositories/inmem"
	"github.com/quasydwekat2/task-management-system/utils"
)

type taskFixture struct {
	service  *TaskService
	tasks    *inmem.TaskRepository
	projects *inmem.ProjectRepository
	users    *inmem.UserRepository
}

func newTaskFixture() *taskFixture {
	tasks := inmem.NewTaskRepository()
	projects := inmem.NewProjectRepository()
	users := inmem.NewUserRepository()
	engine := NewProgressEngine(tasks, projects)
	return &taskFixture{
		service:  NewTaskService(tasks, projects, users, engine),
		tasks:    tasks,
		projects: projects,
		users:    users,
	}
}

func (f *taskFixture) seedStudent(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Role: models.RoleStudent}
	if err := f.users.Insert(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (f *taskFixture) seedProject(t *testing.T, status models.ProjectStatus, progress int) *models.Project {
	t.Helper()
	project := &models.Project{
		Title:    "Databases",
		Status:   status,
		Progress: progress,
		EndDate:  time.Now().Add(30 * 24 * time.Hour),
	}
	if err := f.projects.Insert(context.Background(), project); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func (f *taskFixture) seedTask(t *testing.T, projectID, assignee primitive.ObjectID, status models.TaskStatus) *models.Task {
	t.Helper()
	task := &models.Task{
		Name:       "schema design",
		ProjectID:  projectID,
		AssignedTo: assignee,
		Status:     status,
		DueDate:    time.Now().Add(7 * 24 * time.Hour),
	}
	if err := f.tasks.Insert(context.Background(), task); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func adminClaims() *utils.Claims {
	return &utils.Claims{UserID: primitive.NewObjectID().Hex(), Username: "boss", Role: string(models.RoleAdmin)}
}

func studentClaims(user *models.User) *utils.Claims {
	return &utils.Claims{UserID: user.ID.Hex(), Username: user.Username, Role: string(models.RoleStudent)}
}

func TestCreateTaskValidation(t *testing.T) {
	f := newTaskFixture()
	ctx := context.Background()
	project := f.seedProject(t, models.ProjectInProgress, 0)
	student := f.seedStudent(t, "mia")

	valid := TaskCreateInput{
		Name:        "schema design",
		Description: "draw the ER diagram",
		ProjectID:   project.ID,
		AssignedTo:  student.ID,
		Status:      models.TaskPending,
		DueDate:     time.Now().Add(24 * time.Hour),
	}

	tests := []struct {
		name   string
		mutate func(*TaskCreateInput)
	}{
		{name: "missing name", mutate: func(in *TaskCreateInput) { in.Name = "" }},
		{name: "missing description", mutate: func(in *TaskCreateInput) { in.Description = "" }},
		{name: "missing project", mutate: func(in *TaskCreateInput) { in.ProjectID = primitive.ObjectID{} }},
		{name: "missing assignee", mutate: func(in *TaskCreateInput) { in.AssignedTo = primitive.ObjectID{} }},
		{name: "missing status", mutate: func(in *TaskCreateInput) { in.Status = "" }},
		{name: "missing due date", mutate: func(in *TaskCreateInput) { in.DueDate = time.Time{} }},
		{name: "unknown status", mutate: func(in *TaskCreateInput) { in.Status = "Done" }},
		{name: "due date after project end", mutate: func(in *TaskCreateInput) { in.DueDate = project.EndDate.Add(time.Hour) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			_, _, err := f.service.CreateTask(ctx, input)
			var validationErr *models.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("CreateTask() error = %v, want ValidationError", err)
			}
		})
	}

	view, recompute, err := f.service.CreateTask(ctx, valid)
	if err != nil {
		t.Fatalf("CreateTask() valid input error = %v", err)
	}
	if recompute != RecomputeOK {
		t.Errorf("recompute = %s, want %s", recompute, RecomputeOK)
	}
	if view.AssignedToUsername != "mia" || view.ProjectTitle != "Databases" {
		t.Errorf("populated view = %q/%q, want mia/Databases", view.AssignedToUsername, view.ProjectTitle)
	}
}

func TestCreateTaskMissingProject(t *testing.T) {
	f := newTaskFixture()
	student := f.seedStudent(t, "mia")

	_, _, err := f.service.CreateTask(context.Background(), TaskCreateInput{
		Name:        "orphan",
		Description: "no project",
		ProjectID:   primitive.NewObjectID(),
		AssignedTo:  student.ID,
		Status:      models.TaskPending,
		DueDate:     time.Now().Add(time.Hour),
	})
	var notFoundErr *models.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("CreateTask() error = %v, want NotFoundError", err)
	}
}

func TestChangeTaskStatusAuthorization(t *testing.T) {
	f := newTaskFixture()
	ctx := context.Background()
	project := f.seedProject(t, models.ProjectInProgress, 0)
	owner := f.seedStudent(t, "mia")
	other := f.seedStudent(t, "leo")
	task := f.seedTask(t, project.ID, owner.ID, models.TaskPending)

	_, _, err := f.service.ChangeTaskStatus(ctx, studentClaims(other), task.ID, models.TaskCompleted)
	var authzErr *models.AuthorizationError
	if !errors.As(err, &authzErr) {
		t.Fatalf("ChangeTaskStatus() by non-assignee error = %v, want AuthorizationError", err)
	}

	unchanged, _ := f.tasks.GetByID(ctx, task.ID)
	if unchanged.Status != models.TaskPending {
		t.Errorf("task status = %s, want unchanged %s", unchanged.Status, models.TaskPending)
	}

	if _, _, err := f.service.ChangeTaskStatus(ctx, studentClaims(owner), task.ID, models.TaskInProgress); err != nil {
		t.Errorf("ChangeTaskStatus() by assignee error = %v", err)
	}
	if _, _, err := f.service.ChangeTaskStatus(ctx, adminClaims(), task.ID, models.TaskOnHold); err != nil {
		t.Errorf("ChangeTaskStatus() by admin error = %v", err)
	}
}

func TestChangeTaskStatusCompletesProject(t *testing.T) {
	f := newTaskFixture()
	ctx := context.Background()
	project := f.seedProject(t, models.ProjectInProgress, 50)
	student := f.seedStudent(t, "mia")
	f.seedTask(t, project.ID, student.ID, models.TaskCompleted)
	last := f.seedTask(t, project.ID, student.ID, models.TaskInProgress)

	view, recompute, err := f.service.ChangeTaskStatus(ctx, studentClaims(student), last.ID, models.TaskCompleted)
	if err != nil {
		t.Fatalf("ChangeTaskStatus() error = %v", err)
	}
	if view.Status != models.TaskCompleted {
		t.Errorf("task status = %s, want %s", view.Status, models.TaskCompleted)
	}
	if recompute != RecomputeOK {
		t.Errorf("recompute = %s, want %s", recompute, RecomputeOK)
	}

	updated, _ := f.projects.GetByID(ctx, project.ID)
	if updated.Progress != 100 || updated.Status != models.ProjectCompleted {
		t.Errorf("project = %d/%s, want 100/%s", updated.Progress, updated.Status, models.ProjectCompleted)
	}
}

func TestDeleteSoleTaskResetsProgressOnly(t *testing.T) {
	f := newTaskFixture()
	ctx := context.Background()
	project := f.seedProject(t, models.ProjectInProgress, 100)
	student := f.seedStudent(t, "mia")
	task := f.seedTask(t, project.ID, student.ID, models.TaskCompleted)

	recompute, err := f.service.DeleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if recompute != RecomputeOK {
		t.Errorf("recompute = %s, want %s", recompute, RecomputeOK)
	}

	updated, _ := f.projects.GetByID(ctx, project.ID)
	if updated.Progress != 0 {
		t.Errorf("progress = %d, want 0", updated.Progress)
	}
	if updated.Status != models.ProjectInProgress {
		t.Errorf("status = %s, want unchanged %s", updated.Status, models.ProjectInProgress)
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	f := newTaskFixture()

	_, err := f.service.DeleteTask(context.Background(), primitive.NewObjectID())
	var notFoundErr *models.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("DeleteTask() error = %v, want NotFoundError", err)
	}
}

func TestUpdateTaskReassignmentRecomputesBothProjects(t *testing.T) {
	f := newTaskFixture()
	ctx := context.Background()
	student := f.seedStudent(t, "mia")

	source := f.seedProject(t, models.ProjectInProgress, 0)
	target := f.seedProject(t, models.ProjectInProgress, 0)
	f.seedTask(t, source.ID, student.ID, models.TaskCompleted)
	moving := f.seedTask(t, source.ID, student.ID, models.TaskPending)
	f.seedTask(t, target.ID, student.ID, models.TaskCompleted)

	_, recompute, err := f.service.UpdateTask(ctx, moving.ID, models.TaskUpdate{ProjectID: &target.ID})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if recompute != RecomputeOK {
		t.Errorf("recompute = %s, want %s", recompute, RecomputeOK)
	}

	// Source lost its pending task: 1/1 completed.
	updatedSource, _ := f.projects.GetByID(ctx, source.ID)
	if updatedSource.Progress != 100 || updatedSource.Status != models.ProjectCompleted {
		t.Errorf("source project = %d/%s, want 100/%s", updatedSource.Progress, updatedSource.Status, models.ProjectCompleted)
	}

	// Target gained a pending task: 1/2 completed.
	updatedTarget, _ := f.projects.GetByID(ctx, target.ID)
	if updatedTarget.Progress != 50 {
		t.Errorf("target progress = %d, want 50", updatedTarget.Progress)
	}
}

func TestGetTasksScopedByRole(t *testing.T) {
	f := newTaskFixture()
	ctx := context.Background()
	project := f.seedProject(t, models.ProjectInProgress, 0)
	mia := f.seedStudent(t, "mia")
	leo := f.seedStudent(t, "leo")
	f.seedTask(t, project.ID, mia.ID, models.TaskPending)
	f.seedTask(t, project.ID, leo.ID, models.TaskPending)

	all, err := f.service.GetTasksFor(ctx, adminClaims())
	if err != nil {
		t.Fatalf("GetTasksFor(admin) error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin sees %d tasks, want 2", len(all))
	}

	own, err := f.service.GetTasksFor(ctx, studentClaims(mia))
	if err != nil {
		t.Fatalf("GetTasksFor(student) error = %v", err)
	}
	if len(own) != 1 || own[0].AssignedTo != mia.ID {
		t.Errorf("student sees %d tasks, want exactly their own", len(own))
	}

	_, err = f.service.GetTasksByStudent(ctx, studentClaims(leo), mia.ID)
	var authzErr *models.AuthorizationError
	if !errors.As(err, &authzErr) {
		t.Errorf("GetTasksByStudent() for another student error = %v, want AuthorizationError", err)
	}
}
