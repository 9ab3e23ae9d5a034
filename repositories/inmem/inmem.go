// Package inmem provides map-backed implementations of the repository
// interfaces. They back the test suites and local development without a
// running Mongo or Cassandra instance.
package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/repositories"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func (r *UserRepository) Insert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) GetByRole(_ context.Context, role models.Role) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []models.User
	for _, user := range r.users {
		if user.Role == role {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *UserRepository) GetOneByRole(ctx context.Context, role models.Role) (*models.User, error) {
	users, _ := r.GetByRole(ctx, role)
	if len(users) == 0 {
		return nil, repositories.ErrNotFound
	}
	return &users[0], nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	users, _ := r.GetByRole(ctx, role)
	return int64(len(users)), nil
}

type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[primitive.ObjectID]models.Project
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{projects: make(map[primitive.ObjectID]models.Project)}
}

func (r *ProjectRepository) Insert(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *ProjectRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &project, nil
}

func (r *ProjectRepository) GetAll(_ context.Context) ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	projects := make([]models.Project, 0, len(r.projects))
	for _, project := range r.projects {
		projects = append(projects, project)
	}
	return projects, nil
}

func (r *ProjectRepository) GetByStudent(_ context.Context, studentID primitive.ObjectID) ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var projects []models.Project
	for _, project := range r.projects {
		for _, s := range project.Students {
			if s == studentID {
				projects = append(projects, project)
				break
			}
		}
	}
	return projects, nil
}

func (r *ProjectRepository) Update(_ context.Context, id primitive.ObjectID, upd models.ProjectUpdate) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if upd.Title != nil {
		project.Title = *upd.Title
	}
	if upd.Description != nil {
		project.Description = *upd.Description
	}
	if upd.Students != nil {
		project.Students = *upd.Students
	}
	if upd.Category != nil {
		project.Category = *upd.Category
	}
	if upd.StartDate != nil {
		project.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		project.EndDate = *upd.EndDate
	}
	if upd.Status != nil {
		project.Status = *upd.Status
	}
	if upd.Progress != nil {
		project.Progress = *upd.Progress
	}
	r.projects[id] = project
	return &project, nil
}

func (r *ProjectRepository) SetProgress(_ context.Context, id primitive.ObjectID, progress int, status *models.ProjectStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok {
		return repositories.ErrNotFound
	}
	project.Progress = progress
	if status != nil {
		project.Status = *status
	}
	r.projects[id] = project
	return nil
}

func (r *ProjectRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *ProjectRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.projects)), nil
}

func (r *ProjectRepository) CountByStatus(_ context.Context, status models.ProjectStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, project := range r.projects {
		if project.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *ProjectRepository) CountByStudentAndStatus(ctx context.Context, studentID primitive.ObjectID, status models.ProjectStatus) (int64, error) {
	projects, _ := r.GetByStudent(ctx, studentID)
	var n int64
	for _, project := range projects {
		if project.Status == status {
			n++
		}
	}
	return n, nil
}

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[primitive.ObjectID]models.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[primitive.ObjectID]models.Task)}
}

func (r *TaskRepository) Insert(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *TaskRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &task, nil
}

func (r *TaskRepository) GetAll(_ context.Context) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tasks := make([]models.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *TaskRepository) GetByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tasks []models.Task
	for _, task := range r.tasks {
		if task.ProjectID == projectID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *TaskRepository) GetByAssignee(_ context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tasks []models.Task
	for _, task := range r.tasks {
		if task.AssignedTo == userID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *TaskRepository) Update(_ context.Context, id primitive.ObjectID, upd models.TaskUpdate) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if upd.Name != nil {
		task.Name = *upd.Name
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.ProjectID != nil {
		task.ProjectID = *upd.ProjectID
	}
	if upd.AssignedTo != nil {
		task.AssignedTo = *upd.AssignedTo
	}
	if upd.Status != nil {
		task.Status = *upd.Status
	}
	if upd.DueDate != nil {
		task.DueDate = *upd.DueDate
	}
	r.tasks[id] = task
	return &task, nil
}

func (r *TaskRepository) SetStatus(_ context.Context, id primitive.ObjectID, status models.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return repositories.ErrNotFound
	}
	task.Status = status
	r.tasks[id] = task
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepository) DeleteByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, task := range r.tasks {
		if task.ProjectID == projectID {
			delete(r.tasks, id)
			n++
		}
	}
	return n, nil
}

func (r *TaskRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.tasks)), nil
}

func (r *TaskRepository) CountByAssignee(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	tasks, _ := r.GetByAssignee(ctx, userID)
	return int64(len(tasks)), nil
}

func (r *TaskRepository) CountByAssigneeAndStatus(ctx context.Context, userID primitive.ObjectID, status models.TaskStatus) (int64, error) {
	tasks, _ := r.GetByAssignee(ctx, userID)
	var n int64
	for _, task := range tasks {
		if task.Status == status {
			n++
		}
	}
	return n, nil
}

type MessageRepository struct {
	mu       sync.RWMutex
	messages []models.Message
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) Insert(message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	r.messages = append(r.messages, *message)
	return nil
}

func (r *MessageRepository) GetConversation(userA, userB string) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var messages []models.Message
	for _, m := range r.messages {
		if (m.Sender == userA && m.Recipient == userB) || (m.Sender == userB && m.Recipient == userA) {
			messages = append(messages, m)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].Timestamp.Before(messages[j].Timestamp) })
	return messages, nil
}

func (r *MessageRepository) MarkRead(sender, recipient string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.Sender == sender && m.Recipient == recipient && !m.Read {
			r.messages[i].Read = true
		}
	}
	return nil
}
