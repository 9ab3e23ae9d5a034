package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quasydwekat2/task-management-system/middleware"
	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// taskResponse carries the populated task together with the outcome of the
// progress recompute triggered by the mutation.
type taskResponse struct {
	*models.TaskView
	Recompute string `json:"recompute"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := middleware.RequireAdmin(claims); err != nil {
		writeError(w, err)
		return
	}

	var input services.TaskCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, models.NewValidationError("Invalid request body"))
		return
	}

	view, recompute, err := h.service.CreateTask(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, taskResponse{TaskView: view, Recompute: recompute})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := middleware.RequireAdmin(claims); err != nil {
		writeError(w, err)
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, models.NewValidationError("Invalid task ID"))
		return
	}

	var upd models.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, models.NewValidationError("Invalid request body"))
		return
	}

	view, recompute, err := h.service.UpdateTask(r.Context(), taskID, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{TaskView: view, Recompute: recompute})
}

func (h *TaskHandler) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, models.NewValidationError("Invalid task ID"))
		return
	}

	var body struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, models.NewValidationError("Invalid request body"))
		return
	}

	view, recompute, err := h.service.ChangeTaskStatus(r.Context(), claims, taskID, body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{TaskView: view, Recompute: recompute})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := middleware.RequireAdmin(claims); err != nil {
		writeError(w, err)
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, models.NewValidationError("Invalid task ID"))
		return
	}

	recompute, err := h.service.DeleteTask(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Task deleted successfully",
		"recompute": recompute,
	})
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	tasks, err := h.service.GetTasksFor(r.Context(), claims)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTasksByProject(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, models.NewValidationError("Invalid project ID"))
		return
	}

	tasks, err := h.service.GetTasksByProject(r.Context(), claims, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTasksByStudent(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	studentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["studentId"])
	if err != nil {
		writeError(w, models.NewValidationError("Invalid student ID"))
		return
	}

	tasks, err := h.service.GetTasksByStudent(r.Context(), claims, studentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, models.NewValidationError("Invalid task ID"))
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), claims, taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
