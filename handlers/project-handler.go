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

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := middleware.RequireAdmin(claims); err != nil {
		writeError(w, err)
		return
	}

	var input services.ProjectCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, models.NewValidationError("Invalid request body"))
		return
	}

	project, err := h.service.CreateProject(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := middleware.RequireAdmin(claims); err != nil {
		writeError(w, err)
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, models.NewValidationError("Invalid project ID"))
		return
	}

	var upd models.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, models.NewValidationError("Invalid request body"))
		return
	}

	project, err := h.service.UpdateProject(r.Context(), projectID, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) PatchProgress(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := middleware.RequireAdmin(claims); err != nil {
		writeError(w, err)
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, models.NewValidationError("Invalid project ID"))
		return
	}

	var body struct {
		Progress *int `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Progress == nil {
		writeError(w, models.NewValidationError("Progress is required"))
		return
	}

	project, err := h.service.PatchProgress(r.Context(), projectID, *body.Progress)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := middleware.RequireAdmin(claims); err != nil {
		writeError(w, err)
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, models.NewValidationError("Invalid project ID"))
		return
	}

	if err := h.service.DeleteProject(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project and related tasks deleted successfully"})
}

func (h *ProjectHandler) GetAllProjects(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	projects, err := h.service.GetProjectsFor(r.Context(), claims)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProjectsByStudent(w http.ResponseWriter, r *http.Request) {
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

	projects, err := h.service.GetProjectsByStudent(r.Context(), claims, studentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, models.NewValidationError("Invalid project ID"))
		return
	}

	project, err := h.service.GetProjectByID(r.Context(), claims, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}
