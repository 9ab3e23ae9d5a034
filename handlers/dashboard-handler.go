package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quasydwekat2/task-management-system/middleware"
	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/services"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := h.service.GetAdminStats(r.Context(), claims)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) GetStudentStats(w http.ResponseWriter, r *http.Request) {
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

	stats, err := h.service.GetStudentStats(r.Context(), claims, studentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
