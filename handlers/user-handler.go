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

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, models.NewValidationError("Invalid request body"))
		return
	}

	user, err := h.service.Register(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.NewValidationError("Invalid request body"))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:    token,
		ID:       user.ID.Hex(),
		Username: user.Username,
		Role:     string(user.Role),
	})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeError(w, models.NewAuthenticationError("Invalid caller identity"))
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := middleware.RequireAdmin(claims); err != nil {
		writeError(w, err)
		return
	}

	students, err := h.service.GetStudents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *UserHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.Caller(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	admin, err := h.service.GetAdmin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admin)
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.Caller(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, models.NewValidationError("Invalid user ID"))
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
