package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quasydwekat2/task-management-system/middleware"
	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/services"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		RecipientID string `json:"recipientId"`
		Content     string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, models.NewValidationError("Invalid request body"))
		return
	}

	message, err := h.service.SendMessage(claims, body.RecipientID, body.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	messages, err := h.service.GetConversation(claims, mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.Caller(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.MarkRead(claims, mux.Vars(r)["userId"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}
