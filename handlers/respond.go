package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quasydwekat2/task-management-system/logging"
	"github.com/quasydwekat2/task-management-system/models"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Message string `json:"message"`
}

// writeError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is treated as a store failure and hidden behind a generic
// message.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *models.ValidationError
		authnErr      *models.AuthenticationError
		authzErr      *models.AuthorizationError
		notFoundErr   *models.NotFoundError
		storeErr      *models.StoreError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: validationErr.Message})
	case errors.As(err, &authnErr):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: authnErr.Message})
	case errors.As(err, &authzErr):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: authzErr.Message})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: notFoundErr.Message})
	case errors.As(err, &storeErr):
		logging.Logger.Errorf("Event ID: STORE_ERROR, Description: %v", storeErr.Unwrap())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: storeErr.Message})
	default:
		logging.Logger.Errorf("Event ID: UNEXPECTED_ERROR, Description: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Server error"})
	}
}
