package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zabuzara/project-milestone-dashboard-backend/logging"
	"github.com/zabuzara/project-milestone-dashboard-backend/models"
	"github.com/zabuzara/project-milestone-dashboard-backend/services"
)

// Result is the body of every update, delete and error response.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response body: %v", err)
	}
}

func writeResult(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, Result{Success: true, Message: message})
}

func writeCreated(w http.ResponseWriter, resource, id string, body interface{}) {
	w.Header().Set("Location", fmt.Sprintf("/api/%s/GetById/%s", resource, id))
	writeJSON(w, http.StatusCreated, body)
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	logging.Logger.Warnf("Event ID: BAD_REQUEST, Description: %s %s rejected: %s", r.Method, r.URL.Path, message)
	writeJSON(w, http.StatusBadRequest, Result{Message: message})
}

// writeError maps a service error to its HTTP status. Errors without a known kind are
// reported as a generic internal error and logged in full.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	switch {
	case errors.Is(err, services.ErrNotFound):
		status, message = http.StatusNotFound, services.Message(err)
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrMalformedID):
		status, message = http.StatusBadRequest, services.Message(err)
	case errors.Is(err, services.ErrDuplicate):
		status, message = http.StatusConflict, services.Message(err)
	case errors.Is(err, services.ErrStoreUnavailable):
		status, message = http.StatusServiceUnavailable, services.Message(err)
	}

	if status >= http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
	} else {
		logging.Logger.Warnf("Event ID: REQUEST_REJECTED, Description: %s %s rejected with %d: %v", r.Method, r.URL.Path, status, err)
	}
	writeJSON(w, status, Result{Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, r, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

func parseDatetime(value string) (time.Time, error) {
	t, err := models.ParseDatetime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("Invalid datetime: %v", err)
	}
	return t, nil
}

func parseStatus(value string) (models.Status, error) {
	status, err := models.ParseStatus(value)
	if err != nil {
		return "", fmt.Errorf("Invalid status: %v", err)
	}
	return status, nil
}
