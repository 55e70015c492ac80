package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cloudtask/tasks-service/models"
	"cloudtask/tasks-service/services"

	"github.com/gorilla/mux"
)

// TaskHandler exposes the task lifecycle endpoints.
type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func checkRole(r *http.Request, allowedRoles []string) error {
	userRole := r.Header.Get("Role")
	if userRole == "" {
		return fmt.Errorf("role is missing in request header")
	}

	for _, role := range allowedRoles {
		if role == userRole {
			return nil
		}
	}
	return fmt.Errorf("access forbidden: user does not have the required role")
}

// callerID returns the identity of the caller, injected by the gateway.
func callerID(r *http.Request) (string, error) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		return "", fmt.Errorf("X-User-Id is missing in request header")
	}
	return userID, nil
}

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var notAMember *services.NotAMemberError
	switch {
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, services.ErrProjectNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &notAMember):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	var request struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ProjectID   string `json:"projectId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if request.Title == "" || request.ProjectID == "" {
		http.Error(w, "title and projectId are required", http.StatusBadRequest)
		return
	}

	createdTask, err := h.service.CreateTask(r.Context(), request.Title, request.Description, request.ProjectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdTask)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	task, err := h.service.GetTaskByID(r.Context(), vars["taskID"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) GetTasksByProjectID(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	projectID := vars["projectID"]
	if projectID == "" {
		http.Error(w, "Missing project ID", http.StatusBadRequest)
		return
	}

	tasks, err := h.service.GetProjectTasks(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)

	var request struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if request.Status == "" {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	updatedTask, err := h.service.UpdateTaskStatus(r.Context(), vars["taskID"], request.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updatedTask)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	if err := h.service.DeleteTask(r.Context(), vars["taskID"]); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
