package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cloudtask/tasks-service/models"
	"cloudtask/tasks-service/services"

	"github.com/gorilla/mux"
)

// AssignmentHandler exposes the assignment and bulk endpoints.
type AssignmentHandler struct {
	assignments *services.AssignmentService
	bulk        *services.BulkService
}

func NewAssignmentHandler(assignments *services.AssignmentService, bulk *services.BulkService) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		bulk:        bulk,
	}
}

func (h *AssignmentHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	assignedBy, err := callerID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)

	var request models.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.assignments.AssignTask(r.Context(), vars["taskID"], request, assignedBy)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *AssignmentHandler) UnassignTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	task, err := h.assignments.UnassignTask(r.Context(), vars["taskID"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *AssignmentHandler) ReassignTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	reassignedBy, err := callerID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)

	var request models.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.assignments.ReassignTask(r.Context(), vars["taskID"], request, reassignedBy)
	if err != nil {
		// The unassign half has already committed at this point; the
		// task is unassigned, not restored to its previous assignee.
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *AssignmentHandler) AssignMultipleUsers(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	assignedBy, err := callerID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)

	var requests []models.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&requests); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.assignments.AssignMultipleUsers(r.Context(), vars["taskID"], requests, assignedBy)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *AssignmentHandler) BulkAssign(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	assignedBy, err := callerID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var request struct {
		TaskIDs  []string                 `json:"taskIds"`
		Assignee models.AssignTaskRequest `json:"assignee"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(request.TaskIDs) == 0 {
		http.Error(w, "taskIds is required", http.StatusBadRequest)
		return
	}

	result := h.bulk.BulkAssign(r.Context(), request.TaskIDs, request.Assignee, assignedBy)
	writeJSON(w, http.StatusOK, result)
}

func (h *AssignmentHandler) BulkUnassign(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	var request struct {
		TaskIDs []string `json:"taskIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(request.TaskIDs) == 0 {
		http.Error(w, "taskIds is required", http.StatusBadRequest)
		return
	}

	result := h.bulk.BulkUnassign(r.Context(), request.TaskIDs)
	writeJSON(w, http.StatusOK, result)
}

func (h *AssignmentHandler) GetTasksByAssignee(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	tasks, err := h.assignments.GetTasksByAssignee(r.Context(), vars["userID"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *AssignmentHandler) GetTasksByAssigneeAndStatus(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	tasks, err := h.assignments.GetTasksByAssigneeAndStatus(r.Context(), vars["userID"], models.TaskStatus(vars["status"]))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *AssignmentHandler) GetTasksByProjectAndAssignee(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	tasks, err := h.assignments.GetTasksByProjectAndAssignee(r.Context(), vars["projectID"], vars["userID"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// GetUnassignedTasks lists a project's unassigned tasks; an optional status
// query parameter narrows the result to one status.
func (h *AssignmentHandler) GetUnassignedTasks(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	status := models.TaskStatus(r.URL.Query().Get("status"))

	tasks, err := h.assignments.GetUnassignedTasks(r.Context(), vars["projectID"], status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *AssignmentHandler) GetAssignedTasks(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	tasks, err := h.assignments.GetAssignedTasks(r.Context(), vars["projectID"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// GetAssignedTaskCount returns how many tasks the user holds in the project,
// optionally narrowed to one status via the status query parameter.
func (h *AssignmentHandler) GetAssignedTaskCount(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	status := models.TaskStatus(r.URL.Query().Get("status"))

	var count int64
	var err error
	if status != "" {
		count, err = h.assignments.GetAssignedTaskCountByProjectAndStatus(r.Context(), vars["projectID"], vars["userID"], status)
	} else {
		count, err = h.assignments.GetAssignedTaskCount(r.Context(), vars["projectID"], vars["userID"])
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *AssignmentHandler) GetAssignedTaskCountByStatus(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	count, err := h.assignments.GetAssignedTaskCountByStatus(r.Context(), vars["userID"], models.TaskStatus(vars["status"]))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *AssignmentHandler) HasAssignedTasks(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	has, err := h.assignments.HasAssignedTasks(r.Context(), vars["projectID"], vars["userID"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"hasAssignedTasks": ` + strconv.FormatBool(has) + `}`))
}

func (h *AssignmentHandler) GetTasksAssignedBy(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	tasks, err := h.assignments.GetTasksAssignedBy(r.Context(), vars["userID"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}
