package api

import (
	"net/http"

	"github.com/Shreytangani17/Task-Mangement-System/internal/api/shared"
	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	tasks service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func actorOf(p domain.PublicUser) service.Actor {
	return service.Actor{ID: p.ID, Role: p.Role}
}

// CreateTask handles POST /api/tasks. Admin only.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), actorOf(principal), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.GetTask(r.Context(), actorOf(principal), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// AssignTask handles PUT /api/tasks/{id}/assign. Admin only.
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req AssignTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.AssignTask(r.Context(), taskID, req.AssigneeID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateStatus handles PUT /api/tasks/{id}/status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.UpdateStatus(r.Context(), actorOf(principal), taskID, domain.TaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ListMine handles GET /api/tasks/mine.
func (h *TaskHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListMine(r.Context(), actorOf(principal))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	respondWithTasks(w, r, tasks)
}

// ListAll handles GET /api/tasks. Admin only.
func (h *TaskHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	respondWithTasks(w, r, tasks)
}

// DeleteTask handles DELETE /api/tasks/{id}. Admin only.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/tasks/stats. Admin only.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tasks.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskStatsToResponse(stats))
}

// EmployeeStats handles GET /api/tasks/employee-stats. Admin only.
func (h *TaskHandler) EmployeeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tasks.EmployeeStats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := make([]EmployeeStatsResponse, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, employeeStatsToResponse(s))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func respondWithTasks(w http.ResponseWriter, r *http.Request, tasks []*domain.Task) {
	resp := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, taskToResponse(t))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
