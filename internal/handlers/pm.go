package handlers

import (
	"net/http"
	"time"

	"github.com/chepyr/go-project-tracker/internal/service"
	"github.com/google/uuid"
)

/*
pm routes:
- GET /api/v1/pm/projects - projects owned by the calling PM
- POST /api/v1/pm/projects/{projectID}/tasks - create a task
- GET /api/v1/pm/projects/{projectID}/tasks - list project tasks
- PUT /api/v1/pm/tasks/{taskID} - edit title/dueDate/assignee
- DELETE /api/v1/pm/tasks/{taskID} - delete a non-ongoing task
- GET /api/v1/pm/mytasks - tasks assigned to the PM
- GET /api/v1/pm/users - assignable users (self + developers)
*/

func (h *Handler) MyProjects(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	projects, err := h.Service.ListOwnProjects(r.Context(), actor)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"total":    len(projects),
		"projects": projects,
	})
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	projectID, ok := h.pathUUID(w, r, "projectID", "Invalid project ID")
	if !ok {
		return
	}
	var input struct {
		Title      string `json:"title"`
		AssignedTo string `json:"assignedTo"`
		DueDate    string `json:"dueDate"`
	}
	if !h.decodeJSON(w, r, &input) {
		return
	}

	assignedTo := uuid.Nil
	if input.AssignedTo != "" {
		parsed, err := uuid.Parse(input.AssignedTo)
		if err != nil {
			h.sendFail(w, http.StatusBadRequest, "Assigned user not found")
			return
		}
		assignedTo = parsed
	}
	var dueDate time.Time
	if input.DueDate != "" {
		parsed, err := parseDueDate(input.DueDate)
		if err != nil {
			h.sendFail(w, http.StatusBadRequest, "Invalid due date")
			return
		}
		dueDate = parsed
	}

	task, err := h.Service.CreateTask(r.Context(), actor, projectID, service.CreateTaskInput{
		Title:      input.Title,
		AssignedTo: assignedTo,
		DueDate:    dueDate,
	})
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Task created",
		"task":    task,
	})
}

func (h *Handler) ListProjectTasks(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	projectID, ok := h.pathUUID(w, r, "projectID", "Invalid project ID")
	if !ok {
		return
	}
	tasks, err := h.Service.ListProjectTasks(r.Context(), actor, projectID)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   len(tasks),
		"tasks":   tasks,
	})
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	taskID, ok := h.pathUUID(w, r, "taskID", "Invalid task ID")
	if !ok {
		return
	}
	var input struct {
		Title      *string `json:"title"`
		AssignedTo *string `json:"assignedTo"`
		DueDate    *string `json:"dueDate"`
	}
	if !h.decodeJSON(w, r, &input) {
		return
	}

	update := service.UpdateTaskInput{Title: input.Title}
	if input.AssignedTo != nil {
		parsed, err := uuid.Parse(*input.AssignedTo)
		if err != nil {
			h.sendFail(w, http.StatusBadRequest, "Assigned user not found")
			return
		}
		update.AssignedTo = &parsed
	}
	if input.DueDate != nil {
		parsed, err := parseDueDate(*input.DueDate)
		if err != nil {
			h.sendFail(w, http.StatusBadRequest, "Invalid due date")
			return
		}
		update.DueDate = &parsed
	}

	task, err := h.Service.UpdateTask(r.Context(), actor, taskID, update)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Task updated",
		"task":    task,
	})
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	taskID, ok := h.pathUUID(w, r, "taskID", "Invalid task ID")
	if !ok {
		return
	}
	if err := h.Service.DeleteTask(r.Context(), actor, taskID); err != nil {
		h.sendError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Task deleted",
	})
}

func (h *Handler) PMTasks(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	tasks, err := h.Service.ListAssignedTasks(r.Context(), actor.ID)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   len(tasks),
		"tasks":   tasks,
	})
}

func (h *Handler) AssignableUsers(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	users, err := h.Service.ListAssignableUsers(r.Context(), actor.ID)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   len(users),
		"users":   users,
	})
}

// parseDueDate accepts either a full timestamp or a bare date.
func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
