package handlers

import (
	"net/http"
)

/*
dev routes:
- GET /api/v1/dev/tasks - tasks assigned to the calling developer
- PUT /api/v1/dev/tasks/{taskID} - advance the task status
*/

func (h *Handler) DevTasks(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	taskID, ok := h.pathUUID(w, r, "taskID", "Invalid task ID")
	if !ok {
		return
	}
	var input struct {
		Status string `json:"status"`
	}
	if !h.decodeJSON(w, r, &input) {
		return
	}

	task, err := h.Service.AdvanceTaskStatus(r.Context(), actor, taskID, input.Status)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Task status updated",
		"task":    task,
	})
}
