package handlers

import (
	"net/http"

	"github.com/chepyr/go-project-tracker/internal/service"
	"github.com/google/uuid"
)

/*
admin routes:
- POST /api/v1/admin/projects - create a project for a PM owner
- GET /api/v1/admin/projects - list all projects
- PUT /api/v1/admin/projects/{projectID} - rename a project
- DELETE /api/v1/admin/projects/{projectID} - cascade delete
- GET /api/v1/admin/users - list PM and developer accounts
*/

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		OwnerID     string `json:"ownerId"`
	}
	if !h.decodeJSON(w, r, &input) {
		return
	}

	ownerID := uuid.Nil
	if input.OwnerID != "" {
		parsed, err := uuid.Parse(input.OwnerID)
		if err != nil {
			h.sendFail(w, http.StatusBadRequest, "Invalid Project Manager ID")
			return
		}
		ownerID = parsed
	}

	project, err := h.Service.CreateProject(r.Context(), actor, service.CreateProjectInput{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     ownerID,
	})
	if err != nil {
		h.sendError(w, err)
		return
	}

	h.sendJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Project created successfully",
		"project": project,
	})
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.ListAllProjects(r.Context())
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

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	projectID, ok := h.pathUUID(w, r, "projectID", "Invalid project ID")
	if !ok {
		return
	}
	var input struct {
		Title string `json:"title"`
	}
	if !h.decodeJSON(w, r, &input) {
		return
	}

	project, err := h.Service.RenameProject(r.Context(), actor, projectID, input.Title)
	if err != nil {
		h.sendError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Project title updated successfully",
		"project": project,
	})
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	projectID, ok := h.pathUUID(w, r, "projectID", "Invalid project ID")
	if !ok {
		return
	}
	if err := h.Service.DeleteProject(r.Context(), actor, projectID); err != nil {
		h.sendError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Project and related tasks deleted successfully",
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListManagedUsers(r.Context())
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

// pathUUID parses a route wildcard as a UUID, writing the 400 itself on bad
// input.
func (h *Handler) pathUUID(w http.ResponseWriter, r *http.Request, name, badMsg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		h.sendFail(w, http.StatusBadRequest, badMsg)
		return uuid.Nil, false
	}
	return id, true
}
