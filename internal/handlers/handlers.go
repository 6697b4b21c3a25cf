package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/chepyr/go-project-tracker/internal/apperrors"
	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/chepyr/go-project-tracker/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	Service       *service.Service
	RateLimiter   *RateLimiter
	Log           *zap.Logger
	JWTSecret     []byte
	SecureCookies bool
}

func New(svc *service.Service, log *zap.Logger, jwtSecret []byte, secureCookies bool) *Handler {
	return &Handler{
		Service: svc,
		// allow max 5 login attempts per 15 minutes from the same IP
		RateLimiter:   NewRateLimiter(5, 15*time.Minute),
		Log:           log,
		JWTSecret:     jwtSecret,
		SecureCookies: secureCookies,
	}
}

// Routes registers the full API surface on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", h.AuthMiddleware(h.Logout))
	mux.HandleFunc("GET /api/v1/auth/check", h.AuthMiddleware(h.CheckAuth))
	mux.HandleFunc("POST /api/v1/auth/register",
		h.AuthMiddleware(h.RequireRole(h.Register, models.RoleAdmin, models.RolePM)))

	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return h.AuthMiddleware(h.RequireRole(next, models.RoleAdmin))
	}
	mux.HandleFunc("POST /api/v1/admin/projects", admin(h.CreateProject))
	mux.HandleFunc("GET /api/v1/admin/projects", admin(h.ListProjects))
	mux.HandleFunc("PUT /api/v1/admin/projects/{projectID}", admin(h.UpdateProject))
	mux.HandleFunc("DELETE /api/v1/admin/projects/{projectID}", admin(h.DeleteProject))
	mux.HandleFunc("GET /api/v1/admin/users", admin(h.ListUsers))

	pm := func(next http.HandlerFunc) http.HandlerFunc {
		return h.AuthMiddleware(h.RequireRole(next, models.RolePM))
	}
	mux.HandleFunc("GET /api/v1/pm/projects", pm(h.MyProjects))
	mux.HandleFunc("GET /api/v1/pm/mytasks", pm(h.PMTasks))
	mux.HandleFunc("POST /api/v1/pm/projects/{projectID}/tasks", pm(h.CreateTask))
	mux.HandleFunc("GET /api/v1/pm/projects/{projectID}/tasks", pm(h.ListProjectTasks))
	mux.HandleFunc("PUT /api/v1/pm/tasks/{taskID}", pm(h.UpdateTask))
	mux.HandleFunc("DELETE /api/v1/pm/tasks/{taskID}", pm(h.DeleteTask))
	mux.HandleFunc("GET /api/v1/pm/users", pm(h.AssignableUsers))

	dev := func(next http.HandlerFunc) http.HandlerFunc {
		return h.AuthMiddleware(h.RequireRole(next, models.RoleDeveloper))
	}
	mux.HandleFunc("GET /api/v1/dev/tasks", dev(h.DevTasks))
	mux.HandleFunc("PUT /api/v1/dev/tasks/{taskID}", dev(h.UpdateTaskStatus))

	mux.HandleFunc("GET /{$}", h.Health)
	return mux
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, map[string]any{"message": "API running"})
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Log.Error("encode response", zap.Error(err))
	}
}

// sendError converts a service error to the {success, message} envelope.
// Infrastructure detail is logged, never returned.
func (h *Handler) sendError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.Log.Error("request failed", zap.Error(err))
	}
	h.sendFail(w, status, apperrors.Message(err))
}

func (h *Handler) sendFail(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, map[string]any{"success": false, "message": message})
}

// decodeJSON enforces the content type and a 1MB body cap before decoding
// into dst. It writes the failure response itself and reports success.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !isJSONContentType(r) {
		h.sendFail(w, http.StatusBadRequest, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.sendFail(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

func isJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(strings.ToLower(ct), "application/json")
}
