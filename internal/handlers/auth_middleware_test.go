package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBareHandler() *Handler {
	return &Handler{
		Log:       zap.NewNop(),
		JWTSecret: []byte("0123456789abcdef0123456789abcdef"),
	}
}

func signToken(t *testing.T, h *Handler, subject, role string, expiresIn time.Duration) string {
	t.Helper()

	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTSecret)
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	h := newBareHandler()
	userID := uuid.New()

	protected := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, userID, actor.ID)
		assert.Equal(t, models.RolePM, actor.Role)
		w.WriteHeader(http.StatusOK)
	})

	valid := signToken(t, h, userID.String(), "pm", time.Hour)

	tests := []struct {
		name       string
		setRequest func(r *http.Request)
		wantStatus int
	}{
		{
			name:       "no token",
			setRequest: func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "garbage token",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer not.a.jwt")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, h, userID.String(), "pm", -time.Minute))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "bad subject",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, h, "not-a-uuid", "pm", time.Hour))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown role",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, h, userID.String(), "superuser", time.Hour))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "valid bearer token",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+valid)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "valid cookie",
			setRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: authCookieName, Value: valid})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "valid x-auth-token header",
			setRequest: func(r *http.Request) {
				r.Header.Set("x-auth-token", valid)
			},
			wantStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/check", nil)
			tt.setRequest(req)
			rec := httptest.NewRecorder()
			protected(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	h := newBareHandler()
	userID := uuid.New()

	mux := h.Routes()
	token := signToken(t, h, userID.String(), "developer", time.Hour)

	// developer token on an admin route
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")
}
