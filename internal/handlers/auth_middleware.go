package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/chepyr/go-project-tracker/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey int

const actorKey contextKey = iota

// Claims are what the service mints at login and trusts on every request:
// the user ID as subject plus the role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the JWT and puts the verified actor into the
// request context. The token is read from the auth cookie, the Authorization
// header or the x-auth-token header, in that order.
func (h *Handler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := h.extractToken(r)
		if tokenString == "" {
			h.sendFail(w, http.StatusUnauthorized, "No token found, access denied")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			return h.JWTSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			h.sendFail(w, http.StatusUnauthorized, "Invalid or expired token, please login again")
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil || !models.Role(claims.Role).Valid() {
			h.sendFail(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		actor := service.Actor{ID: userID, Role: models.Role(claims.Role)}
		next(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	}
}

// RequireRole gates a handler to the given roles. It runs after
// AuthMiddleware, so a missing actor means a wiring bug and is reported as
// an auth failure rather than a panic.
func (h *Handler) RequireRole(next http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			h.sendFail(w, http.StatusUnauthorized, "User role not found in token")
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				next(w, r)
				return
			}
		}
		h.sendFail(w, http.StatusForbidden,
			"Access denied: You do not have permission for this action")
	}
}

func ActorFromContext(ctx context.Context) (service.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(service.Actor)
	return actor, ok
}

func (h *Handler) extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(authCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.Header.Get("x-auth-token")
}
