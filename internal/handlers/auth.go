package handlers

import (
	"net/http"
	"time"

	"github.com/chepyr/go-project-tracker/internal/apperrors"
	"github.com/chepyr/go-project-tracker/internal/models"
	"github.com/chepyr/go-project-tracker/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	authCookieName = "jwtToken"
	tokenLifetime  = 7 * 24 * time.Hour
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	clientIP := r.RemoteAddr
	if h.RateLimiter != nil && !h.RateLimiter.Allow(clientIP) {
		h.Log.Warn("rate limit exceeded", zap.String("ip", clientIP))
		h.sendFail(w, http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !h.decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Service.Authenticate(r.Context(), input.Email, input.Password, input.Role)
	if err != nil {
		// failed login is 401, not the 403 the guard kind maps to
		if apperrors.KindOf(err) == apperrors.Authorization {
			h.sendFail(w, http.StatusUnauthorized, apperrors.Message(err))
			return
		}
		h.sendError(w, err)
		return
	}

	tokenString, err := h.mintToken(user)
	if err != nil {
		h.Log.Error("mint token", zap.Error(err))
		h.sendFail(w, http.StatusInternalServerError, "Cannot create token")
		return
	}
	h.setAuthCookie(w, tokenString)

	h.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"user":    user.Summary(),
		"token":   tokenString,
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !h.decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Service.Register(r.Context(), actor, service.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		h.sendError(w, err)
		return
	}

	h.sendJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": string(user.Role) + " account created successfully",
		"user":    user.Summary(),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.cookieSameSite(),
		MaxAge:   -1,
	})
	h.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *Handler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		h.sendFail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    map[string]any{"id": actor.ID, "role": actor.Role},
	})
}

func (h *Handler) mintToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTSecret)
}

func (h *Handler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.cookieSameSite(),
		Expires:  time.Now().Add(tokenLifetime),
	})
}

func (h *Handler) cookieSameSite() http.SameSite {
	if h.SecureCookies {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
