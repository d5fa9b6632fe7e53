package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/PULSECOACH/pulsecoach/internal/auth"
	"github.com/PULSECOACH/pulsecoach/internal/database"
	"github.com/PULSECOACH/pulsecoach/internal/models"
)

// UserStore is the account persistence the auth handlers need.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthHandler serves registration, login, and token validation.
type AuthHandler struct {
	users  UserStore
	config auth.Config
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users UserStore, config auth.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, config: config, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, hash)
	if err == database.ErrEmailTaken {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		h.logger.Error("failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("registered user", "user_id", user.ID)
	h.respondWithToken(w, user, http.StatusCreated)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err == database.ErrNotFound || (err == nil && !auth.CheckPassword(req.Password, user.PasswordHash)) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.logger.Error("failed to look up user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.respondWithToken(w, user, http.StatusOK)
}

// ValidateToken handles GET /api/auth/validate. It runs behind the auth
// middleware, so reaching it means the token is good.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":   true,
		"user_id": userID,
	})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, user *models.User, status int) {
	token, err := auth.GenerateToken(user.ID, h.config.JWTSecret, h.config.TokenDuration)
	if err != nil {
		h.logger.Error("failed to generate token", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, status, tokenResponse{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(h.config.TokenDuration),
	})
}
