package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/RishijManna/SpeechToText-translation/internal/account"
	"github.com/RishijManna/SpeechToText-translation/internal/auth"
	"github.com/RishijManna/SpeechToText-translation/internal/models"
)

type Accounts interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthHandler struct {
	accounts Accounts
	sessions *auth.Sessions
}

func NewAuthHandler(accounts Accounts, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, account.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, account.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case err != nil:
		slog.Error("registration failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "registration failed"})
		return
	}

	h.startSession(w, user, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, account.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		slog.Error("login failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}

	h.startSession(w, user, http.StatusOK)
}

// Logout revokes the current session if there is one. It always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, err := h.sessions.Authenticate(r); err == nil {
		if err := h.sessions.Revoke(r.Context(), claims); err != nil {
			slog.Warn("failed to revoke session", "error", err)
		}
	}
	h.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me must be mounted behind Sessions.Require.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	user, err := h.accounts.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user *models.User, status int) {
	token, expires, err := h.sessions.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("failed to issue session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}
	h.sessions.SetCookie(w, token, expires)
	writeJSON(w, status, map[string]interface{}{
		"user":       user,
		"token":      token,
		"expires_at": expires.UTC().Format(time.RFC3339),
	})
}
