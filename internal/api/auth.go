package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/visitorlog/internal/auth"
	"github.com/erazemk/visitorlog/internal/model"
	"github.com/erazemk/visitorlog/internal/store"
)

// UserStore is the persistence the auth and profile endpoints need.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// LoginMetrics counts login attempts.
type LoginMetrics interface {
	ObserveLogin(success bool)
}

// AuthHandler handles authentication and profile endpoints.
type AuthHandler struct {
	Users   UserStore
	Issuer  *auth.Issuer
	Revoker auth.Revoker
	Metrics LoginMetrics
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type profileResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	University string `json:"university"`
	Address    string `json:"address"`
}

func newProfileResponse(u *model.User) profileResponse {
	return profileResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		University: u.University,
		Address:    u.Address,
	}
}

type profileRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	University *string `json:"university"`
	Address    *string `json:"address"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = store.NormalizeEmail(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if !model.ValidEmail(req.Email) {
		jsonError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	user, err := h.Users.Create(r.Context(), req.Name, req.Email, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		jsonError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		slog.Error("failed to register user", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("user registered", "user", user.ID)
	jsonResponse(w, http.StatusCreated, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("failed to look up user", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.Metrics.ObserveLogin(false)
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.Issuer.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Metrics.ObserveLogin(true)
	slog.Info("user logged in", "user", user.ID)
	jsonResponse(w, http.StatusOK, loginResponse{ID: user.ID, Name: user.Name, Email: user.Email, Token: token})
}

// Logout handles POST /api/auth/logout by revoking the current token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.Revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		slog.Error("failed to revoke token", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("user logged out", "user", claims.UserID)
	jsonResponse(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

// GetProfile handles GET /api/auth/profile.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.Users.Get(r.Context(), claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to get profile", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, newProfileResponse(user))
}

// UpdateProfile handles PUT /api/auth/profile. Only the fields sent change.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		jsonError(w, http.StatusBadRequest, "Name cannot be empty")
		return
	}
	if req.Email != nil && !model.ValidEmail(store.NormalizeEmail(*req.Email)) {
		jsonError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	patch := model.ProfilePatch{
		Name:       req.Name,
		Email:      req.Email,
		University: req.University,
		Address:    req.Address,
	}

	var (
		user *model.User
		err  error
	)
	if patch.Empty() {
		user, err = h.Users.Get(r.Context(), claims.UserID)
	} else {
		user, err = h.Users.UpdateProfile(r.Context(), claims.UserID, patch)
	}
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		jsonError(w, http.StatusConflict, "Email already registered")
		return
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		slog.Error("failed to update profile", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("profile updated", "user", user.ID)
	jsonResponse(w, http.StatusOK, newProfileResponse(user))
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		jsonError(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		jsonError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	user, err := h.Users.Get(r.Context(), claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		jsonError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.Users.UpdatePassword(r.Context(), claims.UserID, hash); err != nil {
		slog.Error("failed to update password", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("user changed own password", "user", claims.UserID)
	jsonResponse(w, http.StatusOK, messageResponse{Message: "Password updated"})
}
