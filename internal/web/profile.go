package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/visitorlog/internal/auth"
	"github.com/erazemk/visitorlog/internal/model"
	"github.com/erazemk/visitorlog/internal/store"
)

type profilePage struct {
	PageData
	Profile *model.User
}

func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request, status int, page *profilePage) {
	page.Title = "Profile"
	page.User = GetWebClaims(r.Context())
	if page.Profile == nil {
		user, err := s.Users.Get(r.Context(), page.User.UserID)
		if err != nil {
			slog.Error("failed to load profile", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		page.Profile = user
	}
	s.Templates.Render(w, status, "profile.html", page)
}

// ProfilePage handles GET /profile.
func (s *Server) ProfilePage(w http.ResponseWriter, r *http.Request) {
	page := &profilePage{}
	page.Success = popFlash(w, r)
	s.renderProfile(w, r, http.StatusOK, page)
}

// ProfileSubmit handles POST /profile.
func (s *Server) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	name := strings.TrimSpace(r.FormValue("name"))
	email := store.NormalizeEmail(r.FormValue("email"))
	university := strings.TrimSpace(r.FormValue("university"))
	address := strings.TrimSpace(r.FormValue("address"))

	fail := func(status int, msg string) {
		page := &profilePage{Profile: &model.User{
			ID:         claims.UserID,
			Name:       name,
			Email:      email,
			University: university,
			Address:    address,
		}}
		page.Error = msg
		s.renderProfile(w, r, status, page)
	}

	if name == "" {
		fail(http.StatusBadRequest, "Name cannot be empty.")
		return
	}
	if !model.ValidEmail(email) {
		fail(http.StatusBadRequest, "Invalid email address.")
		return
	}

	_, err := s.Users.UpdateProfile(r.Context(), claims.UserID, model.ProfilePatch{
		Name:       &name,
		Email:      &email,
		University: &university,
		Address:    &address,
	})
	if errors.Is(err, store.ErrEmailTaken) {
		fail(http.StatusConflict, "Email already registered.")
		return
	}
	if err != nil {
		slog.Error("failed to update profile", "error", err)
		fail(http.StatusInternalServerError, "Could not save profile.")
		return
	}

	slog.Info("profile updated", "user", claims.UserID)
	setFlash(w, "Profile updated")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// PasswordSubmit handles POST /profile/password.
func (s *Server) PasswordSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	current := r.FormValue("current_password")
	next := r.FormValue("new_password")

	fail := func(status int, msg string) {
		page := &profilePage{}
		page.Error = msg
		s.renderProfile(w, r, status, page)
	}

	if current == "" || next == "" {
		fail(http.StatusBadRequest, "Current and new password are required.")
		return
	}
	if model.ValidatePassword(next) != nil {
		fail(http.StatusBadRequest, "Password must be at least 8 characters.")
		return
	}

	user, err := s.Users.Get(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("failed to load user", "error", err)
		fail(http.StatusInternalServerError, "Could not change password.")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		fail(http.StatusUnauthorized, "Current password is incorrect.")
		return
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		fail(http.StatusInternalServerError, "Could not change password.")
		return
	}
	if err := s.Users.UpdatePassword(r.Context(), claims.UserID, hash); err != nil {
		slog.Error("failed to update password", "error", err)
		fail(http.StatusInternalServerError, "Could not change password.")
		return
	}

	slog.Info("password changed", "user", claims.UserID)
	setFlash(w, "Password changed")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
