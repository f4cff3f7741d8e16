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

type authPage struct {
	PageData
	Name  string
	Email string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	page := &authPage{PageData: PageData{Title: "Login"}}
	if r.URL.Query().Get("registered") != "" {
		page.Success = "Registration successful. Please log in."
	}
	s.Templates.Render(w, http.StatusOK, "login.html", page)
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	fail := func(status int, msg string) {
		s.Templates.Render(w, status, "login.html", &authPage{
			PageData: PageData{Title: "Login", Error: msg},
			Email:    email,
		})
	}

	if email == "" || password == "" {
		fail(http.StatusBadRequest, "Enter your email and password.")
		return
	}

	user, err := s.Users.GetByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("failed to look up user", "error", err)
		fail(http.StatusInternalServerError, "Login failed. Try again.")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.Metrics.ObserveLogin(false)
		slog.Warn("login failed", "email", email, "remote", r.RemoteAddr)
		fail(http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	token, err := s.Issuer.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		fail(http.StatusInternalServerError, "Login failed. Try again.")
		return
	}

	s.Metrics.ObserveLogin(true)
	slog.Info("user logged in", "user", user.ID)
	setAuthCookie(w, token, int(s.Issuer.TTL().Seconds()))
	http.Redirect(w, r, "/visitors", http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusOK, "register.html", &authPage{PageData: PageData{Title: "Register"}})
}

// RegisterSubmit handles POST /register. On success the user is sent to the
// login page with a confirmation banner.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := store.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	fail := func(status int, msg string) {
		s.Templates.Render(w, status, "register.html", &authPage{
			PageData: PageData{Title: "Register", Error: msg},
			Name:     name,
			Email:    email,
		})
	}

	switch {
	case name == "" || email == "" || password == "":
		fail(http.StatusBadRequest, "Name, email and password are required.")
		return
	case !model.ValidEmail(email):
		fail(http.StatusBadRequest, "Invalid email address.")
		return
	case model.ValidatePassword(password) != nil:
		fail(http.StatusBadRequest, "Password must be at least 8 characters.")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		fail(http.StatusInternalServerError, "Registration failed. Try again.")
		return
	}

	user, err := s.Users.Create(r.Context(), name, email, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		fail(http.StatusConflict, "Email already registered.")
		return
	}
	if err != nil {
		slog.Error("failed to register user", "error", err)
		fail(http.StatusInternalServerError, "Registration failed. Try again.")
		return
	}

	slog.Info("user registered", "user", user.ID)
	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

// Logout handles POST /logout. The session token is revoked so a copied
// cookie stops working too.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		if claims, err := s.Issuer.ValidateToken(cookie.Value); err == nil {
			if err := s.Revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				slog.Error("failed to revoke token", "error", err)
			} else {
				slog.Info("user logged out", "user", claims.UserID)
			}
		}
	}

	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
