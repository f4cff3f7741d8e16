package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/visitorlog/internal/auth"
	"github.com/erazemk/visitorlog/internal/store"
	webembed "github.com/erazemk/visitorlog/web"
)

// Metrics is the subset of application metrics the pages record.
type Metrics interface {
	IncrementVisitorsCreated()
	IncrementVisitorsUpdated()
	IncrementVisitorsDeleted()
	IncrementPhotosUploaded()
	ObserveLogin(success bool)
}

// Server holds all dependencies for page handlers.
type Server struct {
	Visitors  *store.VisitorStore
	Users     *store.UserStore
	Issuer    *auth.Issuer
	Revoker   auth.Revoker
	Metrics   Metrics
	Templates *Templates
	Location  *time.Location
}

// Deps are the collaborators of the web frontend.
type Deps struct {
	Visitors *store.VisitorStore
	Users    *store.UserStore
	Issuer   *auth.Issuer
	Revoker  auth.Revoker
	Metrics  Metrics
	// Location is used to show and parse form timestamps. Nil means
	// time.Local.
	Location *time.Location
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(d Deps) (http.Handler, error) {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}

	templates, err := LoadTemplates(loc)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Visitors:  d.Visitors,
		Users:     d.Users,
		Issuer:    d.Issuer,
		Revoker:   d.Revoker,
		Metrics:   d.Metrics,
		Templates: templates,
		Location:  loc,
	}

	r := chi.NewRouter()

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	r.Get("/login", s.LoginPage)
	r.Post("/login", s.LoginSubmit)
	r.Get("/register", s.RegisterPage)
	r.Post("/register", s.RegisterSubmit)
	r.Post("/logout", s.Logout)

	r.Group(func(r chi.Router) {
		r.Use(CookieAuthMiddleware(s.Issuer, s.Revoker))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/visitors", http.StatusSeeOther)
		})

		r.Get("/visitors", s.VisitorsPage)
		r.Get("/visitors/new", s.VisitorNewPage)
		r.Post("/visitors/new", s.VisitorCreateSubmit)
		r.Get("/visitors/{id}/edit", s.VisitorEditPage)
		r.Post("/visitors/{id}/edit", s.VisitorUpdateSubmit)
		r.Post("/visitors/{id}/delete", s.VisitorDeleteSubmit)
		r.Get("/visitors/{id}/photo", s.VisitorPhotoGet)

		r.Get("/profile", s.ProfilePage)
		r.Post("/profile", s.ProfileSubmit)
		r.Post("/profile/password", s.PasswordSubmit)
	})

	return r, nil
}
