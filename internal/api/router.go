package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/erazemk/visitorlog/internal/auth"
)

// Metrics is the union of the counters the handlers update.
type Metrics interface {
	VisitorMetrics
	LoginMetrics
}

// Deps are the collaborators of the API router.
type Deps struct {
	Visitors       VisitorStore
	Users          UserStore
	Issuer         *auth.Issuer
	Revoker        auth.Revoker
	Metrics        Metrics
	DB             Pinger
	AllowedOrigins []string
	AllowBodyOwner bool
}

// NewRouter creates the API router with all endpoints registered. It is
// meant to be mounted at /api.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(CORS(d.AllowedOrigins))

	authHandler := &AuthHandler{Users: d.Users, Issuer: d.Issuer, Revoker: d.Revoker, Metrics: d.Metrics}
	visitorsHandler := &VisitorsHandler{Store: d.Visitors, Metrics: d.Metrics, AllowBodyOwner: d.AllowBodyOwner}

	// Public.
	r.Get("/health", Health(d.DB))
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)

	// Authenticated.
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(d.Issuer, d.Revoker))
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/profile", authHandler.GetProfile)
		r.Put("/auth/profile", authHandler.UpdateProfile)
		r.Put("/auth/password", authHandler.ChangePassword)
	})

	// Visitors run without a session only when body-supplied owners are
	// enabled.
	r.Group(func(r chi.Router) {
		if d.AllowBodyOwner {
			r.Use(OptionalAuth(d.Issuer, d.Revoker))
		} else {
			r.Use(RequireAuth(d.Issuer, d.Revoker))
		}
		visitorsHandler.Register(r)
	})

	return r
}
