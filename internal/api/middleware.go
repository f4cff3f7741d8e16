package api

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/visitorlog/internal/auth"
	"github.com/erazemk/visitorlog/internal/logging"
)

type contextKey string

const claimsKey contextKey = "claims"

// WithClaims returns a copy of ctx carrying the session claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims retrieves the JWT claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// SessionUserID returns the session identity, or "" when the request has
// none.
func SessionUserID(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// authenticate validates tokenStr and checks the revocation list. On
// failure it writes a 401 or 500 response and returns nil.
func authenticate(w http.ResponseWriter, r *http.Request, issuer *auth.Issuer, revoker auth.Revoker, tokenStr string) *auth.Claims {
	claims, err := issuer.ValidateToken(tokenStr)
	if err != nil {
		jsonError(w, http.StatusUnauthorized, "Invalid token")
		return nil
	}

	revoked, err := revoker.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		slog.Error("checking token revocation", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if revoked {
		jsonError(w, http.StatusUnauthorized, "Token has been revoked")
		return nil
	}
	return claims
}

// RequireAuth validates the bearer token and adds its claims to the
// request context. Requests without a valid token get 401.
func RequireAuth(issuer *auth.Issuer, revoker auth.Revoker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				jsonError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
				return
			}
			claims := authenticate(w, r, issuer, revoker, tokenStr)
			if claims == nil {
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth behaves like RequireAuth when an Authorization header is
// present and lets the request through without a session identity
// otherwise.
func OptionalAuth(issuer *auth.Issuer, revoker auth.Revoker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			RequireAuth(issuer, revoker)(next).ServeHTTP(w, r)
		})
	}
}

// RequestID propagates or generates the X-Request-Id header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(logging.RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(logging.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// CORS allows cross-origin calls from the listed origins and answers
// preflight requests. Requests without an Origin header pass untouched.
func CORS(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !slices.Contains(allowed, origin) && !slices.Contains(allowed, "*") {
				jsonError(w, http.StatusForbidden, "Not allowed by CORS")
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				h.Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
