package middleware

import (
	"context"
	"net/http"
	"net/url"

	"studyshare/internal/models"

	"github.com/rs/zerolog/log"
)

type contextKey string

const profileKey contextKey = "profile"

// SessionCookie is the name of the session cookie.
const SessionCookie = "studyshare_session"

// SessionResolver resolves a session token to the authenticated profile.
type SessionResolver interface {
	ResolveProfile(ctx context.Context, token string) (*models.Profile, error)
}

// Session resolves the request's session cookie to a principal and
// stores it in the request context. Absence of a session is a valid
// outcome; resolution failures leave the request anonymous.
func Session(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			profile, err := sessions.ResolveProfile(r.Context(), cookie.Value)
			if err != nil {
				log.Debug().Err(err).Msg("Session resolution failed, treating as anonymous")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
		})
	}
}

// RequireAuth gates a route on an authenticated principal. Anonymous
// requests are redirected to the login page with the original path
// preserved as the return destination.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentProfile(r.Context()) == nil {
			http.Redirect(w, r, "/login?redirectTo="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentProfile extracts the authenticated profile from the context,
// or nil for anonymous requests.
func CurrentProfile(ctx context.Context) *models.Profile {
	profile, ok := ctx.Value(profileKey).(*models.Profile)
	if !ok {
		return nil
	}
	return profile
}

// WithProfile returns a context carrying the given principal. Used by
// the session middleware and by handler tests.
func WithProfile(ctx context.Context, profile *models.Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}
