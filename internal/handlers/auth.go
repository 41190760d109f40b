package handlers

import (
	"context"
	"net/http"
	"time"

	"studyshare/internal/middleware"
	"studyshare/internal/models"

	"github.com/rs/zerolog/log"
)

// SessionService is the identity collaborator used by the auth handler.
type SessionService interface {
	AuthCodeURL(redirectTo string) string
	Exchange(ctx context.Context, code string) (*models.Profile, error)
	IssueToken(profileID string) (string, error)
	TTL() time.Duration
}

// AuthHandler handles login, logout and the OAuth callback
type AuthHandler struct {
	sessions SessionService
	renderer *Renderer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions SessionService, renderer *Renderer) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		renderer: renderer,
	}
}

type loginView struct {
	Principal  *models.Profile
	RedirectTo string
	Error      string
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login.html", loginView{
		Principal:  middleware.CurrentProfile(r.Context()),
		RedirectTo: sanitizeRedirect(r.URL.Query().Get("redirectTo")),
	})
}

// Login handles POST /login: starts the OAuth flow. The sanitized
// return destination rides the state parameter.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	redirectTo := sanitizeRedirect(r.FormValue("redirectTo"))
	http.Redirect(w, r, h.sessions.AuthCodeURL(redirectTo), http.StatusSeeOther)
}

// Callback handles GET /auth/callback: exchanges the code for a
// session, sets the cookie and returns to the preserved destination.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	profile, err := h.sessions.Exchange(r.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("Failed to exchange auth code")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	token, err := h.sessions.IssueToken(profile.ID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profile.ID).Msg("Failed to issue session token")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info().Str("profile_id", profile.ID).Msg("User signed in")

	http.Redirect(w, r, sanitizeRedirect(r.URL.Query().Get("state")), http.StatusSeeOther)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
