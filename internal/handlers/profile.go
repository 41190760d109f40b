package handlers

import (
	"context"
	"net/http"

	"studyshare/internal/middleware"
	"studyshare/internal/models"

	"github.com/rs/zerolog/log"
)

// ProfileService assembles the profile page payload.
type ProfileService interface {
	ProfilePage(ctx context.Context, userID string) (*models.ProfilePage, error)
}

// ProfileHandler handles the profile route
type ProfileHandler struct {
	profiles ProfileService
	renderer *Renderer
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles ProfileService, renderer *Renderer) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		renderer: renderer,
	}
}

type profileView struct {
	Principal *models.Profile
	Page      *models.ProfilePage
}

// Show handles GET /profile. The route is auth-gated.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	principal := middleware.CurrentProfile(r.Context())

	page, err := h.profiles.ProfilePage(r.Context(), principal.ID)
	if err != nil {
		log.Error().Err(err).Str("profile_id", principal.ID).Msg("Failed to load profile page")
		h.renderer.Error(w, principal, "Failed to load profile.")
		return
	}

	h.renderer.Render(w, http.StatusOK, "profile.html", profileView{
		Principal: principal,
		Page:      page,
	})
}
