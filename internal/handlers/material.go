package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"studyshare/internal/middleware"
	"studyshare/internal/models"
	"studyshare/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 10 << 20 // 10 MB

// MaterialService assembles page payloads and performs material mutations.
type MaterialService interface {
	Feed(ctx context.Context) ([]models.FeedItem, error)
	Detail(ctx context.Context, id, viewerID string) (*models.MaterialDetail, error)
	Upload(ctx context.Context, userID string, in services.UploadInput) (string, error)
	AddComment(ctx context.Context, userID, materialID, content string) error
	ToggleLike(ctx context.Context, userID, materialID string) (bool, error)
}

// MaterialHandler handles the feed, material detail and upload routes
type MaterialHandler struct {
	materials MaterialService
	renderer  *Renderer
}

// NewMaterialHandler creates a new material handler
func NewMaterialHandler(materials MaterialService, renderer *Renderer) *MaterialHandler {
	return &MaterialHandler{
		materials: materials,
		renderer:  renderer,
	}
}

type feedView struct {
	Principal *models.Profile
	Materials []models.FeedItem
}

type materialView struct {
	Principal *models.Profile
	Detail    *models.MaterialDetail
	Error     string
}

type newMaterialView struct {
	Principal *models.Profile
	Error     string
}

// Feed handles GET /
func (h *MaterialHandler) Feed(w http.ResponseWriter, r *http.Request) {
	principal := middleware.CurrentProfile(r.Context())

	materials, err := h.materials.Feed(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load feed")
		h.renderer.Error(w, principal, "Failed to load materials.")
		return
	}

	h.renderer.Render(w, http.StatusOK, "feed.html", feedView{
		Principal: principal,
		Materials: materials,
	})
}

// Detail handles GET /materials/{id}
func (h *MaterialHandler) Detail(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, http.StatusOK, "")
}

// DetailAction handles POST /materials/{id}: _action is either
// "comment" or "toggle-like". The route is auth-gated.
func (h *MaterialHandler) DetailAction(w http.ResponseWriter, r *http.Request) {
	principal := middleware.CurrentProfile(r.Context())
	materialID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		h.renderDetail(w, r, http.StatusBadRequest, "An error occurred. Please try again.")
		return
	}

	switch r.FormValue("_action") {
	case "comment":
		content := strings.TrimSpace(r.FormValue("content"))
		if content == "" {
			h.renderDetail(w, r, http.StatusOK, "Comment content is required")
			return
		}
		if err := h.materials.AddComment(r.Context(), principal.ID, materialID, content); err != nil {
			log.Error().Err(err).Str("material_id", materialID).Msg("Failed to add comment")
			h.renderDetail(w, r, http.StatusOK, "An error occurred. Please try again.")
			return
		}
	case "toggle-like":
		liked, err := h.materials.ToggleLike(r.Context(), principal.ID, materialID)
		if err != nil {
			log.Error().Err(err).Str("material_id", materialID).Msg("Failed to toggle like")
			h.renderDetail(w, r, http.StatusOK, "An error occurred. Please try again.")
			return
		}
		log.Info().
			Str("material_id", materialID).
			Str("profile_id", principal.ID).
			Bool("liked", liked).
			Msg("Like toggled")
	}

	http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
}

func (h *MaterialHandler) renderDetail(w http.ResponseWriter, r *http.Request, status int, formError string) {
	principal := middleware.CurrentProfile(r.Context())

	viewerID := ""
	if principal != nil {
		viewerID = principal.ID
	}

	detail, err := h.materials.Detail(r.Context(), chi.URLParam(r, "id"), viewerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.renderer.NotFound(w, principal)
			return
		}
		log.Error().Err(err).Msg("Failed to load material")
		h.renderer.Error(w, principal, "Failed to load material.")
		return
	}

	h.renderer.Render(w, status, "material.html", materialView{
		Principal: principal,
		Detail:    detail,
		Error:     formError,
	})
}

// NewForm handles GET /materials/new. The route is auth-gated.
func (h *MaterialHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "new_material.html", newMaterialView{
		Principal: middleware.CurrentProfile(r.Context()),
	})
}

// Upload handles POST /materials/new. The route is auth-gated.
func (h *MaterialHandler) Upload(w http.ResponseWriter, r *http.Request) {
	principal := middleware.CurrentProfile(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.renderUploadError(w, principal, "Failed to upload material. Please try again.")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	materialType := r.FormValue("type")
	file, header, err := r.FormFile("file")
	if title == "" || materialType == "" || err != nil {
		h.renderUploadError(w, principal, "Title, type and file are required")
		return
	}
	defer file.Close()

	id, err := h.materials.Upload(r.Context(), principal.ID, services.UploadInput{
		Title:       title,
		Description: strings.TrimSpace(r.FormValue("description")),
		Type:        materialType,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		File:        file,
	})
	if err != nil {
		log.Error().Err(err).Str("profile_id", principal.ID).Msg("Failed to upload material")
		h.renderUploadError(w, principal, "Failed to upload material. Please try again.")
		return
	}

	log.Info().
		Str("material_id", id).
		Str("profile_id", principal.ID).
		Str("filename", header.Filename).
		Msg("Material uploaded")

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *MaterialHandler) renderUploadError(w http.ResponseWriter, principal *models.Profile, message string) {
	h.renderer.Render(w, http.StatusOK, "new_material.html", newMaterialView{
		Principal: principal,
		Error:     message,
	})
}
