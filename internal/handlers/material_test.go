package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"studyshare/internal/middleware"
	"studyshare/internal/models"
	"studyshare/internal/services"

	"github.com/go-chi/chi/v5"
)

// stubMaterials tracks like and comment state in memory so toggle and
// comment flows can be exercised end to end against the handlers.
type stubMaterials struct {
	material  models.Material
	author    models.Profile
	comments  []models.CommentWithAuthor
	likeCount int
	liked     bool

	feed        []models.FeedItem
	missing     bool
	uploads     []services.UploadInput
	uploadErr   error
	commentErr  error
	addedUpload bool
}

func (s *stubMaterials) Feed(context.Context) ([]models.FeedItem, error) {
	return s.feed, nil
}

func (s *stubMaterials) Detail(_ context.Context, id, viewerID string) (*models.MaterialDetail, error) {
	if s.missing || id != s.material.ID {
		return nil, models.ErrNotFound
	}
	detail := &models.MaterialDetail{
		Material:  s.material,
		Author:    s.author,
		Comments:  s.comments,
		LikeCount: s.likeCount,
	}
	if viewerID != "" {
		detail.Liked = s.liked
	}
	return detail, nil
}

func (s *stubMaterials) Upload(_ context.Context, userID string, in services.UploadInput) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads = append(s.uploads, in)
	s.addedUpload = true
	return "m-new", nil
}

func (s *stubMaterials) AddComment(_ context.Context, userID, materialID, content string) error {
	if s.commentErr != nil {
		return s.commentErr
	}
	s.comments = append([]models.CommentWithAuthor{{
		Comment: models.Comment{
			ID:         "c-new",
			UserID:     userID,
			MaterialID: materialID,
			Content:    content,
			CreatedAt:  time.Now(),
		},
		AuthorName: "Ada",
	}}, s.comments...)
	return nil
}

func (s *stubMaterials) ToggleLike(_ context.Context, userID, materialID string) (bool, error) {
	if s.liked {
		s.liked = false
		s.likeCount--
	} else {
		s.liked = true
		s.likeCount++
	}
	return s.liked, nil
}

func newStub() *stubMaterials {
	return &stubMaterials{
		material: models.Material{
			ID:        "m1",
			UserID:    "p1",
			Title:     "Calculus Notes",
			FileURL:   "https://bucket.s3.eu-west-1.amazonaws.com/m1.pdf",
			Type:      "notes",
			CreatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		},
		author: models.Profile{ID: "p1", Name: "Ada"},
	}
}

func testRouter(t *testing.T, stub *stubMaterials) chi.Router {
	t.Helper()
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}
	h := NewMaterialHandler(stub, renderer)

	r := chi.NewRouter()
	r.Get("/", h.Feed)
	r.Get("/materials/{id}", h.Detail)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/materials/new", h.NewForm)
		r.Post("/materials/new", h.Upload)
		r.Post("/materials/{id}", h.DetailAction)
	})
	return r
}

func asPrincipal(req *http.Request, id string) *http.Request {
	ctx := middleware.WithProfile(req.Context(), &models.Profile{ID: id, Name: "Ada"})
	return req.WithContext(ctx)
}

func assertContains(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Fatalf("response does not contain %q\n%s", want, body)
	}
}

func postForm(t *testing.T, r chi.Router, principal, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if principal != "" {
		req = asPrincipal(req, principal)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestFeedRendersMaterials(t *testing.T) {
	stub := newStub()
	stub.feed = []models.FeedItem{{
		Material:        stub.material,
		AuthorName:      "Ada",
		AuthorAvatarURL: "",
		LikeCount:       3,
		CommentCount:    1,
	}}
	r := testRouter(t, stub)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	assertContains(t, body, "Calculus Notes")
	assertContains(t, body, "3 likes")
	assertContains(t, body, "/default-avatar.png")
}

func TestFeedEmptyState(t *testing.T) {
	r := testRouter(t, newStub())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assertContains(t, rec.Body.String(), "No materials have been shared yet.")
}

func TestDetailNotFound(t *testing.T) {
	r := testRouter(t, newStub())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/materials/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), "Not Found")
}

func TestDetailRendersEmptyCommentState(t *testing.T) {
	r := testRouter(t, newStub())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/materials/m1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), "No comments yet.")
}

func TestAnonymousUploadFormRedirectsToLogin(t *testing.T) {
	r := testRouter(t, newStub())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/materials/new", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?redirectTo=%2Fmaterials%2Fnew" {
		t.Fatalf("unexpected redirect location %q", loc)
	}
}

func TestEmptyCommentIsRejected(t *testing.T) {
	stub := newStub()
	r := testRouter(t, stub)

	form := url.Values{"_action": {"comment"}, "content": {"   "}}
	rec := postForm(t, r, "p2", "/materials/m1", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	assertContains(t, rec.Body.String(), "Comment content is required")
	if len(stub.comments) != 0 {
		t.Fatalf("expected no comment rows, got %d", len(stub.comments))
	}
}

func TestCommentIsCreatedAndPageRedirects(t *testing.T) {
	stub := newStub()
	r := testRouter(t, stub)

	form := url.Values{"_action": {"comment"}, "content": {"Very helpful, thanks!"}}
	rec := postForm(t, r, "p2", "/materials/m1", form)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/materials/m1" {
		t.Fatalf("unexpected redirect location %q", loc)
	}
	if len(stub.comments) != 1 || stub.comments[0].Content != "Very helpful, thanks!" {
		t.Fatalf("expected one comment row, got %v", stub.comments)
	}

	req := asPrincipal(httptest.NewRequest("GET", "/materials/m1", nil), "p2")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assertContains(t, rec.Body.String(), "Very helpful, thanks!")
}

func TestDoubleToggleRestoresLikeState(t *testing.T) {
	stub := newStub()
	stub.likeCount = 5
	r := testRouter(t, stub)

	form := url.Values{"_action": {"toggle-like"}}

	rec := postForm(t, r, "p2", "/materials/m1", form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if !stub.liked || stub.likeCount != 6 {
		t.Fatalf("expected liked with count 6, got liked=%v count=%d", stub.liked, stub.likeCount)
	}

	rec = postForm(t, r, "p2", "/materials/m1", form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if stub.liked || stub.likeCount != 5 {
		t.Fatalf("expected original state restored, got liked=%v count=%d", stub.liked, stub.likeCount)
	}
}

func multipartBody(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field %s: %v", k, err)
		}
	}
	if withFile {
		fw, err := mw.CreateFormFile("file", "notes.pdf")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := io.WriteString(fw, "%PDF-1.4 test"); err != nil {
			t.Fatalf("failed to write file body: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadMissingFileIsRejected(t *testing.T) {
	stub := newStub()
	r := testRouter(t, stub)

	body, contentType := multipartBody(t, map[string]string{
		"title": "Algebra summary",
		"type":  "summary",
	}, false)

	req := asPrincipal(httptest.NewRequest("POST", "/materials/new", body), "p2")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assertContains(t, rec.Body.String(), "Title, type and file are required")
	if stub.addedUpload {
		t.Fatal("expected no upload on validation failure")
	}
}

func TestUploadRedirectsToProfile(t *testing.T) {
	stub := newStub()
	r := testRouter(t, stub)

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Algebra summary",
		"description": "Chapter 3",
		"type":        "summary",
	}, true)

	req := asPrincipal(httptest.NewRequest("POST", "/materials/new", body), "p2")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/profile" {
		t.Fatalf("unexpected redirect location %q", loc)
	}
	if len(stub.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(stub.uploads))
	}
	up := stub.uploads[0]
	if up.Title != "Algebra summary" || up.Type != "summary" || up.Filename != "notes.pdf" {
		t.Fatalf("unexpected upload input %+v", up)
	}
}

func TestUploadFailureShowsGenericError(t *testing.T) {
	stub := newStub()
	stub.uploadErr = io.ErrUnexpectedEOF
	r := testRouter(t, stub)

	body, contentType := multipartBody(t, map[string]string{
		"title": "Algebra summary",
		"type":  "summary",
	}, true)

	req := asPrincipal(httptest.NewRequest("POST", "/materials/new", body), "p2")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assertContains(t, rec.Body.String(), "Failed to upload material. Please try again.")
}
