package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"studyshare/internal/models"
	"studyshare/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BlobStore stores a named blob and returns its URL.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// MaterialService assembles page payloads and performs the material
// mutations: upload, comment, toggle-like.
type MaterialService struct {
	materialRepo *repository.MaterialRepository
	commentRepo  *repository.CommentRepository
	likeRepo     *repository.LikeRepository
	followRepo   *repository.FollowRepository
	profileRepo  *repository.ProfileRepository
	store        BlobStore
}

// NewMaterialService creates a new material service
func NewMaterialService(
	materialRepo *repository.MaterialRepository,
	commentRepo *repository.CommentRepository,
	likeRepo *repository.LikeRepository,
	followRepo *repository.FollowRepository,
	profileRepo *repository.ProfileRepository,
	store BlobStore,
) *MaterialService {
	return &MaterialService{
		materialRepo: materialRepo,
		commentRepo:  commentRepo,
		likeRepo:     likeRepo,
		followRepo:   followRepo,
		profileRepo:  profileRepo,
		store:        store,
	}
}

// Feed returns all materials newest-first with authors and counts.
func (s *MaterialService) Feed(ctx context.Context) ([]models.FeedItem, error) {
	return s.materialRepo.ListFeed(ctx)
}

// Detail assembles the material detail page. The fixed set of reads
// runs concurrently and joins all-or-nothing; viewerID may be empty
// for anonymous visitors.
func (s *MaterialService) Detail(ctx context.Context, id, viewerID string) (*models.MaterialDetail, error) {
	var detail models.MaterialDetail

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		material, author, err := s.materialRepo.GetWithAuthor(ctx, id)
		if err != nil {
			return err
		}
		detail.Material = *material
		detail.Author = *author
		return nil
	})
	g.Go(func() error {
		comments, err := s.commentRepo.ListByMaterial(ctx, id)
		if err != nil {
			return err
		}
		detail.Comments = comments
		return nil
	})
	g.Go(func() error {
		count, err := s.likeRepo.CountByMaterial(ctx, id)
		if err != nil {
			return err
		}
		detail.LikeCount = count
		return nil
	})
	if viewerID != "" {
		g.Go(func() error {
			liked, err := s.likeRepo.Exists(ctx, viewerID, id)
			if err != nil {
				return err
			}
			detail.Liked = liked
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &detail, nil
}

// ProfilePage assembles a user's own profile page.
func (s *MaterialService) ProfilePage(ctx context.Context, userID string) (*models.ProfilePage, error) {
	var page models.ProfilePage

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := s.profileRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		page.Profile = *profile
		return nil
	})
	g.Go(func() error {
		materials, err := s.materialRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		page.Materials = materials
		return nil
	})
	g.Go(func() error {
		count, err := s.followRepo.CountFollowers(ctx, userID)
		if err != nil {
			return err
		}
		page.FollowerCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.followRepo.CountFollowing(ctx, userID)
		if err != nil {
			return err
		}
		page.FollowingCount = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &page, nil
}

// UploadInput carries the validated upload form fields.
type UploadInput struct {
	Title       string
	Description string
	Type        string
	Filename    string
	ContentType string
	File        io.Reader
}

// Upload stores the file blob under a fresh unique name, then inserts
// the material row referencing it. A stored blob is not deleted when
// the insert fails; the caller logs the orphaned key.
func (s *MaterialService) Upload(ctx context.Context, userID string, in UploadInput) (string, error) {
	key := uuid.New().String() + filepath.Ext(in.Filename)

	fileURL, err := s.store.Upload(ctx, key, in.ContentType, in.File)
	if err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	material := &models.Material{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		FileURL:     fileURL,
		Type:        in.Type,
		CreatedAt:   time.Now(),
	}
	if err := s.materialRepo.Create(ctx, material); err != nil {
		return "", fmt.Errorf("failed to create material (stored object %s): %w", key, err)
	}

	return material.ID, nil
}

// AddComment inserts one comment row.
func (s *MaterialService) AddComment(ctx context.Context, userID, materialID, content string) error {
	comment := &models.Comment{
		ID:         uuid.New().String(),
		UserID:     userID,
		MaterialID: materialID,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	return s.commentRepo.Create(ctx, comment)
}

// ToggleLike reads whether the like row exists, then deletes or inserts
// it. The read-then-write is not atomic; concurrent double-submission
// from one principal races, and a lost race surfaces as a constraint
// error on insert.
func (s *MaterialService) ToggleLike(ctx context.Context, userID, materialID string) (bool, error) {
	exists, err := s.likeRepo.Exists(ctx, userID, materialID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.likeRepo.Delete(ctx, userID, materialID); err != nil {
			return false, err
		}
		return false, nil
	}

	like := &models.Like{
		UserID:     userID,
		MaterialID: materialID,
		CreatedAt:  time.Now(),
	}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return false, err
	}
	return true, nil
}
