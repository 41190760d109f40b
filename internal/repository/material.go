package repository

import (
	"context"
	"errors"
	"fmt"

	"studyshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaterialRepository handles database operations for materials
type MaterialRepository struct {
	db *pgxpool.Pool
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// Create creates a new material
func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) error {
	query := `
		INSERT INTO materials (id, user_id, title, description, file_url, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err := r.db.Exec(ctx, query,
		material.ID, material.UserID, material.Title, material.Description,
		material.FileURL, material.Type, material.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

// GetWithAuthor retrieves a material by ID together with its author's profile
func (r *MaterialRepository) GetWithAuthor(ctx context.Context, id string) (*models.Material, *models.Profile, error) {
	query := `
		SELECT m.id, m.user_id, m.title, COALESCE(m.description, ''), m.file_url, m.type,
		       m.created_at, m.updated_at,
		       p.id, COALESCE(p.name, ''), COALESCE(p.avatar_url, ''), p.created_at, p.updated_at
		FROM materials m
		JOIN profiles p ON p.id = m.user_id
		WHERE m.id = $1
	`
	var material models.Material
	var author models.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&material.ID, &material.UserID, &material.Title, &material.Description,
		&material.FileURL, &material.Type, &material.CreatedAt, &material.UpdatedAt,
		&author.ID, &author.Name, &author.AvatarURL, &author.CreatedAt, &author.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("material %s: %w", id, models.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to get material: %w", err)
	}
	return &material, &author, nil
}

const feedSelect = `
	SELECT m.id, m.user_id, m.title, COALESCE(m.description, ''), m.file_url, m.type,
	       m.created_at, m.updated_at,
	       COALESCE(p.name, ''), COALESCE(p.avatar_url, ''),
	       (SELECT COUNT(*) FROM likes l WHERE l.material_id = m.id),
	       (SELECT COUNT(*) FROM comments c WHERE c.material_id = m.id)
	FROM materials m
	JOIN profiles p ON p.id = m.user_id
`

// ListFeed retrieves all materials newest-first with author and counts
func (r *MaterialRepository) ListFeed(ctx context.Context) ([]models.FeedItem, error) {
	rows, err := r.db.Query(ctx, feedSelect+` ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	return scanFeedItems(rows)
}

// ListByUser retrieves one user's materials newest-first with counts
func (r *MaterialRepository) ListByUser(ctx context.Context, userID string) ([]models.FeedItem, error) {
	rows, err := r.db.Query(ctx, feedSelect+` WHERE m.user_id = $1 ORDER BY m.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user materials: %w", err)
	}
	defer rows.Close()

	return scanFeedItems(rows)
}

func scanFeedItems(rows pgx.Rows) ([]models.FeedItem, error) {
	var items []models.FeedItem
	for rows.Next() {
		var item models.FeedItem
		err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Description,
			&item.FileURL, &item.Type, &item.CreatedAt, &item.UpdatedAt,
			&item.AuthorName, &item.AuthorAvatarURL,
			&item.LikeCount, &item.CommentCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating materials: %w", err)
	}

	return items, nil
}
