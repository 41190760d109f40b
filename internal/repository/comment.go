package repository

import (
	"context"
	"fmt"

	"studyshare/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, user_id, material_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`
	_, err := r.db.Exec(ctx, query,
		comment.ID, comment.UserID, comment.MaterialID, comment.Content, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListByMaterial retrieves a material's comments newest-first with authors
func (r *CommentRepository) ListByMaterial(ctx context.Context, materialID string) ([]models.CommentWithAuthor, error) {
	query := `
		SELECT c.id, c.user_id, c.material_id, c.content, c.created_at,
		       COALESCE(p.name, ''), COALESCE(p.avatar_url, '')
		FROM comments c
		JOIN profiles p ON p.id = c.user_id
		WHERE c.material_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.CommentWithAuthor
	for rows.Next() {
		var comment models.CommentWithAuthor
		err := rows.Scan(
			&comment.ID, &comment.UserID, &comment.MaterialID, &comment.Content,
			&comment.CreatedAt, &comment.AuthorName, &comment.AuthorAvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}
