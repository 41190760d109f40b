package repository

import (
	"context"
	"fmt"

	"studyshare/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LikeRepository handles database operations for likes
type LikeRepository struct {
	db *pgxpool.Pool
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{db: db}
}

// Exists reports whether the user has liked the material
func (r *LikeRepository) Exists(ctx context.Context, userID, materialID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND material_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, materialID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return exists, nil
}

// Create creates a like row. The (user_id, material_id) primary key
// rejects duplicates.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `INSERT INTO likes (user_id, material_id, created_at) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, like.UserID, like.MaterialID, like.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Delete removes a like row
func (r *LikeRepository) Delete(ctx context.Context, userID, materialID string) error {
	query := `DELETE FROM likes WHERE user_id = $1 AND material_id = $2`
	_, err := r.db.Exec(ctx, query, userID, materialID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

// CountByMaterial returns the number of likes on a material
func (r *LikeRepository) CountByMaterial(ctx context.Context, materialID string) (int, error) {
	query := `SELECT COUNT(*) FROM likes WHERE material_id = $1`
	var count int
	err := r.db.QueryRow(ctx, query, materialID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}
