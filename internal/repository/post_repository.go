package repository

import (
	"context"

	"github.com/yukikurage/forum-api/internal/database"
	"github.com/yukikurage/forum-api/internal/models"
	"gorm.io/gorm"
)

// GormPostRepository is a GORM implementation of PostRepository
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &GormPostRepository{db: db}
}

// Create creates a new post
func (r *GormPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Creator").Create(post).Error
}

// FindByID finds a post by ID with optional preloading
func (r *GormPostRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Post, error) {
	var post models.Post
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&post, id).Error; err != nil {
		return nil, err
	}

	return &post, nil
}

// List returns posts newest first, starting after filter.Before when set.
// Creators are not preloaded; callers resolve them in batches.
func (r *GormPostRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	var posts []models.Post

	err := r.db.WithContext(ctx).
		Scopes(database.OlderThan(filter.Before), database.NewestFirst).
		Limit(filter.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return posts, nil
}

// Update saves title and text, only when post.CreatorID still owns the post.
// On success post.UpdatedAt holds the stored timestamp.
func (r *GormPostRepository) Update(ctx context.Context, post *models.Post) error {
	now := r.db.NowFunc()
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND creator_id = ?", post.ID, post.CreatorID).
		Updates(map[string]interface{}{
			"title":      post.Title,
			"text":       post.Text,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	post.UpdatedAt = now
	return nil
}

// Delete removes the post and its votes in one transaction
func (r *GormPostRepository) Delete(ctx context.Context, id, creatorID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND creator_id = ?", id, creatorID).Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}

		return tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error
	})
}
