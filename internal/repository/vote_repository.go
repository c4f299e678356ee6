package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/forum-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVoteRepository is a GORM implementation of VoteRepository
type GormVoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &GormVoteRepository{db: db}
}

// FindByKeys loads every existing vote among keys with a single query
func (r *GormVoteRepository) FindByKeys(ctx context.Context, keys []VoteKey) ([]models.Vote, error) {
	if len(keys) == 0 {
		return []models.Vote{}, nil
	}

	pairs := make([][]interface{}, len(keys))
	for i, k := range keys {
		pairs[i] = []interface{}{k.PostID, k.UserID}
	}

	var votes []models.Vote
	if err := r.db.WithContext(ctx).Where("(post_id, user_id) IN ?", pairs).Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

// Apply runs the vote state machine inside one transaction.
// The post row is locked first, so votes on the same post are serialized
// and points only ever move by a relative increment.
func (r *GormVoteRepository) Apply(ctx context.Context, postID, userID uint64, value int) (*VoteOutcome, error) {
	var outcome VoteOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "points").
			Where("id = ?", postID).
			Take(&post).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}

		var existing models.Vote
		err = tx.Where("user_id = ? AND post_id = ?", userID, postID).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{UserID: userID, PostID: postID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				if isDuplicateKey(err) {
					return ErrVoteConflict
				}
				return err
			}
			outcome.Delta = value
		case err != nil:
			return err
		case existing.Value == value:
			outcome.Points = post.Points
			return nil
		default:
			err := tx.Model(&models.Vote{}).
				Where("user_id = ? AND post_id = ?", userID, postID).
				Update("value", value).Error
			if err != nil {
				return err
			}
			outcome.Delta = 2 * value
		}

		err = tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("points", gorm.Expr("points + ?", outcome.Delta)).Error
		if err != nil {
			return err
		}
		outcome.Points = post.Points + outcome.Delta
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &outcome, nil
}

// SumForPost returns the sum of all vote values on a post
func (r *GormVoteRepository) SumForPost(ctx context.Context, postID uint64) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("COALESCE(SUM(value), 0)").
		Where("post_id = ?", postID).
		Scan(&sum).Error
	return sum, err
}
