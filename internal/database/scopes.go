package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/forum-api/internal/utils"
)

// NewestFirst orders posts by creation time, breaking ties on id
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.created_at DESC").Order("posts.id DESC")
}

// OlderThan restricts posts to those strictly after the cursor in feed order.
// A nil cursor leaves the query unchanged.
func OlderThan(cursor *utils.Cursor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if cursor == nil {
			return db
		}
		return db.Where(
			"posts.created_at < ? OR (posts.created_at = ? AND posts.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
}
