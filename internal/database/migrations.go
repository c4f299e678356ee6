package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds the indexes the feed and vote lookups depend on
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Feed ordering and cursor seek
		{"posts", "idx_posts_created_at_id", "created_at, id"},
		{"posts", "idx_posts_creator_id", "creator_id"},

		// Votes are keyed by (user_id, post_id); this covers per-post lookups
		{"votes", "idx_votes_post_id", "post_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
