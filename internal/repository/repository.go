package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/forum-api/internal/models"
	"github.com/yukikurage/forum-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateUser is returned when a username or email is already registered.
	ErrDuplicateUser = errors.New("user repository: username or email already exists")
	// ErrPostNotFound is returned when a post does not exist, or is not owned by the caller on scoped writes.
	ErrPostNotFound = errors.New("post repository: post not found")
	// ErrVoteConflict is returned when a concurrent insert claimed the (user, post) vote first.
	ErrVoteConflict = errors.New("vote repository: concurrent vote insert")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByIDs returns the users that exist among ids, in no particular order
	FindByIDs(ctx context.Context, ids []uint64) ([]models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdatePassword replaces the stored password hash
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error

	// Delete removes a user that owns no posts or votes
	Delete(ctx context.Context, id uint64) error
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	// Create creates a new post
	Create(ctx context.Context, post *models.Post) error

	// FindByID finds a post by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Post, error)

	// List returns up to filter.Limit posts, newest first
	List(ctx context.Context, filter PostFilter) ([]models.Post, error)

	// Update saves title and text of a post owned by post.CreatorID
	Update(ctx context.Context, post *models.Post) error

	// Delete deletes a post owned by creatorID together with its votes
	Delete(ctx context.Context, id, creatorID uint64) error
}

// PostFilter holds the options for listing posts
type PostFilter struct {
	Limit  int
	Before *utils.Cursor
}

// VoteRepository defines the interface for vote data access
type VoteRepository interface {
	// FindByKeys returns the votes that exist among keys, in no particular order
	FindByKeys(ctx context.Context, keys []VoteKey) ([]models.Vote, error)

	// Apply records value as userID's vote on postID and adjusts the post's points
	Apply(ctx context.Context, postID, userID uint64, value int) (*VoteOutcome, error)

	// SumForPost returns the sum of all vote values on a post
	SumForPost(ctx context.Context, postID uint64) (int, error)
}

// VoteKey identifies a single user's vote on a post
type VoteKey struct {
	PostID uint64
	UserID uint64
}

// VoteOutcome reports the effect of an applied vote
type VoteOutcome struct {
	// Delta is the change applied to the post's points (0 for a repeated vote)
	Delta int
	// Points is the post's score after the vote
	Points int
}

// isDuplicateKey relies on the connection being opened with TranslateError.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
