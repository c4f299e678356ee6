package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/forum-api/internal/constants"
	apierrors "github.com/yukikurage/forum-api/internal/errors"
	"github.com/yukikurage/forum-api/internal/loader"
	"github.com/yukikurage/forum-api/internal/models"
	"github.com/yukikurage/forum-api/internal/repository"
	"github.com/yukikurage/forum-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrNotPostCreator = errors.New("only the post creator can perform this action")
)

// PostService handles the post feed and post CRUD
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	voteRepo repository.VoteRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, voteRepo repository.VoteRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		voteRepo: voteRepo,
	}
}

// PostInput represents the editable fields of a post
type PostInput struct {
	Title string
	Text  string
}

// PostView is a post with the fields resolved for a particular viewer
type PostView struct {
	Post    *models.Post
	Creator *models.User
	// VoteStatus is the viewer's vote value, nil when anonymous or not voted
	VoteStatus  *int
	TextSnippet string
	// TextHTML is only rendered for single-post reads
	TextHTML string
}

// PostPage is one page of the feed
type PostPage struct {
	Posts      []PostView
	HasMore    bool
	NextCursor string
}

// ListPosts returns one page of posts, newest first.
// loaders may be nil, in which case a private set is used for this call.
func (s *PostService) ListPosts(ctx context.Context, viewer Viewer, loaders *loader.Loaders, limit int, cursor string) (*PostPage, error) {
	limit = utils.ClampPageSize(limit)

	var before *utils.Cursor
	if cursor != "" {
		decoded, err := utils.DecodeCursor(cursor)
		if err != nil {
			return nil, apierrors.NewValidationError("cursor", "invalid cursor")
		}
		before = &decoded
	}

	posts, err := s.postRepo.List(ctx, repository.PostFilter{Limit: limit + 1, Before: before})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	views, err := s.resolve(ctx, viewer, loaders, posts)
	if err != nil {
		return nil, err
	}

	page := &PostPage{Posts: views, HasMore: hasMore}
	if len(posts) > 0 {
		last := posts[len(posts)-1]
		page.NextCursor = utils.EncodeCursor(utils.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

// GetPost returns a single post with its rendered body
func (s *PostService) GetPost(ctx context.Context, viewer Viewer, loaders *loader.Loaders, id uint64) (*PostView, error) {
	post, err := s.postRepo.FindByID(ctx, id, "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	loaders = s.ensureLoaders(loaders)
	if post.Creator.ID != 0 {
		creator := post.Creator
		loaders.Users.Prime(creator.ID, &creator)
	}

	view, err := s.view(ctx, viewer, loaders, post)
	if err != nil {
		return nil, err
	}
	view.TextHTML = utils.RenderMarkdown(post.Text)
	return view, nil
}

// CreatePost creates a post owned by the viewer
func (s *PostService) CreatePost(ctx context.Context, viewer Viewer, loaders *loader.Loaders, input PostInput) (*PostView, error) {
	userID, err := RequireUser(viewer)
	if err != nil {
		return nil, err
	}

	if err := validate(postRules, input); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     strings.TrimSpace(input.Title),
		Text:      input.Text,
		CreatorID: userID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return s.view(ctx, viewer, s.ensureLoaders(loaders), post)
}

// UpdatePost replaces the title and text of a post owned by the viewer
func (s *PostService) UpdatePost(ctx context.Context, viewer Viewer, loaders *loader.Loaders, id uint64, input PostInput) (*PostView, error) {
	post, err := s.ownedPost(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	if err := validate(postRules, input); err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Text = input.Text
	if err := s.postRepo.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return s.view(ctx, viewer, s.ensureLoaders(loaders), post)
}

// DeletePost deletes a post owned by the viewer along with its votes
func (s *PostService) DeletePost(ctx context.Context, viewer Viewer, id uint64) error {
	post, err := s.ownedPost(ctx, viewer, id)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, post.ID, post.CreatorID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (s *PostService) ownedPost(ctx context.Context, viewer Viewer, id uint64) (*models.Post, error) {
	userID, err := RequireUser(viewer)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	if post.CreatorID != userID {
		return nil, ErrNotPostCreator
	}
	return post, nil
}

func (s *PostService) ensureLoaders(loaders *loader.Loaders) *loader.Loaders {
	if loaders == nil {
		return loader.NewLoaders(s.userRepo, s.voteRepo)
	}
	return loaders
}

func (s *PostService) view(ctx context.Context, viewer Viewer, loaders *loader.Loaders, post *models.Post) (*PostView, error) {
	views, err := s.resolve(ctx, viewer, loaders, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// resolve queues every creator and vote lookup before reading any of them,
// so a page costs one users batch and one votes batch.
func (s *PostService) resolve(ctx context.Context, viewer Viewer, loaders *loader.Loaders, posts []models.Post) ([]PostView, error) {
	loaders = s.ensureLoaders(loaders)

	creators := make([]loader.Thunk[*models.User], len(posts))
	votes := make([]loader.Thunk[*models.Vote], len(posts))
	for i := range posts {
		creators[i] = loaders.Users.Load(ctx, posts[i].CreatorID)
		if viewer.IsAuthenticated() {
			votes[i] = loaders.Votes.Load(ctx, repository.VoteKey{PostID: posts[i].ID, UserID: viewer.UserID})
		}
	}

	views := make([]PostView, len(posts))
	for i := range posts {
		creator, err := creators[i]()
		if err != nil {
			return nil, fmt.Errorf("failed to load post creator: %w", err)
		}

		var voteStatus *int
		if votes[i] != nil {
			vote, err := votes[i]()
			if err != nil {
				return nil, fmt.Errorf("failed to load vote status: %w", err)
			}
			if vote != nil {
				value := vote.Value
				voteStatus = &value
			}
		}

		post := posts[i]
		views[i] = PostView{
			Post:        &post,
			Creator:     creator,
			VoteStatus:  voteStatus,
			TextSnippet: utils.Snippet(post.Text, constants.TextSnippetLength),
		}
	}
	return views, nil
}
