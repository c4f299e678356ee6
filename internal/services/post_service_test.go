package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	apierrors "github.com/yukikurage/forum-api/internal/errors"
	"github.com/yukikurage/forum-api/internal/loader"
	"github.com/yukikurage/forum-api/internal/models"
	"gorm.io/gorm"
)

type PostServiceTestSuite struct {
	suite.Suite
	f      *fixture
	ctx    context.Context
	author *models.User
	reader *models.User
}

func (s *PostServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.ctx = context.Background()
	s.author = s.f.createUser(s.T(), "author01")
	s.reader = s.f.createUser(s.T(), "reader01")
}

// seedPosts creates n posts one minute apart; the last one is the newest.
func (s *PostServiceTestSuite) seedPosts(n int) []models.Post {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{
			Title:     fmt.Sprintf("post %d", i),
			Text:      fmt.Sprintf("text %d", i),
			CreatorID: s.author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		s.Require().NoError(s.f.posts.Create(s.ctx, &posts[i]))
	}
	return posts
}

func (s *PostServiceTestSuite) TestListPosts_CursorPagination() {
	s.seedPosts(3)

	page, err := s.f.feed.ListPosts(s.ctx, Viewer{}, nil, 2, "")
	s.Require().NoError(err)
	s.Require().Len(page.Posts, 2)
	s.True(page.HasMore)
	s.Equal("post 2", page.Posts[0].Post.Title)
	s.Equal("post 1", page.Posts[1].Post.Title)
	s.NotEmpty(page.NextCursor)

	next, err := s.f.feed.ListPosts(s.ctx, Viewer{}, nil, 2, page.NextCursor)
	s.Require().NoError(err)
	s.Require().Len(next.Posts, 1)
	s.False(next.HasMore)
	s.Equal("post 0", next.Posts[0].Post.Title)
}

func (s *PostServiceTestSuite) TestListPosts_SameTimestampTieBreak() {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		post := models.Post{Title: fmt.Sprintf("tie %d", i), Text: "x", CreatorID: s.author.ID, CreatedAt: at}
		s.Require().NoError(s.f.posts.Create(s.ctx, &post))
	}

	seen := map[uint64]bool{}
	cursor := ""
	for {
		page, err := s.f.feed.ListPosts(s.ctx, Viewer{}, nil, 1, cursor)
		s.Require().NoError(err)
		for _, v := range page.Posts {
			s.False(seen[v.Post.ID], "post %d returned twice", v.Post.ID)
			seen[v.Post.ID] = true
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}
	s.Len(seen, 4)
}

func (s *PostServiceTestSuite) TestListPosts_LimitIsClamped() {
	s.seedPosts(55)

	page, err := s.f.feed.ListPosts(s.ctx, Viewer{}, nil, 500, "")
	s.Require().NoError(err)
	s.Len(page.Posts, 50)
	s.True(page.HasMore)

	page, err = s.f.feed.ListPosts(s.ctx, Viewer{}, nil, 0, "")
	s.Require().NoError(err)
	s.Len(page.Posts, 10)
}

func (s *PostServiceTestSuite) TestListPosts_InvalidCursor() {
	_, err := s.f.feed.ListPosts(s.ctx, Viewer{}, nil, 10, "%%%")

	var verr *apierrors.ValidationError
	s.Require().True(errors.As(err, &verr))
	s.Equal("cursor", verr.Fields[0].Field)
}

func (s *PostServiceTestSuite) TestListPosts_ResolvesCreatorAndVoteStatus() {
	posts := s.seedPosts(3)

	_, err := s.f.voting.CastVote(s.ctx, Viewer{UserID: s.reader.ID}, posts[2].ID, models.VoteUp)
	s.Require().NoError(err)
	_, err = s.f.voting.CastVote(s.ctx, Viewer{UserID: s.reader.ID}, posts[1].ID, models.VoteDown)
	s.Require().NoError(err)

	page, err := s.f.feed.ListPosts(s.ctx, Viewer{UserID: s.reader.ID}, nil, 10, "")
	s.Require().NoError(err)
	s.Require().Len(page.Posts, 3)

	for _, v := range page.Posts {
		s.Require().NotNil(v.Creator)
		s.Equal("author01", v.Creator.Username)
	}
	s.Require().NotNil(page.Posts[0].VoteStatus)
	s.Equal(1, *page.Posts[0].VoteStatus)
	s.Require().NotNil(page.Posts[1].VoteStatus)
	s.Equal(-1, *page.Posts[1].VoteStatus)
	s.Nil(page.Posts[2].VoteStatus)

	anon, err := s.f.feed.ListPosts(s.ctx, Viewer{}, nil, 10, "")
	s.Require().NoError(err)
	for _, v := range anon.Posts {
		s.Nil(v.VoteStatus)
	}
}

func (s *PostServiceTestSuite) TestListPosts_BatchesSecondaryLookups() {
	other := s.f.createUser(s.T(), "author02")
	s.seedPosts(6)
	for i := 0; i < 4; i++ {
		_, err := s.f.feed.CreatePost(s.ctx, Viewer{UserID: other.ID}, nil, PostInput{Title: fmt.Sprintf("other %d", i), Text: "x"})
		s.Require().NoError(err)
	}

	var queries int64
	s.Require().NoError(s.f.db.Callback().Query().After("gorm:query").Register("test:count_queries", func(*gorm.DB) {
		atomic.AddInt64(&queries, 1)
	}))

	loaders := loader.NewLoaders(s.f.users, s.f.votes)
	page, err := s.f.feed.ListPosts(s.ctx, Viewer{UserID: s.reader.ID}, loaders, 10, "")
	s.Require().NoError(err)
	s.Len(page.Posts, 10)

	// posts, users IN (...), votes IN (...)
	s.EqualValues(3, atomic.LoadInt64(&queries))

	// The same loaders serve repeated reads from their cache
	_, err = s.f.feed.ListPosts(s.ctx, Viewer{UserID: s.reader.ID}, loaders, 10, "")
	s.Require().NoError(err)
	s.EqualValues(4, atomic.LoadInt64(&queries))
}

func (s *PostServiceTestSuite) TestGetPost() {
	created, err := s.f.feed.CreatePost(s.ctx, Viewer{UserID: s.author.ID}, nil, PostInput{
		Title: "Markdown",
		Text:  "hello **world** " + strings.Repeat("z", 120),
	})
	s.Require().NoError(err)

	view, err := s.f.feed.GetPost(s.ctx, Viewer{}, nil, created.Post.ID)
	s.Require().NoError(err)
	s.Equal("author01", view.Creator.Username)
	s.Contains(view.TextHTML, "<strong>world</strong>")
	s.Len([]rune(view.TextSnippet), 100)
	s.Nil(view.VoteStatus)

	_, err = s.f.feed.GetPost(s.ctx, Viewer{}, nil, 424242)
	s.ErrorIs(err, ErrPostNotFound)
}

func (s *PostServiceTestSuite) TestCreatePost_RequiresAuthAndValidInput() {
	_, err := s.f.feed.CreatePost(s.ctx, Viewer{}, nil, PostInput{Title: "t", Text: "x"})
	s.ErrorIs(err, ErrUnauthorized)

	_, err = s.f.feed.CreatePost(s.ctx, Viewer{UserID: s.author.ID}, nil, PostInput{Title: "   ", Text: "x"})
	var verr *apierrors.ValidationError
	s.Require().True(errors.As(err, &verr))
	s.Equal("title", verr.Fields[0].Field)

	var count int64
	s.Require().NoError(s.f.db.Model(&models.Post{}).Count(&count).Error)
	s.Zero(count)
}

func (s *PostServiceTestSuite) TestUpdatePost() {
	post := s.f.createPost(s.T(), s.author, "before")

	_, err := s.f.feed.UpdatePost(s.ctx, Viewer{}, nil, post.ID, PostInput{Title: "x", Text: "y"})
	s.ErrorIs(err, ErrUnauthorized)

	_, err = s.f.feed.UpdatePost(s.ctx, Viewer{UserID: s.reader.ID}, nil, post.ID, PostInput{Title: "x", Text: "y"})
	s.ErrorIs(err, ErrNotPostCreator)

	_, err = s.f.feed.UpdatePost(s.ctx, Viewer{UserID: s.author.ID}, nil, 424242, PostInput{Title: "x", Text: "y"})
	s.ErrorIs(err, ErrPostNotFound)

	view, err := s.f.feed.UpdatePost(s.ctx, Viewer{UserID: s.author.ID}, nil, post.ID, PostInput{Title: "after", Text: "new body"})
	s.Require().NoError(err)
	s.Equal("after", view.Post.Title)
	s.Equal("new body", view.Post.Text)
	s.Equal(post.CreatorID, view.Post.CreatorID)
}

func (s *PostServiceTestSuite) TestDeletePost_CascadesVotes() {
	post := s.f.createPost(s.T(), s.author, "doomed")

	_, err := s.f.voting.CastVote(s.ctx, Viewer{UserID: s.reader.ID}, post.ID, models.VoteUp)
	s.Require().NoError(err)

	s.ErrorIs(s.f.feed.DeletePost(s.ctx, Viewer{UserID: s.reader.ID}, post.ID), ErrNotPostCreator)
	s.Require().NoError(s.f.feed.DeletePost(s.ctx, Viewer{UserID: s.author.ID}, post.ID))

	var votes int64
	s.Require().NoError(s.f.db.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&votes).Error)
	s.Zero(votes)

	_, err = s.f.voting.CastVote(s.ctx, Viewer{UserID: s.reader.ID}, post.ID, models.VoteDown)
	s.ErrorIs(err, ErrPostNotFound)

	s.ErrorIs(s.f.feed.DeletePost(s.ctx, Viewer{UserID: s.author.ID}, post.ID), ErrPostNotFound)
}

func TestPostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostServiceTestSuite))
}
