package services

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/forum-api/internal/models"
	"github.com/yukikurage/forum-api/internal/repository"
	"github.com/yukikurage/forum-api/internal/store"
	"github.com/yukikurage/forum-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type sentMail struct {
	to      string
	subject string
	html    string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
}

func (r *recordingSender) Send(_ context.Context, to, subject, html string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{to: to, subject: subject, html: html})
	return nil
}

type fixture struct {
	db     *gorm.DB
	users  repository.UserRepository
	posts  repository.PostRepository
	votes  repository.VoteRepository
	tokens *store.MemoryTokenStore
	mail   *recordingSender
	auth   *AuthService
	feed   *PostService
	voting *VoteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	tokens, err := store.NewMemoryTokenStore(100)
	require.NoError(t, err)

	f := &fixture{
		db:     db,
		users:  repository.NewUserRepository(db),
		posts:  repository.NewPostRepository(db),
		votes:  repository.NewVoteRepository(db),
		tokens: tokens,
		mail:   &recordingSender{},
	}
	f.auth = NewAuthService(f.users, f.tokens, f.mail, &BcryptHasher{Cost: bcrypt.MinCost}, ResetOptions{FrontendURL: "http://forum.test"})
	f.feed = NewPostService(f.posts, f.users, f.votes)
	f.voting = NewVoteService(f.votes)
	return f
}

func (f *fixture) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) createPost(t *testing.T, creator *models.User, title string) *models.Post {
	t.Helper()
	view, err := f.feed.CreatePost(context.Background(), Viewer{UserID: creator.ID}, nil, PostInput{Title: title, Text: "text of " + title})
	require.NoError(t, err)
	return view.Post
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
