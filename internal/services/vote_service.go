package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/yukikurage/forum-api/internal/constants"
	"github.com/yukikurage/forum-api/internal/models"
	"github.com/yukikurage/forum-api/internal/repository"
)

// VoteService applies votes to posts
type VoteService struct {
	voteRepo repository.VoteRepository
}

// NewVoteService creates a new VoteService
func NewVoteService(voteRepo repository.VoteRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo}
}

// VoteResult describes the post after a vote
type VoteResult struct {
	PostID uint64
	Value  int
	Delta  int
	Points int
}

// CastVote records the viewer's vote on a post.
// Repeating a vote in the same direction changes nothing; reversing it moves
// the post's points by twice the new value.
func (s *VoteService) CastVote(ctx context.Context, viewer Viewer, postID uint64, direction models.VoteDirection) (*VoteResult, error) {
	userID, err := RequireUser(viewer)
	if err != nil {
		return nil, err
	}

	value := direction.Value()

	var lastErr error
	for attempt := 1; attempt <= constants.MaxVoteAttempts; attempt++ {
		outcome, err := s.voteRepo.Apply(ctx, postID, userID, value)
		switch {
		case err == nil:
			return &VoteResult{
				PostID: postID,
				Value:  value,
				Delta:  outcome.Delta,
				Points: outcome.Points,
			}, nil
		case errors.Is(err, repository.ErrPostNotFound):
			return nil, ErrPostNotFound
		case errors.Is(err, repository.ErrVoteConflict):
			log.Printf("vote by user %d on post %d lost an insert race (attempt %d)", userID, postID, attempt)
			lastErr = err
		default:
			return nil, fmt.Errorf("failed to cast vote: %w", err)
		}
	}

	return nil, fmt.Errorf("failed to cast vote after %d attempts: %w", constants.MaxVoteAttempts, lastErr)
}
