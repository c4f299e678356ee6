package loader

import (
	"context"

	"github.com/yukikurage/forum-api/internal/models"
	"github.com/yukikurage/forum-api/internal/repository"
)

// Loaders is the set of loaders shared by everything resolving one request.
type Loaders struct {
	Users *Loader[uint64, *models.User]
	Votes *Loader[repository.VoteKey, *models.Vote]
}

// NewLoaders creates a fresh, empty set of loaders.
func NewLoaders(userRepo repository.UserRepository, voteRepo repository.VoteRepository) *Loaders {
	return &Loaders{
		Users: New(usersBatch(userRepo)),
		Votes: New(votesBatch(voteRepo)),
	}
}

func usersBatch(userRepo repository.UserRepository) BatchFunc[uint64, *models.User] {
	return func(ctx context.Context, ids []uint64) ([]*models.User, error) {
		users, err := userRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}

		byID := make(map[uint64]*models.User, len(users))
		for i := range users {
			byID[users[i].ID] = &users[i]
		}

		out := make([]*models.User, len(ids))
		for i, id := range ids {
			out[i] = byID[id]
		}
		return out, nil
	}
}

func votesBatch(voteRepo repository.VoteRepository) BatchFunc[repository.VoteKey, *models.Vote] {
	return func(ctx context.Context, keys []repository.VoteKey) ([]*models.Vote, error) {
		votes, err := voteRepo.FindByKeys(ctx, keys)
		if err != nil {
			return nil, err
		}

		byKey := make(map[repository.VoteKey]*models.Vote, len(votes))
		for i := range votes {
			byKey[repository.VoteKey{PostID: votes[i].PostID, UserID: votes[i].UserID}] = &votes[i]
		}

		out := make([]*models.Vote, len(keys))
		for i, key := range keys {
			out[i] = byKey[key]
		}
		return out, nil
	}
}
