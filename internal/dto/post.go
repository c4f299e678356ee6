package dto

import (
	"time"

	"github.com/yukikurage/forum-api/internal/services"
)

// PostDTO represents a post in API responses
type PostDTO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	TextSnippet string    `json:"text_snippet"`
	TextHTML    string    `json:"text_html,omitempty"`
	Points      int       `json:"points"`
	VoteStatus  *int      `json:"vote_status"`
	CreatorID   uint64    `json:"creator_id"`
	Creator     *UserDTO  `json:"creator,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostListResponse represents one page of the feed
type PostListResponse struct {
	Posts      []PostDTO `json:"posts"`
	HasMore    bool      `json:"has_more"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// VoteResponse reports a post's score after a vote
type VoteResponse struct {
	PostID uint64 `json:"post_id"`
	Value  int    `json:"value"`
	Points int    `json:"points"`
}

// ToPostDTO converts a resolved post view to PostDTO
func ToPostDTO(view services.PostView, viewerID uint64) PostDTO {
	post := view.Post
	dto := PostDTO{
		ID:          post.ID,
		Title:       post.Title,
		Text:        post.Text,
		TextSnippet: view.TextSnippet,
		TextHTML:    view.TextHTML,
		Points:      post.Points,
		VoteStatus:  view.VoteStatus,
		CreatorID:   post.CreatorID,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
	if view.Creator != nil {
		creator := ToUserDTO(*view.Creator, viewerID)
		dto.Creator = &creator
	}
	return dto
}

// ToPostListResponse converts a feed page to PostListResponse
func ToPostListResponse(page *services.PostPage, viewerID uint64) PostListResponse {
	posts := make([]PostDTO, len(page.Posts))
	for i, view := range page.Posts {
		posts[i] = ToPostDTO(view, viewerID)
	}
	return PostListResponse{
		Posts:      posts,
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	}
}

// ToVoteResponse converts a vote result to VoteResponse
func ToVoteResponse(result *services.VoteResult) VoteResponse {
	return VoteResponse{
		PostID: result.PostID,
		Value:  result.Value,
		Points: result.Points,
	}
}
