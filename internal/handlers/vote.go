package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/forum-api/internal/dto"
	apierrors "github.com/yukikurage/forum-api/internal/errors"
	"github.com/yukikurage/forum-api/internal/middleware"
	"github.com/yukikurage/forum-api/internal/models"
	"github.com/yukikurage/forum-api/internal/repository"
	"github.com/yukikurage/forum-api/internal/services"
)

// VoteHandler handles vote HTTP requests
type VoteHandler struct {
	voteService *services.VoteService
}

// NewVoteHandler creates a new VoteHandler
func NewVoteHandler(voteService *services.VoteService) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
	}
}

// Vote casts the session user's vote on a post. Any value other than -1 is an upvote.
func (h *VoteHandler) Vote(c *gin.Context) {
	type VoteRequest struct {
		Value *int `json:"value" binding:"required"`
	}

	postID, ok := middleware.GetPostID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid post ID")
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	viewer := middleware.GetViewer(c)

	result, err := h.voteService.CastVote(c.Request.Context(), viewer, postID, models.DirectionFromValue(*req.Value))
	if err != nil {
		respondError(c, err)
		return
	}

	if loaders := middleware.GetLoaders(c); loaders != nil {
		loaders.Votes.Clear(repository.VoteKey{PostID: postID, UserID: viewer.UserID})
	}

	c.JSON(http.StatusOK, dto.ToVoteResponse(result))
}
