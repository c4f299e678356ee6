package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/forum-api/internal/dto"
	apierrors "github.com/yukikurage/forum-api/internal/errors"
	"github.com/yukikurage/forum-api/internal/middleware"
	"github.com/yukikurage/forum-api/internal/services"
	"github.com/yukikurage/forum-api/internal/utils"
)

// PostHandler handles post HTTP requests
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

type postRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ListPosts returns one page of the feed
func (h *PostHandler) ListPosts(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	viewer := middleware.GetViewer(c)

	page, err := h.postService.ListPosts(c.Request.Context(), viewer, middleware.GetLoaders(c), params.Limit, params.Cursor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostListResponse(page, viewer.UserID))
}

// GetPost returns a single post
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, ok := middleware.GetPostID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid post ID")
		return
	}
	viewer := middleware.GetViewer(c)

	view, err := h.postService.GetPost(c.Request.Context(), viewer, middleware.GetLoaders(c), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostDTO(*view, viewer.UserID))
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	viewer := middleware.GetViewer(c)

	view, err := h.postService.CreatePost(c.Request.Context(), viewer, middleware.GetLoaders(c), services.PostInput{
		Title: req.Title,
		Text:  req.Text,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPostDTO(*view, viewer.UserID))
}

// UpdatePost replaces a post's title and text
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, ok := middleware.GetPostID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid post ID")
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	viewer := middleware.GetViewer(c)

	view, err := h.postService.UpdatePost(c.Request.Context(), viewer, middleware.GetLoaders(c), postID, services.PostInput{
		Title: req.Title,
		Text:  req.Text,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostDTO(*view, viewer.UserID))
}

// DeletePost deletes a post and its votes
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := middleware.GetPostID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid post ID")
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), middleware.GetViewer(c), postID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
	})
}
