package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/forum-api/internal/constants"
	apierrors "github.com/yukikurage/forum-api/internal/errors"
)

// RequirePostID parses the :id path parameter and stores it in context
func RequirePostID() gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || postID == 0 {
			apierrors.BadRequest(c, "Invalid post ID")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyPostID, postID)
		c.Next()
	}
}

// GetPostID retrieves the post ID parsed by RequirePostID
func GetPostID(c *gin.Context) (uint64, bool) {
	postID, exists := c.Get(constants.ContextKeyPostID)
	if !exists {
		return 0, false
	}
	id, ok := postID.(uint64)
	return id, ok
}
