package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/forum-api/internal/constants"
)

// PaginationParams holds the cursor pagination parameters of a feed request
type PaginationParams struct {
	Limit  int
	Cursor string
}

// GetPaginationParams extracts pagination parameters from the request.
// Out-of-range limits are clamped later by the feed service.
func GetPaginationParams(c *gin.Context) PaginationParams {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Limit:  limit,
		Cursor: c.Query("cursor"),
	}
}

// ClampPageSize bounds a requested page size to [MinPageSize, MaxPageSize].
// Non-positive sizes fall back to DefaultPageSize.
func ClampPageSize(limit int) int {
	if limit < constants.MinPageSize {
		return constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		return constants.MaxPageSize
	}
	return limit
}
