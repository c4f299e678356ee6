package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/forum-api/internal/errors"
	"github.com/yukikurage/forum-api/internal/services"
)

// respondError maps service errors to API responses; anything unrecognized is a 500
func respondError(c *gin.Context, err error) {
	var verr *apierrors.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.Validation(c, verr)
	case errors.Is(err, services.ErrUnauthorized):
		apierrors.Unauthorized(c, "")
	case errors.Is(err, services.ErrPostNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotPostCreator):
		apierrors.Forbidden(c, err.Error())
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}
