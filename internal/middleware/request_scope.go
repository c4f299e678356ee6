package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/forum-api/internal/constants"
	"github.com/yukikurage/forum-api/internal/loader"
	"github.com/yukikurage/forum-api/internal/repository"
	"github.com/yukikurage/forum-api/internal/services"
)

// RequestScope attaches the optional session viewer and a fresh set of
// loaders to every request. Loaders never outlive the request.
func RequestScope(userRepo repository.UserRepository, voteRepo repository.VoteRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var viewer services.Viewer
		if userID, ok := toUserID(sessions.Default(c).Get(constants.ContextKeyUserID)); ok {
			viewer.UserID = userID
		}

		c.Set(constants.ContextKeyViewer, viewer)
		c.Set(constants.ContextKeyLoaders, loader.NewLoaders(userRepo, voteRepo))
		c.Next()
	}
}

// GetViewer returns the request's viewer, falling back to the user ID set by RequireAuth
func GetViewer(c *gin.Context) services.Viewer {
	if v, exists := c.Get(constants.ContextKeyViewer); exists {
		if viewer, ok := v.(services.Viewer); ok && viewer.IsAuthenticated() {
			return viewer
		}
	}
	if userID, ok := GetUserID(c); ok {
		return services.Viewer{UserID: userID}
	}
	return services.Viewer{}
}

// GetLoaders returns the request's loaders, or nil outside RequestScope
func GetLoaders(c *gin.Context) *loader.Loaders {
	if l, exists := c.Get(constants.ContextKeyLoaders); exists {
		if loaders, ok := l.(*loader.Loaders); ok {
			return loaders
		}
	}
	return nil
}
