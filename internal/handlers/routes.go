package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/forum-api/internal/middleware"
)

// RegisterRoutes mounts the health check and the /api routes on r.
// Session and request scope middleware must already be installed.
func RegisterRoutes(r *gin.Engine, authHandler *AuthHandler, postHandler *PostHandler, voteHandler *VoteHandler) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Forum API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/change-password", authHandler.ChangePassword)
			auth.GET("/me", authHandler.Me)
		}

		// Post routes; reads are public, writes need a session
		posts := api.Group("/posts")
		{
			posts.GET("", postHandler.ListPosts)
			posts.GET("/:id", middleware.RequirePostID(), postHandler.GetPost)
			posts.POST("", middleware.RequireAuth(), postHandler.CreatePost)
			posts.PUT("/:id", middleware.RequireAuth(), middleware.RequirePostID(), postHandler.UpdatePost)
			posts.DELETE("/:id", middleware.RequireAuth(), middleware.RequirePostID(), postHandler.DeletePost)
			posts.POST("/:id/vote", middleware.RequireAuth(), middleware.RequirePostID(), voteHandler.Vote)
		}
	}
}
