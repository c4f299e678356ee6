package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/forum-api/internal/config"
	"github.com/yukikurage/forum-api/internal/constants"
	"github.com/yukikurage/forum-api/internal/database"
	"github.com/yukikurage/forum-api/internal/handlers"
	"github.com/yukikurage/forum-api/internal/mailer"
	"github.com/yukikurage/forum-api/internal/middleware"
	"github.com/yukikurage/forum-api/internal/repository"
	"github.com/yukikurage/forum-api/internal/services"
	"github.com/yukikurage/forum-api/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := database.GetDB()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		cfg.RedisPoolSize,
		"tcp",
		redisAddr,
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((constants.SessionMaxAgeHours * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	// Reset tokens live in Redis; fall back to process memory when it is unreachable
	var tokens store.TokenStore
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisClient, err := store.NewRedisClient(ctx, redisAddr, cfg.RedisPassword, cfg.RedisPoolSize)
	cancel()
	if err != nil {
		log.Printf("Redis token store unavailable, using in-memory tokens: %v", err)
		memTokens, err := store.NewMemoryTokenStore(10000)
		if err != nil {
			log.Fatalf("Failed to create token store: %v", err)
		}
		tokens = memTokens
	} else {
		defer redisClient.Close()
		tokens = store.NewRedisTokenStore(redisClient)
	}

	sender, err := mailer.New(cfg)
	if err != nil {
		log.Fatalf("Failed to configure mailer: %v", err)
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	authService := services.NewAuthService(userRepo, tokens, sender, services.NewBcryptHasher(), services.ResetOptions{
		FrontendURL: cfg.FrontendURL,
		TokenTTL:    cfg.ResetTokenTTL,
	})
	postService := services.NewPostService(postRepo, userRepo, voteRepo)
	voteService := services.NewVoteService(voteRepo)

	// Viewer and loaders are created fresh for every request
	r.Use(middleware.RequestScope(userRepo, voteRepo))

	handlers.RegisterRoutes(r,
		handlers.NewAuthHandler(authService),
		handlers.NewPostHandler(postService),
		handlers.NewVoteHandler(voteService),
	)

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
