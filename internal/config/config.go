package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/forum-api/internal/constants"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DatabaseURL   string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisPoolSize int
	SessionSecret string
	GinMode       string
	Port          string

	// Mail delivery: "log", "smtp" or "sendgrid"
	MailProvider   string
	MailFrom       string
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPassword   string
	SendGridAPIKey string

	FrontendURL   string
	ResetTokenTTL time.Duration
}

// Load reads configuration from the environment, after applying a .env file if one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	return &Config{
		DBDriver:       getEnv("DB_DRIVER", "mysql"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "forumuser"),
		DBPassword:     getEnv("DB_PASSWORD", "forumpassword"),
		DBName:         getEnv("DB_NAME", "forum"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisPoolSize:  getEnvAsInt("REDIS_POOL_SIZE", 10),
		SessionSecret:  getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		Port:           getEnv("PORT", "8080"),
		MailProvider:   getEnv("MAIL_PROVIDER", "log"),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@forum.local"),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPassword:   getEnv("SMTP_PASS", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		ResetTokenTTL:  getEnvAsDuration("RESET_TOKEN_TTL", constants.DefaultResetTokenTTL),
	}
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
