package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	TMDB     TMDBConfig
	Auth     AuthConfig
	Crawler  CrawlerConfig
}

type ServerConfig struct {
	Env  string
	Port string
	Host string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TLS      bool
}

type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	Region       string
}

type AuthConfig struct {
	JWTSecret   string
	TokenTTLHrs int
}

type CrawlerConfig struct {
	Enabled    bool
	DailyQuota int
}

// Load reads environment variables and returns a Config struct
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Env:  getEnv("APP_ENV", "local"),
			Port: getEnv("PORT", "3000"),
			Host: getEnv("HOST", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			TLS:      getEnv("REDIS_TLS", "false") == "true",
		},
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_KEY", ""),
			BaseURL:      getEnv("TMDB_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_URL", "https://image.tmdb.org/t/p/w500"),
			Language:     getEnv("TMDB_LANG", "en-US"),
			Region:       getEnv("TMDB_REGION", ""),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			TokenTTLHrs: getEnvInt("JWT_EXPIRE_HOURS", 168),
		},
		Crawler: CrawlerConfig{
			Enabled:    getEnv("CRAWLER_ENABLED", "true") == "true",
			DailyQuota: getEnvInt("CRAWLER_DAILY_QUOTA", 20),
		},
	}

	// Validate required fields
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.Auth.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if cfg.Crawler.Enabled && cfg.TMDB.APIKey == "" {
		return nil, fmt.Errorf("TMDB_KEY is required when the crawler is enabled")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// RedisAddr returns the Redis address in host:port format
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
