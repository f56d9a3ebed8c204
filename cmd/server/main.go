package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liamwears/moviehub/internal/config"
	"github.com/liamwears/moviehub/internal/crawler"
	"github.com/liamwears/moviehub/internal/database"
	"github.com/liamwears/moviehub/internal/handlers"
	"github.com/liamwears/moviehub/internal/middleware"
	"github.com/liamwears/moviehub/internal/services"
)

func main() {
	// Check for migrate command
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrations()
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := log.New(os.Stdout, "[moviehub] ", log.LstdFlags|log.Lshortfile)
	logger.Printf("Starting MovieHub server in %s mode", cfg.Server.Env)

	// Initialize database connection
	db, err := database.New(database.Config{
		URL: cfg.Database.URL,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis connection
	redisClient, err := database.NewRedisClient(database.RedisConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       0,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize hot-list cache
	hotCache := database.NewCache(redisClient, 5*time.Minute)

	// Initialize services
	movieService := services.NewMovieService(db.Pool, hotCache, logger)
	ratingService := services.NewRatingService(db.Pool)
	wishlistService := services.NewWishlistService(db.Pool)
	userService := services.NewUserService(db.Pool, cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHrs)*time.Hour)
	tmdbService := services.NewTMDBService(services.TMDBConfig{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Language:     cfg.TMDB.Language,
		Region:       cfg.TMDB.Region,
	})

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)

	// Initialize rate limiter (100 req/min in production, unlimited in local/dev)
	maxRequests := 1000 // High limit for local/dev
	if cfg.IsProduction() {
		maxRequests = 100
	}
	rateLimiter := middleware.NewRateLimiter(redisClient.Client, maxRequests, time.Minute, cfg.IsProduction())

	// Initialize handlers
	movieHandler := handlers.NewMovieHandler(movieService, logger)
	ratingHandler := handlers.NewRatingHandler(ratingService, logger)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	adminHandler := handlers.NewAdminHandler(movieService, userService, logger)

	// Set up HTTP router
	mux := http.NewServeMux()

	limited := func(h http.HandlerFunc) http.Handler {
		return rateLimiter.Limit(h)
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return rateLimiter.Limit(authMiddleware.RequireAuth(h))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return rateLimiter.Limit(authMiddleware.RequireAdmin(h))
	}

	// Public catalog routes
	mux.Handle("GET /movies", limited(movieHandler.List))
	mux.Handle("GET /movies/{id}", limited(movieHandler.Detail))
	mux.Handle("GET /movies/genres/list", limited(movieHandler.Genres))
	mux.Handle("GET /movies/hot/list", limited(movieHandler.Hot))
	mux.Handle("GET /rates/movie/{movieId}", limited(ratingHandler.ListByMovie))

	// Account routes
	mux.Handle("POST /users/register", limited(userHandler.Register))
	mux.Handle("POST /users/login", limited(userHandler.Login))
	mux.Handle("GET /users/me", authed(userHandler.Me))
	mux.Handle("PUT /users/me", authed(userHandler.UpdateMe))

	// Rating and wishlist routes (authenticated)
	mux.Handle("POST /rates", authed(ratingHandler.Create))
	mux.Handle("DELETE /rates/{id}", authed(ratingHandler.Delete))
	mux.Handle("POST /wishlist", authed(wishlistHandler.Add))
	mux.Handle("DELETE /wishlist/{movieId}", authed(wishlistHandler.Remove))
	mux.Handle("GET /wishlist/check/{movieId}", authed(wishlistHandler.Check))
	mux.Handle("GET /wishlist", authed(wishlistHandler.List))

	// Admin routes
	mux.Handle("POST /admin/movies", admin(adminHandler.CreateMovie))
	mux.Handle("PUT /admin/movies/{id}", admin(adminHandler.UpdateMovie))
	mux.Handle("DELETE /admin/movies/{id}", admin(adminHandler.DeleteMovie))
	mux.Handle("POST /admin/genres", admin(adminHandler.CreateGenre))
	mux.Handle("GET /admin/users", admin(adminHandler.ListUsers))
	mux.Handle("GET /admin/stats", admin(adminHandler.Stats))

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		dbErr := db.Health(r.Context())
		redisErr := redisClient.Health(r.Context())

		if dbErr != nil || redisErr != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			dbStatus := "up"
			if dbErr != nil {
				dbStatus = "down"
			}
			redisStatus := "up"
			if redisErr != nil {
				redisStatus = "down"
			}
			fmt.Fprintf(w, `{"status":"unhealthy","database":"%s","redis":"%s"}`, dbStatus, redisStatus)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","database":"up","redis":"up"}`)
	})

	// Wrap with logging middleware
	handler := middleware.Logger(logger)(mux)

	// Start the daily ingestion job
	crawlerCtx, stopCrawler := context.WithCancel(context.Background())
	defer stopCrawler()
	if cfg.Crawler.Enabled {
		dailyCrawler := crawler.New(tmdbService, db.Pool, cfg.Crawler.DailyQuota, logger)
		go dailyCrawler.Schedule(crawlerCtx)
	}

	// Create HTTP server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down server...")
	stopCrawler()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exited")
}

// runMigrations runs database migrations
func runMigrations() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(database.Config{
		URL: cfg.Database.URL,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator := database.NewMigrator(db.Pool)

	if err := migrator.Up(context.Background()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")
}
