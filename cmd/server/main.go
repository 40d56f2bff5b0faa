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

	"peer_tutoring/internal/config"
	"peer_tutoring/internal/handler"
	"peer_tutoring/internal/middleware"
	"peer_tutoring/internal/repository"
	"peer_tutoring/internal/service"
	"peer_tutoring/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level)

	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	repos := repository.NewRepositories(dbPool, rdb, appLogger)
	services := service.NewServices(repos, cfg, appLogger)

	authMiddleware := middleware.NewAuthMiddleware(services.Auth, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	handlers := handler.NewHandlers(services, cfg, appLogger)

	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg, appLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Check)

	// Root-level routes kept for existing clients; the same operations are
	// mounted under /api/v1 below.
	rootAuth := router.Group("")
	rootAuth.Use(authMiddleware.RequireAuth())
	{
		registerTutoringRoutes(rootAuth, handlers)
		registerChatRoutes(rootAuth, handlers)
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", rateLimitMiddleware.Limit(authRateLimit, authRateWindow), handlers.Auth.Signup)
			auth.POST("/signin", rateLimitMiddleware.Limit(authRateLimit, authRateWindow), handlers.Auth.Signin)
		}

		v1.GET("/subjects", handlers.Subject.List)
		v1.GET("/subjects/user/:userId", handlers.Subject.ListUserSubjects)
		v1.GET("/courses", handlers.Course.List)
		v1.GET("/reviews/course/:courseId", handlers.Review.ListByCourse)
		v1.GET("/profiles/:userId", handlers.Profile.Get)

		protected := v1.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			protected.PUT("/profiles/:userId", handlers.Profile.Update)
			protected.POST("/subjects/user/:userId", handlers.Subject.SetUserSubjects)
			protected.DELETE("/subjects/user/:userId", handlers.Subject.ClearUserSubjects)
			protected.POST("/reviews", handlers.Review.Submit)
			protected.DELETE("/reviews/:reviewId", handlers.Review.Delete)

			registerTutoringRoutes(protected, handlers)
			registerChatRoutes(protected, handlers)
		}
	}

	return router
}

func registerTutoringRoutes(g *gin.RouterGroup, handlers *handler.Handlers) {
	g.POST("/tutoring-requests", handlers.Tutoring.Create)
	g.GET("/tutoring-requests/user/:userId", handlers.Tutoring.ListByUser)
	g.PATCH("/tutoring-requests/:id", handlers.Tutoring.UpdateStatus)
}

func registerChatRoutes(g *gin.RouterGroup, handlers *handler.Handlers) {
	g.POST("/chat/rooms", handlers.Chat.CreateRoom)
	g.GET("/chat/rooms", handlers.Chat.ListRooms)
	g.GET("/chat/rooms/:roomId/messages", handlers.Chat.GetMessages)
	g.POST("/chat/rooms/:roomId/messages", handlers.Chat.SendMessage)
	g.PATCH("/chat/rooms/:roomId/read", handlers.Chat.MarkRead)
}
