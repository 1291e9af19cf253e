package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"guildhall/internal/cache"
	"guildhall/internal/config"
	"guildhall/internal/database"
	"guildhall/internal/middleware"
	"guildhall/internal/models"
	"guildhall/internal/repository"
	"guildhall/internal/rewards"
	"guildhall/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	categoryRepo    repository.CategoryRepository
	threadRepo      repository.ThreadRepository
	postRepo        repository.PostRepository
	reactionRepo    repository.ReactionRepository
	pollRepo        repository.PollRepository
	userRepo        repository.UserRepository
	rewardHook      rewards.Hook
	categoryService *service.CategoryService
	threadService   *service.ThreadService
	postService     *service.PostService
	reactionService *service.ReactionService
	pollService     *service.PollService
	statsService    *service.StatsService
	searchService   *service.SearchService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("guildhall-api"),
		categoryRepo:   repository.NewCategoryRepository(db),
		threadRepo:     repository.NewThreadRepository(db),
		postRepo:       repository.NewPostRepository(db),
		reactionRepo:   repository.NewReactionRepository(db),
		pollRepo:       repository.NewPollRepository(db),
		userRepo:       repository.NewUserRepository(db),
	}

	if redisClient != nil {
		server.rewardHook = rewards.NewRedisHook(redisClient, cfg.RewardChannel)
	} else {
		server.rewardHook = rewards.NopHook{}
	}

	server.categoryService = service.NewCategoryService(server.categoryRepo)
	server.threadService = service.NewThreadService(server.threadRepo, server.categoryRepo, server.postRepo, server.rewardHook)
	server.postService = service.NewPostService(server.postRepo, server.threadRepo, server.rewardHook)
	server.reactionService = service.NewReactionService(server.reactionRepo, server.postRepo)
	server.pollService = service.NewPollService(server.pollRepo, server.threadRepo)
	server.statsService = service.NewStatsService(server.categoryRepo, server.threadRepo, server.postRepo, server.reactionRepo, server.userRepo)
	server.searchService = service.NewSearchService(server.threadRepo, server.postRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context middleware propagates request ID, user ID and trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	forum := api.Group("/forum")

	// Public browse routes
	forum.Get("/categories", s.GetCategories)
	forum.Get("/categories/:slug", s.GetCategoryBySlug)
	forum.Get("/categories/:slug/threads", s.GetThreads)
	forum.Get("/threads/:slug", s.GetThreadBySlug)
	forum.Get("/threads/:id/posts", s.GetPosts)
	forum.Get("/threads/:id/poll", middleware.OptionalAuth, s.GetPoll)
	forum.Get("/posts/:id/replies", s.GetReplies)
	forum.Get("/posts/:id/reactions", s.GetReactions)
	forum.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "forum_search"), s.Search)
	forum.Get("/stats", s.GetForumStats)
	forum.Get("/stats/users/:id", s.GetUserStats)

	// Protected routes
	protected := forum.Group("", middleware.AuthRequired)

	protected.Post("/threads", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_thread"), s.CreateThread)
	protected.Put("/threads/:id", s.UpdateThread)
	protected.Delete("/threads/:id", s.DeleteThread)
	protected.Post("/threads/:id/posts", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_post"), s.CreatePost)
	protected.Post("/threads/:id/solution", s.MarkSolution)
	protected.Post("/threads/:id/poll", s.CreatePoll)
	protected.Post("/threads/:id/poll/vote", s.VotePoll)

	protected.Put("/posts/:id", s.UpdatePost)
	protected.Delete("/posts/:id", s.DeletePost)
	protected.Post("/posts/:id/reactions", s.ToggleReaction)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Post("/categories", s.CreateCategory)
	admin.Put("/categories/:id", s.UpdateCategory)
	admin.Delete("/categories/:id", s.DeactivateCategory)
	admin.Post("/threads/:id/pin", s.PinThread)
	admin.Post("/threads/:id/lock", s.LockThread)
	admin.Post("/posts/:id/hide", s.HidePost)
	admin.Post("/posts/:id/unhide", s.UnhidePost)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. The database is required;
// Redis is reported but optional since the engine degrades without it.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin actors with 403.
// Must be placed after AuthRequired so the actor is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)
		if !actor.IsAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewPermissionDeniedError("Admin access required"))
		}
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Guildhall Forum API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
