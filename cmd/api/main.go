// @title Wiki Quiz API
// @version 1.0
// @description Generates quizzes from Wikipedia articles using an LLM. Scrapes article content, creates MCQ questions, and stores results.
// @host localhost:8000
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	"wikiquiz/internal/adapter"
	"wikiquiz/internal/cache"
	"wikiquiz/internal/config"
	"wikiquiz/internal/database"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/handler"
	"wikiquiz/internal/llm"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/middleware"
	"wikiquiz/internal/repository"
	"wikiquiz/internal/scraper"
	"wikiquiz/internal/service"

	_ "wikiquiz/cmd/api/docs"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// Model client. Credential absence is checked once here and fails the
	// process before any network call.
	geminiClient, err := llm.NewGoogleAIClient(ctx, cfg.Gemini)
	if err != nil {
		appLogger.Fatal("Failed to create Gemini client", zap.Error(err))
	}
	appLogger.Info("Gemini client initialized", zap.String("model", cfg.Gemini.Model))
	pipeline := llm.NewPipeline(geminiClient)

	// Connect to database
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Postgres")

	quizRepository := repository.NewQuizDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	articleScraper := scraper.NewWikipediaScraper(cfg.Scraper)

	// Redis is optional; without it the service reads straight from the
	// store.
	var quizCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		appLogger.Info("Successfully connected to Redis")
		quizCache = adapter.NewRedisCacheAdapter(redisClient)
	} else {
		appLogger.Info("Redis not configured, quiz response cache disabled")
	}

	quizService := service.NewQuizService(
		quizRepository,
		txManager,
		articleScraper,
		pipeline,
		quizCache,
		cfg.Cache.QuizResponseTTL,
	)
	appLogger.Info("QuizService initialized")

	quizHandler := handler.NewQuizHandler(quizService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "Wiki Quiz API",
			"version": "1.0.0",
		})
	})

	apiGroup := app.Group("/api")
	quizHandler.RegisterRoutes(apiGroup)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
