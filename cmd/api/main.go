// @title Quizcraft API
// @version 1.0
// @description Generates verified quiz questions from documents and grades free-text answers.
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizcraft/internal/adapter"
	"quizcraft/internal/adapter/embedding"
	"quizcraft/internal/adapter/textgen"
	"quizcraft/internal/cache"
	"quizcraft/internal/config"
	"quizcraft/internal/domain"
	"quizcraft/internal/handler"
	"quizcraft/internal/logger"
	"quizcraft/internal/middleware"
	"quizcraft/internal/service"
	"quizcraft/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
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
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Redis is optional; without it the OpenAI embedding adapter simply
	// runs uncached.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized", zap.String("address", cfg.Redis.Address))
	} else {
		appLogger.Warn("Redis address not configured, embedding cache disabled")
	}

	// Initialize Embedding Service
	var embeddingService domain.EmbeddingService
	switch cfg.Embedding.Source {
	case "ollama":
		appLogger.Info("Initializing Ollama Embedding Service",
			zap.String("server_url", cfg.Embedding.Ollama.ServerURL),
			zap.String("model", cfg.Embedding.Ollama.Model))
		embeddingService, err = embedding.NewOllamaEmbeddingService(cfg.Embedding.Ollama.ServerURL, cfg.Embedding.Ollama.Model)
		if err != nil {
			appLogger.Fatal("Failed to create Ollama Embedding Service", zap.Error(err))
		}
	case "openai":
		appLogger.Info("Initializing OpenAI Embedding Service", zap.String("model", cfg.Embedding.OpenAI.Model))
		embeddingService, err = embedding.NewOpenAIEmbeddingService(cfg.Embedding.OpenAI.APIKey, cfg.Embedding.OpenAI.Model, cacheAdapter, cfg)
		if err != nil {
			appLogger.Fatal("Failed to create OpenAI Embedding Service", zap.Error(err))
		}
	default:
		appLogger.Fatal(fmt.Sprintf("Unsupported embedding source: %s. Please check EMBEDDING_SOURCE in config.", cfg.Embedding.Source))
	}

	// Initialize the generative model client
	textGenerator, err := textgen.NewFromConfig(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM text generator", zap.Error(err))
	}
	appLogger.Info("LLM text generator initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.Float64("temperature", cfg.LLM.Temperature))

	// Initialize services
	chunker := service.NewChunker(embeddingService)
	verifier := service.NewVerifier(embeddingService, textGenerator, chunker, cfg.Verification)
	generationService := service.NewGenerationService(textGenerator, verifier, cfg.Verification.Concurrency)
	gradingService := service.NewGradingService(embeddingService, textGenerator, cfg.Grading.Concurrency)

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(generationService, gradingService, validation.NewValidator())
	healthHandler := handler.NewHealthHandler(cacheAdapter)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/healthz", healthHandler.Healthz)

	apiGroup := app.Group("/api")
	apiGroup.Post("/questions/generate", quizHandler.GenerateQuestions)
	apiGroup.Post("/answers/check", quizHandler.CheckAnswers)

	// Start server
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
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
