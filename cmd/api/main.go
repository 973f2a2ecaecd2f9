package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizforge/internal/adapter"
	"quizforge/internal/adapter/grader"
	"quizforge/internal/adapter/quizgen"
	"quizforge/internal/cache"
	"quizforge/internal/config"
	"quizforge/internal/database"
	"quizforge/internal/events"
	"quizforge/internal/handler"
	"quizforge/internal/logger"
	"quizforge/internal/middleware"
	"quizforge/internal/repository"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	l := logger.Get()

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		l.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		l.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	llmClient, err := openai.New(
		openai.WithToken(cfg.LLM.APIKey),
		openai.WithModel(cfg.LLM.Model),
	)
	if err != nil {
		l.Fatal("failed to create llm client", zap.Error(err))
	}

	publisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	if err != nil {
		l.Fatal("failed to create event publisher", zap.Error(err))
	}
	defer publisher.Close()

	quizRepo := repository.NewQuizDatabaseAdapter(db)
	subRepo := repository.NewSubmissionDatabaseAdapter(db)
	userRepo := repository.NewUserRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	answerGrader := grader.NewLLMGrader(llmClient, cfg.LLM.GradingTimeout)
	quizGenerator := quizgen.NewLLMQuizGenerator(llmClient, cfg.LLM.GradingTimeout)

	quizService := service.NewQuizService(quizRepo, quizGenerator, txManager, cacheAdapter)
	submissionService := service.NewSubmissionService(quizRepo, subRepo, userRepo, answerGrader, txManager, publisher)
	analyticsService := service.NewAnalyticsService(quizRepo, subRepo)
	userService := service.NewUserService(userRepo, publisher)
	authService := service.NewAuthService(userRepo, cfg.JWT, cfg.GoogleOAuth)

	quizHandler := handler.NewQuizHandler(quizService, submissionService, analyticsService, cacheAdapter)
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := cacheAdapter.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	api.Post("/users", userHandler.Register)
	api.Get("/users/me", middleware.Protected(authService), userHandler.GetMe)

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Get("/google/login", authHandler.GoogleLogin)
	auth.Get("/google/callback", authHandler.GoogleCallback)

	quizzes := api.Group("/quizzes")
	quizzes.Post("/", middleware.Protected(authService), quizHandler.GenerateQuiz)
	quizzes.Get("/:id", quizHandler.GetQuiz)
	quizzes.Put("/:id", middleware.Protected(authService), quizHandler.UpdateQuiz)
	quizzes.Delete("/:id", middleware.Protected(authService), quizHandler.DeleteQuiz)
	quizzes.Post("/:id/submissions",
		middleware.OptionalAuth(authService),
		middleware.ResolveGuestIdentity(cacheAdapter),
		quizHandler.SubmitAnswers)
	quizzes.Get("/:id/report", middleware.Protected(authService), quizHandler.GetQuizReport)
	quizzes.Get("/:id/analytics", middleware.Protected(authService), quizHandler.GetQuizAnalytics)

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := app.Listen(addr); err != nil {
			l.Fatal("server stopped", zap.Error(err))
		}
	}()
	l.Info("server started", zap.Int("port", cfg.Server.Port))

	<-shutdownCtx.Done()
	l.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		l.Error("graceful shutdown failed", zap.Error(err))
	}
}
