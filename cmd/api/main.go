// @title Interview Coach API
// @version 1.0
// @description Backend of the interview practice app: accounts, email verification, the question bank and AI feedback on answers.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_ACCESS_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"interview-coach/internal/adapter/ai"
	"interview-coach/internal/adapter/mail"
	"interview-coach/internal/adapter/spreadsheet"
	"interview-coach/internal/adapter/storage"
	"interview-coach/internal/cache"
	"interview-coach/internal/config"
	"interview-coach/internal/database"
	"interview-coach/internal/domain"
	"interview-coach/internal/handler"
	"interview-coach/internal/logger"
	"interview-coach/internal/middleware"
	"interview-coach/internal/repository"
	"interview-coach/internal/service"
	"interview-coach/internal/session"
	"interview-coach/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	configPath = pflag.String("config", "", "Path to config.yaml or the directory holding it")
	migrateUp  = pflag.Bool("migrate", false, "Apply pending database migrations before serving")
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)
		return err
	}
}

// newMailSender returns nil when the selected transport is not configured;
// verification then relies on the compose fallback.
func newMailSender(cfg *config.Config, appLogger *zap.Logger) domain.MailSender {
	switch cfg.Mail.Transport {
	case "resend":
		s, err := mail.NewResendSender(cfg.Mail.ResendAPIKey, cfg.Mail.From)
		if err != nil {
			appLogger.Warn("Resend transport disabled", zap.Error(err))
			return nil
		}
		return s
	default:
		s, err := mail.NewSMTPSender(cfg.SMTP)
		if err != nil {
			appLogger.Warn("SMTP transport disabled", zap.Error(err))
			return nil
		}
		return s
	}
}

func main() {
	pflag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// Database
	db, err := database.NewPostgresDB(ctx, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if *migrateUp {
		if err := database.MigrateUp(db.DB, appLogger); err != nil {
			appLogger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	store := repository.NewTableStore(db)
	accountRepo := repository.NewAccountRepository(store)
	questionRepo := repository.NewQuestionRepository(store)
	interviewRepo := repository.NewInterviewRepository(store)
	verificationRepo := repository.NewVerificationRepository(store)
	txManager := repository.NewTxManager(db)

	// Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheAdapter := cache.NewRedisStore(redisClient)
	appLogger.Info("Successfully connected to Redis")

	// AI feedback
	generator, generatorCloser, err := ai.NewGenerator(ctx, cfg.AI, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create text generator", zap.Error(err))
	}
	defer generatorCloser.Close()
	appLogger.Info("Text generator initialized", zap.String("provider", cfg.AI.Provider), zap.String("model", cfg.AI.Model))

	// Mail
	sender := newMailSender(cfg, appLogger)
	var compose service.ComposeFunc
	if cfg.Mail.ComposeFallback {
		compose = mail.BuildComposeHandoff
	}

	// Upload archive
	var archive domain.UploadArchive
	s3Archive, err := storage.NewS3Archive(ctx, cfg.Storage)
	if err != nil {
		appLogger.Warn("Upload archiving disabled", zap.Error(err))
	} else if s3Archive != nil {
		archive = s3Archive
	}

	v := validation.NewValidator()

	authService, err := service.NewAuthService(accountRepo, txManager, cacheAdapter, sender, v, cfg.JWT, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(accountRepo, appLogger)
	verificationService := service.NewVerificationService(verificationRepo, sender, compose, v, cfg.Verification, appLogger)
	questionService := service.NewQuestionService(questionRepo, cacheAdapter, appLogger)
	ingestionService := service.NewIngestionService(spreadsheet.NewWorkbookReader(appLogger), questionService, archive, appLogger)
	feedbackService := service.NewFeedbackService(generator, appLogger)
	interviewService := service.NewInterviewService(interviewRepo, feedbackService, cfg.Interview.BatchTimeout, appLogger)

	manager, err := session.NewManager(session.Deps{
		Auth:         authService,
		Users:        userService,
		Verification: verificationService,
		Questions:    questionService,
		Ingestion:    ingestionService,
		Interviews:   interviewService,
	}, cfg.Session.IdleTTL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create session manager", zap.Error(err))
	}
	defer manager.Close()

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(manager, v),
		User:         handler.NewUserHandler(),
		Verification: handler.NewVerificationHandler(manager),
		Question:     handler.NewQuestionHandler(),
		Interview:    handler.NewInterviewHandler(v),
		Session:      handler.NewSessionHandler(),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			return domain.NewNetworkError("database unavailable", err)
		}
		if err := cacheAdapter.Ping(pingCtx); err != nil {
			return domain.NewNetworkError("cache unavailable", err)
		}
		return c.SendString("ok")
	})

	handler.RegisterRoutes(app.Group("/api"), handlers, middleware.Protected(manager), middleware.NewValidationMiddleware(v))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
