package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/mbriand/comptoir-backend/docs"
	"github.com/mbriand/comptoir-backend/internal/config"
	"github.com/mbriand/comptoir-backend/internal/handler"
	"github.com/mbriand/comptoir-backend/internal/middleware"
	"github.com/mbriand/comptoir-backend/internal/repository/postgres"
	"github.com/mbriand/comptoir-backend/internal/repository/storage"
	"github.com/mbriand/comptoir-backend/internal/service"
	"github.com/mbriand/comptoir-backend/internal/websocket"
)

// @title Comptoir API
// @version 1.0
// @description Shared accounting, notes, tasks and calendar for small organizations
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	organizationRepo := postgres.NewOrganizationRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	subCategoryRepo := postgres.NewSubCategoryRepository(pool)
	refundRepo := postgres.NewRefundRepository(pool)
	noteRepo := postgres.NewNoteRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	preferenceRepo := postgres.NewFilterPreferenceRepository(pool)

	// Object storage is optional: without credentials, attachment uploads
	// are disabled but everything else works
	var store storage.ObjectStore
	if cfg.S3.AccessKeyID != "" && cfg.S3.SecretAccessKey != "" {
		s3Store, err := storage.NewS3ObjectStore(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		store = s3Store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Object storage enabled")
	} else {
		log.Warn().Msg("Object storage not configured, attachment uploads disabled")
	}

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, subCategoryRepo, transactionRepo)
	organizationService := service.NewOrganizationService(organizationRepo, memberRepo, userRepo, categoryService)
	accountingService := service.NewAccountingService(transactionRepo, categoryRepo, subCategoryRepo, refundRepo)
	reportService := service.NewReportService(transactionRepo, categoryRepo, subCategoryRepo)
	noteService := service.NewNoteService(noteRepo, memberRepo, store)
	taskService := service.NewTaskService(taskRepo)
	eventService := service.NewEventService(eventRepo)
	preferenceService := service.NewPreferenceService(preferenceRepo)

	// WebSocket hub fans events out to connected clients per organization
	hub := websocket.NewHub()
	categoryService.SetEventPublisher(hub)
	organizationService.SetEventPublisher(hub)
	accountingService.SetEventPublisher(hub)
	noteService.SetEventPublisher(hub)
	taskService.SetEventPublisher(hub)
	eventService.SetEventPublisher(hub)
	preferenceService.SetEventPublisher(hub)

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, userRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := &handler.Handlers{
		Auth:         authMiddleware,
		RateLimiter:  rateLimiter,
		Organization: handler.NewOrganizationHandler(organizationService),
		Accounting:   handler.NewAccountingHandler(accountingService, organizationService),
		Category:     handler.NewCategoryHandler(categoryService, organizationService),
		Report:       handler.NewReportHandler(reportService, organizationService),
		Note:         handler.NewNoteHandler(noteService, organizationService),
		Task:         handler.NewTaskHandler(taskService, organizationService),
		Event:        handler.NewEventHandler(eventService, organizationService),
		Preference:   handler.NewPreferenceHandler(preferenceService, organizationService),
		WebSocket:    handler.NewWebSocketHandler(hub, authMiddleware, organizationService, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// API documentation
	e.GET("/openapi.json", handler.ServeOpenAPI3Spec)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Register API routes
	handler.RegisterRoutes(e, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
