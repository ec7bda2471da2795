// @title           Marketplace API
// @version         1.0
// @description     Marketplace multi-vertical: produtos, vagas, eventos, freelancers e artistas.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

//go:generate swag init -g cmd/api/main.go -o docs --dir ../../

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rafabene/marketplace-backend/docs"
	"github.com/rafabene/marketplace-backend/internal/app"
	"github.com/rafabene/marketplace-backend/internal/handlers/dto"
	httphandlers "github.com/rafabene/marketplace-backend/internal/handlers/http"
	"github.com/rafabene/marketplace-backend/internal/handlers/middleware"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/config"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/logging"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/observability"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/persistence/postgres"
)

var version = "dev"

func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger, closeLogger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to init logger:", err)
	}
	defer func() { _ = closeLogger() }()
	logger.Info("starting marketplace backend",
		"env", cfg.Env,
		"version", version,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.Telemetry, cfg.Env)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		log.Fatal(err)
	}

	// Conectar ao banco e montar serviços
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		log.Fatal(err)
	}
	defer application.Close()

	if !cfg.IsProduction() {
		if err := postgres.Migrate(application.DB, cfg.Realtime.Source == "pg_notify"); err != nil {
			logger.Error("failed to migrate database", "error", err)
			log.Fatal(err)
		}
	}

	startBackgroundWorkers(ctx, application)

	router := newRouter(cfg, application)

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown failed", "error", err)
	}

	logger.Info("server exited")
}

// startBackgroundWorkers inicia o consumidor de eventos e o feed de pg_notify quando configurados
func startBackgroundWorkers(ctx context.Context, application *app.App) {
	logger := application.Logger

	consumer, err := application.NewNotificationConsumer()
	if err != nil {
		logger.Error("failed to connect notification consumer", "error", err)
		log.Fatal(err)
	}
	if consumer != nil {
		go func() {
			if err := consumer.Run(ctx, application.Services.Notifications); err != nil && ctx.Err() == nil {
				logger.Error("notification consumer stopped", "error", err)
			}
		}()
	}

	if feed := application.NewRealtimeFeed(); feed != nil {
		go func() {
			if err := feed.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("realtime feed stopped", "error", err)
			}
		}()
	}
}

func newRouter(cfg *config.Config, application *app.App) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := application.Services
	logger := application.Logger

	handlers := httphandlers.Handlers{
		Profiles:      httphandlers.NewProfileHandler(svc.Profiles),
		Products:      httphandlers.NewProductHandler(svc.Products),
		Jobs:          httphandlers.NewJobHandler(svc.Jobs),
		Events:        httphandlers.NewEventHandler(svc.Events),
		Talent:        httphandlers.NewTalentHandler(svc.Talent),
		Cart:          httphandlers.NewCartHandler(svc.Cart),
		Orders:        httphandlers.NewOrderHandler(svc.Orders, logger),
		Credits:       httphandlers.NewCreditHandler(svc.Credits, cfg.Payments.Currency),
		Reviews:       httphandlers.NewReviewHandler(svc.Reviews),
		Wishlist:      httphandlers.NewWishlistHandler(svc.Wishlist),
		Messaging:     httphandlers.NewMessagingHandler(svc.Messaging),
		Notifications: httphandlers.NewNotificationHandler(svc.Notifications),
		Uploads:       httphandlers.NewUploadHandler(svc.Uploads),
		Analytics:     httphandlers.NewAnalyticsHandler(svc.Analytics),
		Realtime:      httphandlers.NewRealtimeHandler(application.Hub, cfg.CORS.AllowedOrigins, logger),
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware global para adicionar base URL ao contexto
	router.Use(func(c *gin.Context) {
		c.Set("base_url", cfg.Server.BaseURL)
		c.Next()
	})
	router.Use(middleware.RequestLogger(logger))

	// Middleware i18n
	i18nMiddleware := middleware.NewI18nMiddleware(application.I18n)
	router.Use(i18nMiddleware.DetectLanguage())

	// Middleware CORS
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	router.GET("/health", httphandlers.Health(cfg.Env))

	docs.SwaggerInfo.Version = version
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if dir, ok := application.LocalUploadDir(); ok {
		router.Static(app.LocalFilesPath, dir)
	}

	verifier := middleware.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)
	auth := middleware.NewAuthMiddleware(verifier, svc.Profiles, dto.AbortWithError)

	httphandlers.RegisterRoutes(router, handlers, auth)
	return router
}
