// Package app monta as dependências compartilhadas pela API e pelo marketplacectl
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/config"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/i18n"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/ids"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/messaging"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/payments"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/realtime"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/storage"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// LocalFilesPath é a rota que serve os arquivos do storage local
const LocalFilesPath = "/files"

// Services agrupa os serviços de aplicação
type Services struct {
	Profiles      *services.ProfileService
	Products      *services.ProductService
	Jobs          *services.JobService
	Events        *services.EventService
	Talent        *services.TalentService
	Listings      *services.ListingResolver
	Cart          *services.CartService
	Credits       *services.CreditService
	Orders        *services.OrderService
	Reviews       *services.ReviewService
	Wishlist      *services.WishlistService
	Messaging     *services.MessagingService
	Notifications *services.NotificationService
	Uploads       *services.UploadService
	Analytics     *services.AnalyticsService
	Realtime      *services.RealtimeRecords
}

// App contém a infraestrutura inicializada e os serviços
type App struct {
	Config   *config.Config
	Logger   ports.Logger
	DB       *gorm.DB
	I18n     *i18n.Service
	Hub      *realtime.Hub
	Storage  ports.ObjectStorage
	Bus      *messaging.InProcessBus
	Services Services

	closers []func() error
}

// New conecta banco, barramento, storage e gateway e instancia os serviços.
// O chamador deve chamar Close no encerramento.
func New(ctx context.Context, cfg *config.Config, logger ports.Logger) (*App, error) {
	db, err := postgres.NewDatabaseConnection(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return NewWithDB(ctx, cfg, logger, db)
}

// NewWithDB monta a aplicação sobre uma conexão já aberta (usado também nos testes)
func NewWithDB(ctx context.Context, cfg *config.Config, logger ports.Logger, db *gorm.DB) (*App, error) {
	a := &App{Config: cfg, Logger: logger, DB: db}

	i18nService, err := i18n.NewEmbeddedService("en")
	if err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}
	a.I18n = i18nService
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	// Tempo real: com pg_notify os triggers do banco alimentam o hub,
	// então os serviços não transmitem diretamente.
	a.Hub = realtime.NewHub(logger)
	var broadcaster ports.Broadcaster
	if cfg.Realtime.Source == "inprocess" {
		broadcaster = a.Hub
	}

	publisher, err := a.eventPublisher(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	objectStorage, err := newStorage(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Storage = objectStorage

	var gateway ports.PaymentGateway
	if cfg.Payments.OmiseSecretKey != "" {
		omise, err := payments.NewOmiseGateway(cfg.Payments.OmisePublicKey, cfg.Payments.OmiseSecretKey)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init payment gateway: %w", err)
		}
		gateway = omise
	} else {
		logger.Warn("payments disabled: OMISE_SECRET_KEY not set")
	}

	numbers, err := ids.NewSnowflakeOrderNumbers(cfg.Snowflake.Node)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init order numbers: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		a.Close()
		return nil, err
	}
	reporting := sqlx.NewDb(sqlDB, "pgx")

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	jobRepo := postgres.NewJobRepository(db)
	applicationRepo := postgres.NewJobApplicationRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	freelancerRepo := postgres.NewFreelancerRepository(db)
	artisteRepo := postgres.NewArtisteRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	creditRepo := postgres.NewCreditRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	wishlistRepo := postgres.NewWishlistRepository(db)
	conversationRepo := postgres.NewConversationRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(reporting)
	uow := postgres.NewUnitOfWork(db)

	currency := cfg.Payments.Currency
	listings := services.NewListingResolver(productRepo, jobRepo, eventRepo, freelancerRepo, artisteRepo)
	credits := services.NewCreditService(creditRepo, uow, publisher, logger)

	a.Services = Services{
		Profiles: services.NewProfileService(userRepo, logger, cfg.Auth.AdminIDs),
		Products: services.NewProductService(productRepo, currency, logger),
		Jobs:     services.NewJobService(jobRepo, applicationRepo, publisher, currency, logger),
		Events:   services.NewEventService(eventRepo, currency, logger),
		Talent:   services.NewTalentService(freelancerRepo, artisteRepo, bookingRepo, publisher, currency, logger),
		Listings: listings,
		Cart:     services.NewCartService(cartRepo, listings, ids.NewKSUIDCartTokens(), logger),
		Credits:  credits,
		Orders: services.NewOrderService(services.OrderDeps{
			Orders:         orderRepo,
			Carts:          cartRepo,
			Products:       productRepo,
			Events:         eventRepo,
			Listings:       listings,
			Credits:        credits,
			Gateway:        gateway,
			Numbers:        numbers,
			UoW:            uow,
			Publisher:      publisher,
			Logger:         logger,
			CreditCurrency: currency,
			ReturnURI:      cfg.Payments.ReturnURI,
		}),
		Reviews:       services.NewReviewService(reviewRepo, productRepo, listings, publisher, logger),
		Wishlist:      services.NewWishlistService(wishlistRepo, listings),
		Messaging:     services.NewMessagingService(conversationRepo, messageRepo, userRepo, publisher, broadcaster, logger),
		Notifications: services.NewNotificationService(notificationRepo, broadcaster, i18nService, logger),
		Uploads:       services.NewUploadService(objectStorage, cfg.Storage.MaxUploadMB<<20, cfg.Storage.PresignTTL, logger),
		Analytics:     services.NewAnalyticsService(analyticsRepo),
		Realtime:      services.NewRealtimeRecords(notificationRepo, messageRepo),
	}

	// Sem broker, as notificações são geradas no próprio processo
	if a.Bus != nil {
		a.Bus.Subscribe(a.Services.Notifications)
	}

	return a, nil
}

// eventPublisher usa RabbitMQ quando configurado; senão o barramento em memória
func (a *App) eventPublisher(cfg *config.Config, logger ports.Logger) (ports.EventPublisher, error) {
	if cfg.RabbitMQ.URL == "" {
		a.Bus = messaging.NewInProcessBus(logger)
		logger.Info("domain events delivered in process")
		return a.Bus, nil
	}

	publisher, err := messaging.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	a.closers = append(a.closers, publisher.Close)
	logger.Info("domain events published to rabbitmq", "exchange", cfg.RabbitMQ.Exchange)
	return publisher, nil
}

// NewNotificationConsumer conecta a fila de notificações; nil quando não há broker
func (a *App) NewNotificationConsumer() (*messaging.RabbitConsumer, error) {
	cfg := a.Config.RabbitMQ
	if cfg.URL == "" {
		return nil, nil
	}
	consumer, err := messaging.NewRabbitConsumer(cfg.URL, cfg.Exchange, cfg.Queue, messaging.AllEventKeys, cfg.Prefetch, a.Logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, consumer.Close)
	return consumer, nil
}

// NewRealtimeFeed cria o listener de pg_notify; nil quando a fonte é o próprio processo
func (a *App) NewRealtimeFeed() *realtime.PGFeed {
	if a.Config.Realtime.Source != "pg_notify" {
		return nil
	}
	return realtime.NewPGFeed(a.Config.Database.DSN(), postgres.RealtimeChannel, a.Services.Realtime, a.Hub, a.Logger)
}

// LocalUploadDir retorna o diretório servido em LocalFilesPath quando o storage é local
func (a *App) LocalUploadDir() (string, bool) {
	local, ok := a.Storage.(*storage.LocalStorage)
	if !ok {
		return "", false
	}
	return local.BasePath(), true
}

// Close libera conexões abertas
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (ports.ObjectStorage, error) {
	if cfg.Storage.Driver == "s3" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		return s3Storage, nil
	}

	publicBase := cfg.Storage.PublicBaseURL
	if publicBase == "" {
		publicBase = strings.TrimRight(cfg.Server.BaseURL, "/") + LocalFilesPath
	}
	local, err := storage.NewLocalStorage(cfg.Storage.LocalDir, publicBase)
	if err != nil {
		return nil, fmt.Errorf("init local storage: %w", err)
	}
	return local, nil
}
