package di

import (
	"context"

	"github.com/imcoolthanyou/Event-Hive/internal/booking"
	"github.com/imcoolthanyou/Event-Hive/internal/geocode"
	"github.com/imcoolthanyou/Event-Hive/internal/handler"
	"github.com/imcoolthanyou/Event-Hive/internal/notify"
	"github.com/imcoolthanyou/Event-Hive/internal/payment"
	"github.com/imcoolthanyou/Event-Hive/internal/repository"
	"github.com/imcoolthanyou/Event-Hive/internal/service"
	"github.com/imcoolthanyou/Event-Hive/internal/session"
	"github.com/imcoolthanyou/Event-Hive/internal/stream"
	"github.com/imcoolthanyou/Event-Hive/pkg/config"
	"github.com/imcoolthanyou/Event-Hive/pkg/database"
	"github.com/imcoolthanyou/Event-Hive/pkg/kafka"
	"github.com/imcoolthanyou/Event-Hive/pkg/redis"
)

// Container holds all dependencies for the API service
type Container struct {
	// Infrastructure
	Config   *config.Config
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer *kafka.Producer

	// Repositories
	EventRepo   repository.EventRepository
	SavedRepo   repository.SavedEventRepository
	TokenRepo   repository.DeviceTokenRepository
	ProfileRepo repository.UserProfileRepository
	Inventory   repository.InventoryCache

	// Domain plumbing
	Publisher   *stream.Publisher
	Coordinator *booking.Coordinator
	Geocoder    geocode.Geocoder
	Gateway     payment.Gateway
	Notifier    notify.Notifier
	Sessions    *session.Manager

	// Services
	EventService   service.EventService
	BookingService service.BookingService
	ProfileService service.ProfileService

	// Handlers
	HealthHandler    *handler.HealthHandler
	EventHandler     *handler.EventHandler
	BookingHandler   *handler.BookingHandler
	DiscoveryHandler *handler.DiscoveryHandler
	ProfileHandler   *handler.ProfileHandler
}

// ContainerConfig contains the infrastructure the container builds on.
// Redis and Producer may be nil; the affected features degrade.
type ContainerConfig struct {
	Ctx      context.Context
	Config   *config.Config
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer *kafka.Producer
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		Config:   cfg.Config,
		DB:       cfg.DB,
		Redis:    cfg.Redis,
		Producer: cfg.Producer,
	}

	// Repositories
	c.EventRepo = repository.NewPostgresEventRepository(c.DB.Pool())
	c.SavedRepo = repository.NewPostgresSavedEventRepository(c.DB.Pool())
	c.TokenRepo = repository.NewPostgresDeviceTokenRepository(c.DB.Pool())
	c.ProfileRepo = repository.NewPostgresUserProfileRepository(c.DB.Pool())
	if c.Redis != nil {
		c.Inventory = repository.NewRedisInventoryCache(c.Redis)
	}

	// Event change publishing is disabled without a producer
	if c.Producer != nil {
		c.Publisher = stream.NewPublisher(c.Producer, c.Config.Kafka.EventsTopic)
	}

	c.Geocoder = geocode.NewClient(&c.Config.Geocoder)
	if c.Config.Payment.UseMock {
		c.Gateway = payment.NewMockGateway()
	} else {
		c.Gateway = payment.NewHTTPGateway(&c.Config.Payment)
	}

	c.Coordinator = booking.NewCoordinator(c.EventRepo, c.Inventory)
	c.Notifier = notify.NewPushClient(&c.Config.Push, c.TokenRepo)
	c.Sessions = session.NewManager(cfg.Ctx, c.Notifier, c.Config.Discovery.DefaultRadiusKm)

	// Services
	var publisher service.ChangePublisher
	if c.Publisher != nil {
		publisher = c.Publisher
	}
	c.EventService = service.NewEventService(c.EventRepo, c.SavedRepo, c.Geocoder, publisher, c.Inventory, c.Config.Discovery.DefaultRadiusKm)
	c.BookingService = service.NewBookingService(c.Coordinator, c.EventRepo, c.Gateway, publisher)
	c.ProfileService = service.NewProfileService(c.ProfileRepo, c.TokenRepo, c.Config.Discovery.DefaultRadiusKm)

	// Handlers
	checks := map[string]handler.HealthChecker{"postgres": c.DB}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(c.Config.App.Name, checks)
	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService)
	c.DiscoveryHandler = handler.NewDiscoveryHandler(c.Sessions, c.ProfileService)
	c.ProfileHandler = handler.NewProfileHandler(c.ProfileService)

	return c
}
