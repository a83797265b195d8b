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

	"github.com/gin-gonic/gin"

	"github.com/imcoolthanyou/Event-Hive/internal/di"
	"github.com/imcoolthanyou/Event-Hive/internal/stream"
	"github.com/imcoolthanyou/Event-Hive/pkg/config"
	"github.com/imcoolthanyou/Event-Hive/pkg/database"
	"github.com/imcoolthanyou/Event-Hive/pkg/kafka"
	"github.com/imcoolthanyou/Event-Hive/pkg/logger"
	"github.com/imcoolthanyou/Event-Hive/pkg/middleware"
	"github.com/imcoolthanyou/Event-Hive/pkg/redis"
	"github.com/imcoolthanyou/Event-Hive/pkg/retry"
	"github.com/imcoolthanyou/Event-Hive/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: "event-hive-api",
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Event Hive API...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    "event-hive-api",
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
		ServiceName:     "event-hive-api",
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Initialize Redis connection (optional - inventory cache and
	// idempotency are disabled if it fails)
	var redisClient *redis.Client
	redisCfg := &redis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	}
	redisClient, err = redis.NewClient(ctx, redisCfg)
	if err != nil {
		appLog.Warn(fmt.Sprintf("Redis connection failed (caching disabled): %v", err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLog.Info(fmt.Sprintf("Redis connected (%s)", redisCfg.Addr()))
	}

	// Initialize Kafka producer (optional - change publishing is disabled
	// if it fails)
	var producer *kafka.Producer
	producer, err = kafka.NewProducer(&kafka.ProducerConfig{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: cfg.Kafka.ClientID,
	})
	if err != nil {
		appLog.Warn(fmt.Sprintf("Kafka producer failed (change publishing disabled): %v", err))
		producer = nil
	} else {
		defer producer.Close()
		appLog.Info("Kafka producer ready")
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		Ctx:      ctx,
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Producer: producer,
	})

	// Warm the inventory cache so the booking rush hits Redis first
	if container.Inventory != nil {
		if events, err := container.EventRepo.ListAll(ctx); err != nil {
			appLog.Warn(fmt.Sprintf("Inventory warm-up skipped: %v", err))
		} else if err := container.Inventory.SeedAll(ctx, events); err != nil {
			appLog.Warn(fmt.Sprintf("Inventory warm-up failed: %v", err))
		} else {
			appLog.Info(fmt.Sprintf("Inventory cache warmed (%d events)", len(events)))
		}
	}

	// Start the event feed so discovery sessions see changes as they
	// happen. The API keeps serving stale snapshots if the feed fails.
	consumer, err := kafka.NewConsumer(&kafka.ConsumerConfig{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		Topics:        []string{cfg.Kafka.EventsTopic},
		ClientID:      cfg.Kafka.ClientID,
	})
	if err != nil {
		appLog.Warn(fmt.Sprintf("Kafka consumer failed (live discovery disabled): %v", err))
	} else {
		defer consumer.Close()

		var dlq *retry.DLQHandler
		if producer != nil {
			dlqPublisher := retry.NewKafkaDLQPublisher(
				&retry.KafkaProducerAdapter{Producer: producer},
				&retry.DLQConfig{TopicSuffix: ".dlq", Source: "event-hive-api"},
			)
			dlq = retry.NewDLQHandler(dlqPublisher, &retry.DLQHandlerConfig{
				RetryConfig: retry.DefaultConfig(),
				Source:      "event-hive-api",
			})
		}

		feed := stream.NewFeed(container.EventRepo, consumer, dlq, cfg.Kafka.EventsTopic)
		go func() {
			if err := feed.Run(ctx); err != nil && ctx.Err() == nil {
				appLog.Error(fmt.Sprintf("Event feed stopped: %v", err))
			}
		}()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case snapshot := <-feed.Snapshots():
					container.Sessions.Broadcast(snapshot)
				}
			}
		}()
	}

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware("event-hive-api"))
	}

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Live)
	router.GET("/ready", container.HealthHandler.Ready)

	authRequired := middleware.JWTMiddleware(&cfg.JWT)

	// Booking POSTs replay safely when the client retries with the same
	// idempotency key
	var idempotent gin.HandlerFunc
	if redisClient != nil {
		idempotent = middleware.IdempotencyMiddleware(middleware.DefaultIdempotencyConfig(redisClient))
	} else {
		idempotent = func(c *gin.Context) { c.Next() }
	}

	// API routes
	v1 := router.Group("/api/v1")
	{
		events := v1.Group("/events")
		{
			// Public endpoints
			events.GET("", container.EventHandler.List)
			events.GET("/search", container.EventHandler.Search)
			events.GET("/nearby", container.EventHandler.Nearby)

			// Protected endpoints
			protected := events.Group("")
			protected.Use(authRequired)
			{
				protected.GET("/mine", container.EventHandler.ListMine)
				protected.GET("/saved", container.EventHandler.ListSaved)
				protected.POST("", container.EventHandler.Create)
				protected.PUT("/:id", container.EventHandler.Update)
				protected.DELETE("/:id", container.EventHandler.Delete)
				protected.POST("/:id/save", container.EventHandler.Save)
				protected.DELETE("/:id/save", container.EventHandler.Unsave)
				protected.POST("/:id/book", idempotent, container.BookingHandler.Book)
			}

			// Must be last so it does not catch /search, /mine, /saved
			events.GET("/:id", container.EventHandler.GetByID)
		}

		orders := v1.Group("/orders")
		orders.Use(authRequired)
		{
			orders.POST("", idempotent, container.BookingHandler.CreateOrder)
		}

		discovery := v1.Group("/discovery")
		discovery.Use(authRequired)
		{
			discovery.PUT("/location", container.DiscoveryHandler.SetLocation)
			discovery.DELETE("/location", container.DiscoveryHandler.ClearLocation)
			discovery.GET("/nearby", container.DiscoveryHandler.Nearby)
			discovery.DELETE("/session", container.DiscoveryHandler.EndSession)
		}

		profile := v1.Group("/profile")
		profile.Use(authRequired)
		{
			profile.GET("", container.ProfileHandler.Get)
			profile.PUT("", container.ProfileHandler.Update)
			profile.POST("/device-tokens", container.ProfileHandler.RegisterToken)
			profile.DELETE("/device-tokens/:token", container.ProfileHandler.RemoveToken)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Event Hive API listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	// Stop discovery sessions and in-flight requests
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
