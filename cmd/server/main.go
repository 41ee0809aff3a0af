package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/promoshop/backend/internal/application/catalog"
	eventapp "github.com/promoshop/backend/internal/application/event"
	partnerapp "github.com/promoshop/backend/internal/application/partner"
	printingapp "github.com/promoshop/backend/internal/application/printing"
	tradeapp "github.com/promoshop/backend/internal/application/trade"
	"github.com/promoshop/backend/internal/infrastructure/cache"
	"github.com/promoshop/backend/internal/infrastructure/config"
	"github.com/promoshop/backend/internal/infrastructure/event"
	"github.com/promoshop/backend/internal/infrastructure/logger"
	"github.com/promoshop/backend/internal/infrastructure/persistence"
	infraprinting "github.com/promoshop/backend/internal/infrastructure/printing"
	"github.com/promoshop/backend/internal/infrastructure/printing/providers"
	"github.com/promoshop/backend/internal/infrastructure/scheduler"
	"github.com/promoshop/backend/internal/infrastructure/storage"
	"github.com/promoshop/backend/internal/infrastructure/telemetry"
	"github.com/promoshop/backend/internal/interfaces/http/handler"
	"github.com/promoshop/backend/internal/interfaces/http/middleware"
	"github.com/promoshop/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Initialize telemetry providers before anything that uses them
	var (
		tracerProvider *telemetry.TracerProvider
		meterProvider  *telemetry.MeterProvider
	)
	if cfg.Telemetry.Enabled {
		tracerProvider, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()

		meterProvider, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := meterProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shutdown meter provider", zap.Error(err))
			}
		}()
	}

	if cfg.Telemetry.ProfilingEnabled {
		profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
			Enabled:             true,
			ServerAddress:       cfg.Telemetry.PyroscopeAddress,
			ApplicationName:     cfg.Telemetry.ServiceName,
			ProfileCPU:          true,
			ProfileAllocObjects: true,
			ProfileAllocSpace:   true,
			ProfileInuseObjects: true,
			ProfileInuseSpace:   true,
			ProfileGoroutines:   true,
		}, log)
		if err != nil {
			log.Fatal("Failed to start profiler", zap.Error(err))
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Failed to stop profiler", zap.Error(err))
			}
		}()
	}

	// Initialize database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connection established")

	if cfg.Telemetry.Enabled {
		if _, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log); err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		}
		if cfg.Telemetry.DBTraceEnabled {
			dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
				Enabled:         cfg.Telemetry.DBTraceEnabled,
				LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			}, log)
			if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
				log.Warn("Failed to register database tracing", zap.Error(err))
			}
		}
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	profileRepo := persistence.NewGormClientProfileRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	pendingRepo := persistence.NewGormPendingDeliveryRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Event serialization and transactional outbox. The versioned codec
	// upgrades stale stored payloads before they reach handlers.
	serializer := event.NewVersionedSerializer(log)
	event.RegisterAllEvents(serializer)
	outboxPublisher := event.NewOutboxPublisher(serializer)
	orderRepo.SetOutboxEventSaver(outboxPublisher)

	// In-memory event bus for in-process subscribers
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	productService := catalogapp.NewProductService(productRepo)
	productService.SetEventPublisher(eventBus)

	importService := catalogapp.NewProductImportService(productRepo, log)
	importService.SetEventPublisher(eventBus)

	profileService := partnerapp.NewProfileService(profileRepo)
	profileService.SetEventPublisher(eventBus)

	orderService := tradeapp.NewOrderService(orderRepo, pendingRepo, productRepo, profileRepo)
	orderService.SetEventPublisher(eventBus)

	txScope := persistence.NewGormTransactionScope(db.DB)
	txScope.SetOutboxEventSaver(outboxPublisher)
	fulfillmentService := tradeapp.NewFulfillmentService(txScope)
	fulfillmentService.SetEventPublisher(eventBus)

	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// PDF rendering pipeline
	templateStore := infraprinting.NewTemplateStore(log)
	if cfg.Printing.TemplateDir != "" {
		if err := templateStore.LoadOverrides(cfg.Printing.TemplateDir); err != nil {
			log.Warn("Failed to load template overrides", zap.Error(err))
		}
	}
	templateEngine := infraprinting.NewTemplateEngine()

	var pdfRenderer infraprinting.PDFRenderer
	switch cfg.Printing.Renderer {
	case "wkhtmltopdf":
		pdfRenderer, err = infraprinting.NewWkhtmltopdfRenderer(&infraprinting.WkhtmltopdfConfig{
			BinaryPath:     cfg.Printing.WkhtmltopdfPath,
			DefaultTimeout: cfg.Printing.RenderTimeout,
		})
		if err != nil {
			log.Fatal("Failed to initialize wkhtmltopdf renderer", zap.Error(err))
		}
	default:
		pdfRenderer, err = infraprinting.NewChromedpRenderer(&infraprinting.ChromedpConfig{
			DefaultTimeout: cfg.Printing.RenderTimeout,
			Headless:       true,
			DisableGPU:     true,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize chromedp renderer", zap.Error(err))
		}
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Failed to close PDF renderer", zap.Error(err))
		}
	}()

	var pdfStorage infraprinting.PDFStorage
	var fsStorage *infraprinting.FileSystemStorage
	if cfg.Documents.Backend == "s3" {
		objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 object storage", zap.Error(err))
		}
		pdfStorage = infraprinting.NewS3PDFStorage(objectStorage, &infraprinting.S3PDFStorageConfig{
			URLTTL: cfg.Storage.PresignExpiration,
			Logger: log,
		})
	} else {
		fsStorage, err = infraprinting.NewFileSystemStorage(&infraprinting.FileSystemStorageConfig{
			BasePath:      cfg.Documents.BasePath,
			BaseURL:       cfg.Documents.BaseURL,
			RetentionDays: cfg.Documents.RetentionDays,
			Logger:        log,
		})
		if err != nil {
			log.Fatal("Failed to initialize filesystem PDF storage", zap.Error(err))
		}
		pdfStorage = fsStorage
	}

	seller := infraprinting.SellerInfo{
		Name:      cfg.Seller.Name,
		Address:   cfg.Seller.Address,
		City:      cfg.Seller.City,
		ZipCode:   cfg.Seller.ZipCode,
		Phone:     cfg.Seller.Phone,
		Email:     cfg.Seller.Email,
		VATNumber: cfg.Seller.VATNumber,
	}
	dataProviders := providers.NewDataProviderRegistry()
	dataProviders.Register(providers.NewInvoiceProvider(orderRepo, profileRepo, seller))
	dataProviders.Register(providers.NewDeliveryNoteProvider(orderRepo, profileRepo, seller))

	documentService := printingapp.NewDocumentService(
		documentRepo,
		orderRepo,
		dataProviders,
		templateStore,
		templateEngine,
		pdfRenderer,
		pdfStorage,
		log,
	)

	// Business metrics subscriber, fed by the event bus
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Telemetry.Enabled && meterProvider != nil {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:           meterProvider.Meter("promoshop.business"),
			Logger:          log,
			BacklogProvider: telemetry.NewGormBacklogMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			metricsHandler := event.NewIdempotentHandler(
				tradeapp.NewOrderMetricsHandler(businessMetrics, log),
				cache.NewInMemoryIdempotencyStore(),
				log,
			)
			eventBus.Subscribe(metricsHandler, metricsHandler.EventTypes()...)
			businessMetrics.StartPeriodicCollection(ctx, 0)
			defer businessMetrics.Stop()
		}
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Failed to stop event bus", zap.Error(err))
		}
	}()

	// Outbox processor relays stored events to the bus
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			processorConfig.BatchSize = cfg.Event.BatchSize
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, processorConfig, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := outboxProcessor.Stop(stopCtx); err != nil {
				log.Error("Failed to stop outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started", zap.Int("batch_size", processorConfig.BatchSize))
	}

	// Document retention maintenance. S3 buckets handle expiry via
	// lifecycle rules, so only filesystem storage needs the sweeper.
	if fsStorage != nil && cfg.Documents.RetentionDays > 0 {
		cleanupExecutor := scheduler.NewDocumentCleanupExecutor(fsStorage, cfg.Documents.RetentionDays, log)
		maintScheduler := scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), cleanupExecutor, log)
		if err := maintScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := maintScheduler.Stop(stopCtx); err != nil {
				log.Error("Failed to stop maintenance scheduler", zap.Error(err))
			}
		}()

		cronTrigger := scheduler.NewCronTrigger(scheduler.DefaultCronTriggerConfig(), maintScheduler, log)
		if err := cronTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := cronTrigger.Stop(stopCtx); err != nil {
				log.Error("Failed to stop cron trigger", zap.Error(err))
			}
		}()
		log.Info("Document retention scheduler started", zap.Int("retention_days", cfg.Documents.RetentionDays))
	}

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService, importService)
	profileHandler := handler.NewProfileHandler(profileService)
	orderHandler := handler.NewOrderHandler(orderService, fulfillmentService)
	documentHandler := handler.NewDocumentHandler(documentService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler(db.DB)

	// HTTP server setup
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	var importGuards []gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))

		importLimiter := middleware.NewRateLimiter(cfg.HTTP.ImportRateLimitRequests, cfg.HTTP.RateLimitWindow)
		importGuards = append(importGuards, middleware.ImportRateLimit(importLimiter))
	}
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		if meterProvider != nil {
			engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("promoshop.http"), true))
		}
	}

	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.ClientContext())
	if cfg.Telemetry.ProfilingEnabled {
		// After ClientContext so the client label is available.
		r.Use(middleware.Profiling())
	}
	r.Register(handler.OrderRoutes(orderHandler)).
		Register(handler.ProductRoutes(productHandler, importGuards...)).
		Register(handler.ProfileRoutes(profileHandler)).
		Register(handler.DocumentRoutes(documentHandler)).
		Register(handler.OutboxRoutes(outboxHandler)).
		Register(handler.SystemRoutes(systemHandler))
	r.Setup()

	log.Info("Routes registered", zap.Int("count", len(r.Routes())))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
