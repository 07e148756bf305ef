package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/hostelhub/backend/internal/application/analytics"
	bulkapp "github.com/hostelhub/backend/internal/application/bulk"
	communityapp "github.com/hostelhub/backend/internal/application/community"
	"github.com/hostelhub/backend/internal/application/common"
	financeapp "github.com/hostelhub/backend/internal/application/finance"
	housingapp "github.com/hostelhub/backend/internal/application/housing"
	identityapp "github.com/hostelhub/backend/internal/application/identity"
	notificationapp "github.com/hostelhub/backend/internal/application/notification"
	reportapp "github.com/hostelhub/backend/internal/application/report"
	welfareapp "github.com/hostelhub/backend/internal/application/welfare"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/infrastructure/auth"
	"github.com/hostelhub/backend/internal/infrastructure/cache"
	"github.com/hostelhub/backend/internal/infrastructure/config"
	"github.com/hostelhub/backend/internal/infrastructure/event"
	"github.com/hostelhub/backend/internal/infrastructure/logger"
	"github.com/hostelhub/backend/internal/infrastructure/persistence"
	"github.com/hostelhub/backend/internal/infrastructure/printing"
	"github.com/hostelhub/backend/internal/infrastructure/scheduler"
	"github.com/hostelhub/backend/internal/infrastructure/storage"
	"github.com/hostelhub/backend/internal/infrastructure/telemetry"
	"github.com/hostelhub/backend/internal/infrastructure/webhook"
	"github.com/hostelhub/backend/internal/interfaces/http/handler"
	"github.com/hostelhub/backend/internal/interfaces/http/middleware"
	"github.com/hostelhub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/hostelhub/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			HostelHub API
//	@version		1.0
//	@description	Hostel management backend: rooms, bookings, payments, notices, complaints and leave.

//	@contact.name	HostelHub Support
//	@contact.email	support@hostelhub.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const (
	appVersion = "1.0.0"
	filesPath  = "/api/v1/files"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry comes first so the logger can be teed into the OTLP log pipeline
	tel, err := telemetry.Setup(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	if tel.Logs.IsEnabled() {
		if otelLog, err := logger.New(logCfg, tel.Logs.ZapCore("hostel-backend", logger.ParseLevel(cfg.Log.Level))); err == nil {
			log = otelLog
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting HostelHub backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Warn("Unknown timezone, using UTC", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
		loc = time.UTC
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, db.Driver, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	if _, err := telemetry.RegisterDBMetrics(db.DB, tel.Meter, log); err != nil {
		log.Warn("Database metrics disabled", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", db.Driver))

	// Redis backed stores, or in-process ones when Redis is off
	stores := cache.NewStores(cfg.Redis, log)
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing redis", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	roomRepo := persistence.NewGormRoomRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	roommateRepo := persistence.NewGormRoommateRequestRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	noticeRepo := persistence.NewGormNoticeRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	complaintRepo := persistence.NewGormComplaintRepository(db.DB)
	leaveRepo := persistence.NewGormLeaveRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	bulkRepo := persistence.NewGormBulkOperationRepository(db.DB)
	analyticsRepo := persistence.NewGormAnalyticsRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Shared infrastructure
	eventBus := event.NewInMemoryEventBus(log)
	objectStorage, fileStore, err := newObjectStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	templates := printing.NewTemplateEngine(printing.WithLocation(loc))
	renderer := printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.Report, log))
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if stores.Client != nil {
		blacklist = auth.NewRedisTokenBlacklist(stores.Client)
	}

	var dispatchers []notification.Dispatcher
	if cfg.Webhook.Enabled {
		dispatchers = append(dispatchers, webhook.NewDispatcher(cfg.Webhook, log))
		log.Info("Notification webhook enabled", zap.String("url", cfg.Webhook.URL))
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, eventBus, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Security.MaxLoginAttempts,
		LockDuration:     cfg.Security.LockDuration,
	}, log)
	twoFactorService := identityapp.NewTwoFactorService(userRepo, cfg.TOTP.Issuer, log)
	userService := identityapp.NewUserService(userRepo, bookingRepo, blacklist, eventBus, log)
	roomService := housingapp.NewRoomService(roomRepo, bookingRepo, eventBus, log)
	bookingService := housingapp.NewBookingService(bookingRepo, roomRepo, userRepo, txScope, eventBus,
		housingapp.BookingServiceConfig{PendingTTL: cfg.Scheduler.PendingBookingTTL}, log)
	roommateService := housingapp.NewRoommateService(roommateRepo, userRepo, roomRepo, eventBus, log)
	paymentService := financeapp.NewPaymentService(paymentRepo, userRepo, bookingRepo, roomRepo, eventBus,
		templates, renderer, financeapp.PaymentServiceConfig{
			HostelName: cfg.App.Name,
			RentDueDay: cfg.Scheduler.RentDueDay,
		}, log)
	noticeService := communityapp.NewNoticeService(noticeRepo, eventBus, log)
	eventService := communityapp.NewEventService(eventRepo, userRepo, txScope, eventBus, log)
	complaintService := welfareapp.NewComplaintService(complaintRepo, roomRepo, objectStorage, eventBus,
		welfareapp.ComplaintServiceConfig{
			MaxUploadSize: cfg.Storage.MaxUploadSize,
			AllowedTypes:  cfg.Storage.AllowedTypes,
			PresignTTL:    cfg.Storage.PresignTTL,
		}, log)
	leaveService := welfareapp.NewLeaveService(leaveRepo, txScope, eventBus, log)
	notificationService := notificationapp.NewService(notificationRepo, userRepo, log, dispatchers...)
	analyticsService := analyticsapp.NewService(analyticsRepo, paymentRepo, complaintRepo, leaveRepo,
		notificationRepo, stores.Analytics, cfg.Cache.AnalyticsTTL, log)
	reportService := reportapp.NewService(reportRepo, templates, renderer, objectStorage, reportapp.Config{
		MaxRows:    cfg.Report.MaxRows,
		PresignTTL: cfg.Storage.PresignTTL,
	}, log)
	reportService.SetBusinessMetrics(tel.Business)
	bulkService := bulkapp.NewService(bulkRepo, bulkapp.Services{
		Users:    userService,
		Rooms:    roomService,
		Bookings: bookingService,
		Payments: paymentService,
		Leaves:   leaveService,
		Notifier: notificationService,
	}, bulkapp.Config{MaxImportRows: cfg.Report.MaxRows}, log)

	// Event handlers for cross-context integration
	// Booking confirmed -> first month of rent, at most once per event
	rentHandler := event.NewIdempotentHandler("booking-confirmed-rent",
		financeapp.NewBookingConfirmedHandler(paymentService, log), stores.Idempotency, 0, log)
	eventBus.Subscribe(rentHandler)
	// Domain events -> in-app notifications
	notifier := notificationapp.NewEventNotifier(notificationService, eventRepo, log)
	eventBus.Subscribe(notifier)
	// Writes -> dashboard cache eviction
	invalidator := analyticsapp.NewCacheInvalidator(analyticsService, log)
	eventBus.Subscribe(invalidator)
	// Domain events -> business metrics
	eventBus.Subscribe(tel.Business)

	if cfg.Kafka.Enabled {
		forwarder := event.NewKafkaForwarder(event.NewKafkaWriter(cfg.Kafka, log), event.NewDomainSerializer(), log)
		eventBus.Subscribe(forwarder)
		defer func() {
			if err := forwarder.Close(); err != nil {
				log.Error("Error closing kafka writer", zap.Error(err))
			}
		}()
		log.Info("Kafka event forwarding enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	log.Info("Event handlers registered",
		zap.Strings("booking_confirmed_events", rentHandler.EventTypes()),
		zap.Strings("notifier_events", notifier.EventTypes()),
		zap.Strings("cache_invalidator_events", invalidator.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// First administrator on an empty database
	if created, err := userService.EnsureAdmin(context.Background(),
		cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminName); err != nil {
		log.Error("Failed to bootstrap administrator", zap.Error(err))
	} else if created {
		log.Info("Bootstrap administrator created", zap.String("email", cfg.Bootstrap.AdminEmail))
	}

	// Background jobs
	if cfg.Scheduler.Enabled {
		jobScheduler := scheduler.NewScheduler(scheduler.SchedulerConfigFrom(cfg.Scheduler), log,
			scheduler.WithJobObserver(func(job *scheduler.Job) {
				var jobErr error
				if job.Error != "" {
					jobErr = errors.New(job.Error)
				}
				tel.Business.ObserveJob(context.Background(), job.Task.Name(), job.Duration(), job.Affected, jobErr)
			}))
		if err := jobScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		trigger := scheduler.NewCronTrigger(scheduler.CronTriggerConfigFrom(cfg.Scheduler, loc), jobScheduler, log).
			Every(
				scheduler.NewTask("expire-pending-bookings", bookingService.ExpirePending),
				scheduler.NewTask("activate-starting-bookings", bookingService.ActivateStarting),
				scheduler.NewTask("complete-ended-bookings", bookingService.CompleteEnded),
				scheduler.NewTask("mark-overdue-payments", paymentService.MarkOverdue),
				scheduler.NewTask("complete-ended-events", eventService.CompleteEnded),
				scheduler.NewTask("record-occupancy", func(ctx context.Context, _ time.Time) (int, error) {
					overview, err := analyticsService.Occupancy(ctx)
					if err != nil {
						return 0, err
					}
					tel.Business.RecordOccupancy(ctx, overview.OccupancyRate)
					return 0, nil
				}),
			)
		if cfg.Scheduler.GenerateRentOnDayOne {
			trigger.Monthly(scheduler.NewTask("generate-monthly-rent", func(ctx context.Context, now time.Time) (int, error) {
				result, err := paymentService.GenerateRent(ctx, now.In(loc).Format("2006-01"))
				if err != nil {
					return 0, err
				}
				return result.Succeeded, nil
			}))
		}
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping cron trigger", zap.Error(err))
			}
		}()
	}

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, appVersion)
	systemHandler.AddCheck("database", db.Ping)
	if stores.Client != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return stores.Client.Ping(ctx).Err()
		})
	}
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService, twoFactorService),
		User:         handler.NewUserHandler(userService),
		Room:         handler.NewRoomHandler(roomService),
		Booking:      handler.NewBookingHandler(bookingService),
		Roommate:     handler.NewRoommateHandler(roommateService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Notice:       handler.NewNoticeHandler(noticeService),
		Event:        handler.NewEventHandler(eventService),
		Complaint:    handler.NewComplaintHandler(complaintService),
		Leave:        handler.NewLeaveHandler(leaveService),
		Notification: handler.NewNotificationHandler(notificationService),
		Analytics:    handler.NewAnalyticsHandler(analyticsService),
		Report:       handler.NewReportHandler(reportService),
		Bulk:         handler.NewBulkHandler(bulkService),
		System:       systemHandler,
	}
	if fileStore != nil {
		handlers.File = handler.NewFileHandler(fileStore)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Logger - Log requests with a request scoped logger
	// 3. Recovery - Catch panics
	// 4. Security and CORS headers
	// 5. Tracing - otelgin span plus error status
	// 6. Metrics - Prometheus RED metrics
	metricsCfg := middleware.DefaultHTTPMetricsConfig()
	metricsCfg.Enabled = cfg.HTTP.MetricsEnabled
	httpMetrics := middleware.NewHTTPMetrics(metricsCfg)
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig(cfg.IsProduction())))
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(httpMetrics.Middleware())
	engine.NoRoute(router.NoRoute)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	r.Use(jwtMiddleware)
	r.Use(middleware.TracingAttributeInjector())
	if tel.Profiler.IsEnabled() {
		r.Use(middleware.Profiling())
	}
	if cfg.HTTP.RateLimitEnabled {
		r.Use(middleware.RateLimit(newLimiter(stores, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow), log))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	r.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))

	// Multipart routes get the upload cap, everything else the body limit
	r.Use(middleware.UploadAwareBodyLimit(cfg.HTTP.MaxBodySize))
	opts := router.APIOptions{UploadLimit: middleware.BodyLimit(cfg.Storage.MaxUploadSize + 1<<20)}
	if cfg.HTTP.AuthRateLimitEnabled {
		opts.AuthLimit = middleware.AuthRateLimit(
			newLimiter(stores, cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow),
			cfg.HTTP.AuthRateLimitWindow, log)
	}
	router.RegisterAPI(r, handlers, opts)
	r.Setup()

	// Routes outside API versioning
	engine.GET("/health", systemHandler.Health)
	r.Document(http.MethodGet, "/health", router.AccessPublic, "Database and redis status")
	if cfg.HTTP.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(httpMetrics.Handler()))
		r.Document(http.MethodGet, "/metrics", router.AccessPublic, "Prometheus metrics")
	}
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger, jwtMiddleware),
			ginSwagger.WrapHandler(swaggerFiles.Handler))
		r.Document(http.MethodGet, "/swagger/*any", router.AccessPublic, "Swagger UI")
	}
	engine.GET("/api/docs", r.DocsHandler())
	r.Document(http.MethodGet, "/api/docs", router.AccessPublic, "This route listing")

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage picks S3 when a bucket is configured and the local disk
// otherwise. Only the local store serves signed links itself.
func newObjectStorage(cfg *config.Config, log *zap.Logger) (common.ObjectStorage, handler.SignedFileStore, error) {
	if cfg.Storage.Bucket != "" {
		s3, err := storage.NewS3ObjectStorage(cfg.Storage, log)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		log.Info("Using S3 object storage", zap.String("bucket", s3.Bucket()))
		return s3, nil, nil
	}
	local, err := storage.NewLocalObjectStorage(cfg.Storage.LocalDir, filesPath, []byte(cfg.JWT.Secret), cfg.Storage.PresignTTL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Using local object storage", zap.String("dir", cfg.Storage.LocalDir))
	return local, local, nil
}

// newLimiter shares counters through Redis when it is available
func newLimiter(stores *cache.Stores, limit int, window time.Duration) middleware.Limiter {
	if stores.Client != nil {
		return cache.NewRedisRateLimiter(stores.Client, limit, window)
	}
	return middleware.NewRateLimiter(limit, window)
}
