package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pricingapp "github.com/erp/proposals/internal/application/pricing"
	proposalapp "github.com/erp/proposals/internal/application/proposal"
	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/erp/proposals/internal/infrastructure/auth"
	"github.com/erp/proposals/internal/infrastructure/config"
	"github.com/erp/proposals/internal/infrastructure/erp"
	"github.com/erp/proposals/internal/infrastructure/event"
	"github.com/erp/proposals/internal/infrastructure/lock"
	"github.com/erp/proposals/internal/infrastructure/logger"
	"github.com/erp/proposals/internal/infrastructure/persistence"
	"github.com/erp/proposals/internal/infrastructure/telemetry"
	"github.com/erp/proposals/internal/interfaces/http/handler"
	"github.com/erp/proposals/internal/interfaces/http/middleware"
	"github.com/erp/proposals/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log, cfg.App.Name)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting proposals service",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry
	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := mp.Meter("proposals")

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, tp.Provider(), log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	// Redis backs source locks, token revocation and rate limiting when enabled
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = lock.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
	}
	locker := lock.NewLocker(cfg.Lock, redisClient, log)

	// Domain events are logged after commit
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	metrics, err := telemetry.NewProposalMetrics(meter, log)
	if err != nil {
		log.Fatal("Failed to register proposal metrics", zap.Error(err))
	}

	// ERP client
	erpClient, err := erp.NewClientFromConfig(cfg.ERP, log)
	if err != nil {
		log.Fatal("Failed to create ERP client", zap.Error(err))
	}
	tracedERP, err := telemetry.NewTracedERPClient(erpClient, tp.Provider(), meter)
	if err != nil {
		log.Fatal("Failed to instrument ERP client", zap.Error(err))
	}

	// Repositories
	ruleRepo := persistence.NewGormMarkupRuleRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	historyRepo := persistence.NewGormPricingHistoryRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	sourceRepo := persistence.NewGormSourceDocumentRepository(db.DB)
	proposalRepo := persistence.NewGormProposalRepository(db.DB)

	// Application services
	pricingService := pricingapp.NewService(pricingapp.ServiceConfig{
		RuleRepo:      ruleRepo,
		ProductRepo:   productRepo,
		HistoryRepo:   historyRepo,
		Targets:       persistence.NewGormRuleTargetResolver(db.DB),
		TxScope:       persistence.NewGormPricingTransactionScope(db.DB),
		ElevatedRoles: cfg.Auth.ElevatedRoles,
		Metrics:       metrics,
		Logger:        log,
	})
	proposalTx := persistence.NewGormProposalTransactionScope(db.DB)
	generationService := proposalapp.NewGenerationService(proposalapp.GenerationServiceConfig{
		Customers:   customerRepo,
		Sources:     sourceRepo,
		ProductRepo: productRepo,
		RuleRepo:    ruleRepo,
		TxScope:     proposalTx,
		Locker:      locker,
		Events:      eventBus,
		Metrics:     metrics,
		Logger:      log,
	})
	lifecycleService := proposalapp.NewLifecycleService(proposalapp.LifecycleServiceConfig{
		ProposalRepo: proposalRepo,
		TxScope:      proposalTx,
		Events:       eventBus,
		Metrics:      metrics,
		Logger:       log,
	})
	erpSyncService := proposalapp.NewERPSyncService(proposalapp.ERPSyncServiceConfig{
		ProposalRepo: proposalRepo,
		Customers:    customerRepo,
		Client:       tracedERP,
		TxScope:      proposalTx,
		Locker:       locker,
		LineDefaults: proposal.LineDefaults{
			VATCode:         cfg.ERP.DefaultVAT,
			ProductTypeCode: cfg.ERP.ProductTypeCode,
			ServiceTypeCode: cfg.ERP.ServiceTypeCode,
		},
		DefaultSeries: cfg.ERP.Series,
		Events:        eventBus,
		Metrics:       metrics,
		Logger:        log,
	})

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register HTTP metrics", zap.Error(err))
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Enabled:        tp.IsEnabled(),
		TracerProvider: tp.Provider(),
		SkipPaths:      []string{"/health", "/ready"},
	}))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))
	engine.Use(httpMetrics)

	healthChecks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	router.RegisterHealth(engine, handler.NewHealthHandler(version, healthChecks))

	// Versioned API: authentication, then per-user rate limiting
	var revocations auth.RevocationList = auth.NewMemoryRevocationList()
	if redisClient != nil {
		revocations = auth.NewRedisRevocationList(redisClient)
	}
	apiMiddleware := []gin.HandlerFunc{
		middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:  auth.NewJWTService(cfg.JWT),
			Revocations: revocations,
			Logger:      log,
		}),
		middleware.TracingAttributeInjector(),
	}
	if cfg.HTTP.RateLimitEnabled {
		var limiter middleware.Limiter
		if redisClient != nil {
			limiter = middleware.NewRedisRateLimiter(redisClient, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		} else {
			memLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
			defer memLimiter.Stop()
			limiter = memLimiter
		}
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(limiter, log))
	}

	pricingHandler := handler.NewPricingHandler(pricingService)
	proposalHandler := handler.NewProposalHandler(generationService, lifecycleService, erpSyncService)

	router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithMiddleware(apiMiddleware...)).
		Register(router.PricingRoutes(pricingHandler, cfg.Auth.ElevatedRoles)).
		Register(router.ProposalRoutes(proposalHandler)).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing metrics", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
