package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	orderapp "github.com/storefront/backend/internal/application/order"
	paymentapp "github.com/storefront/backend/internal/application/payment"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	paymentinfra "github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

// webhookDedupTTL is how long a gateway event id is remembered for the
// fast-path duplicate check. Stripe retries for up to three days; the
// order table's primary key covers anything older.
const webhookDedupTTL = 72 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing (optional)
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	cartLineRepo := persistence.NewGormCartLineRepository(db.DB)
	discountRepo := persistence.NewGormDiscountCodeRepository(db.DB)
	reservationRepo := persistence.NewGormStockReservationRepository(db.DB)
	ledgerRepo := persistence.NewGormInventoryTransactionRepository(db.DB)
	sessionRepo := persistence.NewGormCheckoutSessionRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// All stock movements run inside one transaction scope so a hold,
	// its ledger row and the guarded stock update commit together
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	lowStockHandler := inventoryapp.NewLowStockHandler(log)
	eventBus.Subscribe(lowStockHandler)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inventory services
	ledgerService := inventoryapp.NewLedgerService(variantRepo, ledgerRepo, txScope, log)
	ledgerService.SetEventPublisher(eventBus)
	reservationService := inventoryapp.NewReservationService(reservationRepo, txScope, log)
	reservationService.SetEventPublisher(eventBus)
	reservationService.SetTTL(cfg.Reservation.TTL)

	// Cart, discount and order services
	mergeService := cartapp.NewMergeService(cartLineRepo, log)
	discountService := promotionapp.NewDiscountService(discountRepo, log)
	queryService := orderapp.NewQueryService(orderRepo, log)

	// Payment gateway
	stripeConfig := paymentinfra.NewStripeConfig(cfg.Payment)
	gateway, err := paymentinfra.NewStripeGateway(stripeConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}
	webhookDecoder := paymentinfra.NewStripeWebhookDecoder(cfg.Payment.WebhookSecret, log)

	// Checkout service
	checkoutService := checkoutapp.NewCheckoutService(
		variantRepo, sessionRepo, discountService, reservationService, gateway, log,
	).WithRedirectURLs(cfg.Payment.SuccessURL(), cfg.Payment.CancelURL())

	// Webhook settlement with duplicate fast path. Redis survives
	// restarts; the in-memory fallback still catches burst redeliveries.
	deduperFactory := cache.NewWebhookDeduperFactory(cfg.Redis, webhookDedupTTL, cache.WithLogger(log))
	deduper, err := deduperFactory.CreateDeduper()
	if err != nil {
		log.Fatal("Failed to create webhook deduper", zap.Error(err))
	}
	if closer, ok := deduper.(interface{ Close() error }); ok {
		defer func() {
			_ = closer.Close()
		}()
	}
	webhookService := paymentapp.NewWebhookService(
		webhookDecoder, sessionRepo, orderRepo, reservationService, ledgerService, log,
	).WithDeduper(deduper).WithFlatShipping(cfg.Payment.FlatShipping)

	// JWT validation for protected routes
	jwtService := auth.NewJWTService(cfg.JWT)

	// Background sweep returning expired holds to availability
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	expirationService := inventoryapp.NewReservationExpirationService(reservationRepo, reservationService, log)
	expirationService.SetInterval(cfg.Reservation.SweepInterval)
	expirationService.SetBatchSize(cfg.Reservation.SweepBatchSize)
	go expirationService.Run(sweepCtx)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Cart:      handler.NewCartHandler(mergeService),
		Discount:  handler.NewDiscountHandler(discountService),
		Checkout:  handler.NewCheckoutHandler(checkoutService),
		Inventory: handler.NewInventoryHandler(ledgerService, reservationService),
		Order:     handler.NewOrderHandler(queryService),
		Webhook:   handler.NewWebhookHandler(webhookService),
	}
	systemHandler := handler.NewSystemHandler(db.DB)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Span per request (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning, for probes)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.DefaultJWTConfig(jwtService)))
	for _, registrar := range router.StorefrontRoutes(handlers, jwtService) {
		r.Register(registrar)
	}
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
