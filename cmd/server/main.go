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

	ledgerapp "github.com/medledger/backend/internal/application/ledger"
	"github.com/medledger/backend/internal/domain/ledger"
	"github.com/medledger/backend/internal/domain/shared"
	"github.com/medledger/backend/internal/infrastructure/cache"
	"github.com/medledger/backend/internal/infrastructure/config"
	"github.com/medledger/backend/internal/infrastructure/logger"
	"github.com/medledger/backend/internal/infrastructure/persistence"
	"github.com/medledger/backend/internal/interfaces/http/handler"
	"github.com/medledger/backend/internal/interfaces/http/middleware"
	"github.com/medledger/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting MedLedger Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

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

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentTransactionRepository(db.DB)
	accountRepo := persistence.NewGormHSAAccountRepository(db.DB)

	// Idempotency store: Redis when enabled, in-process otherwise
	idempotencyStore := cache.NewIdempotencyStore(cfg.Redis, log)
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Application services
	classifier := ledger.NewEligibilityClassifier(
		ledger.WithStrictness(ledger.Strictness(cfg.Engine.Strictness)),
	)
	invoiceService := ledgerapp.NewInvoiceService(invoiceRepo, paymentRepo, accountRepo, classifier)
	paymentService := ledgerapp.NewPaymentService(paymentRepo, invoiceRepo, idempotencyStore,
		shared.IdempotencyConfig{TTL: cfg.Engine.IdempotencyTTL, Enabled: true})
	accountService := ledgerapp.NewAccountService(accountRepo)
	vaultService := ledgerapp.NewVaultService(invoiceRepo, cfg.Engine.DefaultAnnualReturn)
	dashboardService := ledgerapp.NewDashboardService(invoiceRepo, paymentRepo, accountRepo, classifier)

	// Handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	accountHandler := handler.NewAccountHandler(accountService)
	vaultHandler := handler.NewVaultHandler(vaultService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
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

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Every ledger route needs the caller identity forwarded by the
	// fronting gateway
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.Use(middleware.RequireUser())

	ledgerRoutes.POST("/invoices", invoiceHandler.Create)
	ledgerRoutes.GET("/invoices", invoiceHandler.List)
	ledgerRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	ledgerRoutes.GET("/invoices/:id/breakdown", invoiceHandler.GetBreakdown)
	ledgerRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	ledgerRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	ledgerRoutes.GET("/invoices/:id/payments", paymentHandler.ListByInvoice)

	ledgerRoutes.POST("/payments", paymentHandler.Record)
	ledgerRoutes.POST("/payments/:id/reimburse", paymentHandler.MarkReimbursed)
	ledgerRoutes.DELETE("/payments/:id", paymentHandler.Delete)

	ledgerRoutes.POST("/accounts", accountHandler.Create)
	ledgerRoutes.GET("/accounts", accountHandler.List)
	ledgerRoutes.GET("/accounts/eligibility", accountHandler.CheckEligibility)
	ledgerRoutes.GET("/accounts/:id", accountHandler.GetByID)
	ledgerRoutes.POST("/accounts/:id/close", accountHandler.Close)
	ledgerRoutes.DELETE("/accounts/:id", accountHandler.Delete)

	ledgerRoutes.GET("/vault/summary", vaultHandler.GetSummary)
	ledgerRoutes.GET("/dashboard/summary", dashboardHandler.GetSummary)
	r.Register(ledgerRoutes)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	r.Setup()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler answers liveness probes, reporting database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
