package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountingapp "github.com/gestionale/backend/internal/application/accounting"
	companyapp "github.com/gestionale/backend/internal/application/company"
	registryapp "github.com/gestionale/backend/internal/application/registry"
	"github.com/gestionale/backend/internal/infrastructure/auth"
	"github.com/gestionale/backend/internal/infrastructure/config"
	"github.com/gestionale/backend/internal/infrastructure/logger"
	"github.com/gestionale/backend/internal/infrastructure/persistence"
	"github.com/gestionale/backend/internal/infrastructure/telemetry"
	"github.com/gestionale/backend/internal/interfaces/http/handler"
	"github.com/gestionale/backend/internal/interfaces/http/middleware"
	"github.com/gestionale/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabaseWithOptions(&cfg.Database, persistence.Options{
		Logger:       log,
		LogLevel:     logger.MapGormLogLevel(cfg.Log.Level),
		TraceEnabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	counterpartyRepo := persistence.NewGormCounterpartyRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	installmentRepo := persistence.NewGormInstallmentRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	financialRepo := persistence.NewGormFinancialAccountRepository(db.DB)
	operatingRepo := persistence.NewGormOperatingAccountRepository(db.DB)
	causeRepo := persistence.NewGormCauseCodeRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Application services
	companyService := companyapp.NewCompanyService(companyRepo)
	counterpartyService := registryapp.NewCounterpartyService(counterpartyRepo)
	documentService := accountingapp.NewDocumentService(documentRepo, installmentRepo, counterpartyRepo, uow)
	installmentService := accountingapp.NewInstallmentService(installmentRepo, ledgerRepo, causeRepo, uow)
	ledgerService := accountingapp.NewLedgerService(ledgerRepo, causeRepo, financialRepo, operatingRepo, uow)
	accountService := accountingapp.NewAccountService(financialRepo, operatingRepo, causeRepo)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	middleware.SetupValidator()

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(middleware.DefaultMaxBodyBytes))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	apiRouter := router.New(engine, router.WithAPIVersion("v1"))
	base := apiRouter.BasePath()

	publicPrefixes := []string{
		base + "/system",
		"/health",
	}

	// Authentication is enforced only when a signing secret is configured,
	// which config validation makes mandatory in production.
	if cfg.JWT.Secret != "" {
		jwtService := auth.NewJWTService(cfg.JWT)
		var blacklist auth.TokenBlacklist
		if rbl, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
			log.Warn("Token blacklist unavailable, revocation disabled", zap.Error(err))
		} else {
			blacklist = rbl
		}
		engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:       jwtService,
			TokenBlacklist:   blacklist,
			SkipPathPrefixes: publicPrefixes,
			Logger:           log,
		}))
	} else {
		log.Warn("No JWT secret configured, authentication disabled")
	}

	engine.Use(middleware.CompanyMiddleware(middleware.CompanyMiddlewareConfig{
		Required:  true,
		Validator: companyValidator{companyService},
		Logger:    log,
		SkipPathPrefixes: append(publicPrefixes,
			base+"/companies",
		),
	}))

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	apiRouter.Setup(router.Handlers{
		System:       handler.NewSystemHandler(),
		Company:      handler.NewCompanyHandler(companyService),
		Counterparty: handler.NewCounterpartyHandler(counterpartyService),
		Document:     handler.NewDocumentHandler(documentService, installmentService),
		Installment:  handler.NewInstallmentHandler(installmentService),
		Ledger:       handler.NewLedgerHandler(ledgerService),
		Account:      handler.NewAccountHandler(accountService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// companyValidator adapts the company service to the middleware contract
type companyValidator struct {
	companies *companyapp.CompanyService
}

func (v companyValidator) ValidateActive(ctx context.Context, id uuid.UUID) error {
	_, err := v.companies.GetActive(ctx, id)
	return err
}
