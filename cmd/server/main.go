package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/ledgerbook/backend/internal/application/finance"
	reportapp "github.com/ledgerbook/backend/internal/application/report"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/infrastructure/auth"
	"github.com/ledgerbook/backend/internal/infrastructure/cache"
	"github.com/ledgerbook/backend/internal/infrastructure/config"
	"github.com/ledgerbook/backend/internal/infrastructure/logger"
	"github.com/ledgerbook/backend/internal/infrastructure/persistence"
	"github.com/ledgerbook/backend/internal/infrastructure/telemetry"
	"github.com/ledgerbook/backend/internal/interfaces/http/handler"
	"github.com/ledgerbook/backend/internal/interfaces/http/middleware"
	"github.com/ledgerbook/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//	@title			Ledger Backend API
//	@version		1.0
//	@description	Payments, balances and financial reports for small businesses. Amounts are in NGN.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	devToken := flag.String("dev-token", "", "print a bearer token for this user id and exit (non-production only)")
	devRegistration := flag.String("dev-registration", string(shared.RegistrationSoleProprietorship), "registration type embedded by -dev-token")
	flag.Parse()

	// Amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if *devToken != "" {
		if err := printDevToken(cfg, *devToken, *devRegistration); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	logCfg := logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	provider, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			bootLog.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	// Rebuild the logger so entries also reach the OTLP log pipeline
	log := bootLog
	if core := provider.LogCore(logger.ParseLevel(cfg.Log.Level)); core != nil {
		if log, err = logger.New(logCfg, core); err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting ledger backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabase(&cfg.Database, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled,
		LogFullSQL: !cfg.App.IsProduction(),
	}, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	reportCache, err := cache.NewReportCacheFactory(cfg.Redis, cfg.Report, cache.WithLogger(log)).CreateCache()
	if err != nil {
		log.Fatal("Failed to create report cache", zap.Error(err))
	}
	defer func() { _ = reportCache.Close() }()

	metrics, err := telemetry.NewLedgerMetrics(provider.Meter("ledger"))
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}

	// Application services
	paymentService := financeapp.NewPaymentService(
		persistence.NewGormPaymentRepository(db.DB),
		persistence.NewGormPayableRepository(db.DB),
		persistence.NewGormTransactionScope(db.DB, cfg.Transaction),
	)
	paymentService.SetReportInvalidator(reportCache)
	paymentService.SetMetrics(metrics)

	reportService := reportapp.NewReportService(persistence.NewGormLedgerReader(db.DB))
	reportService.SetCache(reportCache)
	reportService.SetMetrics(metrics)

	jwtService := auth.NewJWTService(cfg.JWT)
	middleware.SetupValidator()

	healthHandler := handler.NewHealthHandler(version)
	healthHandler.AddCheck("database", func(context.Context) error { return db.Ping() })
	if pinger, ok := reportCache.(interface{ Ping(context.Context) error }); ok {
		healthHandler.AddCheck("report_cache", pinger.Ping)
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	// Middleware order:
	// Recovery and RequestID first so every later layer sees a request id,
	// tracing before logging so log lines carry the trace id,
	// then metrics, security headers, CORS and the body limit.
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(provider.Meter("ledger.http")))

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.HSTSEnabled = cfg.HTTP.HSTSEnabled
	engine.Use(middleware.SecureWithConfig(securityCfg))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSOrigins
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg), middleware.TracingAttributeInjector())
	r.Register(router.PaymentRoutes(handler.NewPaymentHandler(paymentService))).
		Register(router.ReportRoutes(handler.NewReportHandler(reportService))).
		Setup()
	router.RegisterHealth(engine, r.BasePath(), healthHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// printDevToken issues a token for local testing against the API
func printDevToken(cfg *config.Config, userID, registration string) error {
	if cfg.App.IsProduction() {
		return errors.New("-dev-token is disabled in production")
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	token, expiresAt, err := auth.NewJWTService(cfg.JWT).GenerateToken(shared.NewCaller(id, shared.RegistrationType(registration)))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Printf("%s\n# expires %s\n", token, expiresAt.Format(time.RFC3339))
	return nil
}
