package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mailgun-admin/config"
	httpHandler "mailgun-admin/internal/adapter/http/handler"
	"mailgun-admin/internal/adapter/mailgun"
	fileStorage "mailgun-admin/internal/adapter/storage/file"
	pgStorage "mailgun-admin/internal/adapter/storage/postgres"
	redisStorage "mailgun-admin/internal/adapter/storage/redis"
	"mailgun-admin/internal/core/ports"
	"mailgun-admin/internal/service"
	"mailgun-admin/pkg/logger"
	"mailgun-admin/pkg/telemetry"
	"mailgun-admin/resources"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("MG_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	production := cfg.Server.IsProduction()

	if err := cfg.JWT.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Refusing to start without an admin token secret")
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Mailgun admin")

	ctx := context.Background()

	// Tracing (optional)
	tel, err := telemetry.Setup(ctx, cfg.OTel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Tracer shutdown failed")
		}
	}()
	serviceName := ""
	if cfg.OTel.Enabled() {
		serviceName = cfg.OTel.ServiceName
		log.Info().Str("endpoint", cfg.OTel.Endpoint).Msg("Tracing enabled")
	}

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	cacheStore := redisStorage.NewCacheStore(rdb)
	nonceStore := redisStorage.NewNonceStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)
	healthCheckers := []ports.HealthChecker{redisStorage.NewCacheHealth(rdb)}

	// Initialize PostgreSQL pool (optional)
	var (
		auditRepo    ports.AuditRepository
		payloadAudit []ports.PayloadAuditor
	)
	if cfg.Database.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		log.Info().Msg("PostgreSQL connected")

		if err := pgStorage.RunMigrations(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}

		auditRepo = pgStorage.NewAuditRepo(pool)
		if cfg.Webhook.AuditToDatabase {
			payloadAudit = append(payloadAudit, service.RepositoryAuditor{Repo: pgStorage.NewWebhookPayloadRepo(pool)})
		}
		healthCheckers = append(healthCheckers, pgStorage.NewAuditStoreHealth(pool))
	}

	// Webhook payload files
	if cfg.Webhook.LogDir != "" {
		payloadAudit = append(payloadAudit, fileStorage.NewPayloadLog(resolvePath(cfg.Server.BaseDir, cfg.Webhook.LogDir), !production))
	}

	// Provider client and read side
	client := mailgun.NewClient(cfg.Mailgun, nil, log)
	cache := service.NewCacheGateway(cacheStore, cfg.Cache, log)
	reader := service.NewProviderReader(client, cache, cfg.Cache)
	addr := service.NewAddressResolver(cfg.Site, cfg.Webhook, cfg.Server)

	// Core services
	sigSvc := service.NewHMACSignatureService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(auditRepo, log)

	reconSvc := service.NewReconciliationService(client, reader, cache, addr, cfg.Webhook.Events, log)
	dashboardSvc := service.NewDashboardService(reader, cache, addr, reconSvc, cfg.Admin, log)
	mailerSvc := service.NewMailerService(
		client,
		addr,
		fileStorage.NewMessageLog(resolvePath(cfg.Server.BaseDir, cfg.Mailgun.LogFolder)),
		service.MailerConfig{
			DisableSending: cfg.Mailgun.DisableSending,
			EnableLogging:  cfg.Mailgun.EnableLogging,
		},
		log,
	)

	// Webhook pipeline
	dispatcher := service.NewDispatcher(log)
	dispatcher.OnAny(service.LoggingHandler(log))

	signingKey := cfg.Webhook.SigningKey
	if signingKey == "" {
		signingKey = cfg.Mailgun.APIKey
	}
	ingestSvc := service.NewIngestionService(
		dispatcher,
		sigSvc,
		nonceStore,
		service.IngestionConfig{
			VerifySignature: cfg.Webhook.VerifySignature,
			SigningKey:      signingKey,
			TokenTTL:        cfg.Webhook.TokenTTL,
		},
		log,
		payloadAudit...,
	)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		DashboardSvc:      dashboardSvc,
		ReconciliationSvc: reconSvc,
		IngestionSvc:      ingestSvc,
		MailerSvc:         mailerSvc,
		AuditSvc:          auditSvc,
		AuditHistory:      auditRepo != nil,
		TokenSvc:          tokenSvc,
		RateLimitStore:    rateLimitStore,
		HealthCheckers:    healthCheckers,
		Production:        production,
		BaseDir:           cfg.Server.BaseDir,
		WebhookFixture:    resources.WebhookFixture,
		DeploymentDomain:  addr.Domain(),
		ServiceName:       serviceName,
		Logger:            log,
	})

	// HTTP Server with graceful shutdown
	listen := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", listen).
			Str("webhook_url", addr.WebhookURL()).
			Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// resolvePath anchors relative directories at the configured base dir.
func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
