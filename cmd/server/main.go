package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"

	"roadcheck/internal/audit"
	httpapi "roadcheck/internal/http"
	inspectionhandler "roadcheck/internal/inspection/handler"
	inspectionmetrics "roadcheck/internal/inspection/metrics"
	inspectionservice "roadcheck/internal/inspection/service"
	findingstore "roadcheck/internal/inspection/store/finding"
	inspectionstore "roadcheck/internal/inspection/store/inspection"
	"roadcheck/internal/platform/config"
	"roadcheck/internal/platform/httpserver"
	"roadcheck/internal/platform/logger"
	"roadcheck/internal/platform/metrics"
	"roadcheck/internal/platform/middleware"
	platformredis "roadcheck/internal/platform/redis"
	"roadcheck/internal/rules/cache"
	ruleshandler "roadcheck/internal/rules/handler"
	rulesmetrics "roadcheck/internal/rules/metrics"
	rulesservice "roadcheck/internal/rules/service"
	rulestore "roadcheck/internal/rules/store/rule"
	versionstore "roadcheck/internal/rules/store/version"
)

const auditOutboxSize = 256

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	// Stores default to in-memory; a configured DSN switches everything to
	// PostgreSQL so a single binary serves both development and production.
	var (
		versions    rulesservice.VersionStore         = versionstore.NewInMemory()
		rules       rulesservice.RuleStore            = rulestore.NewInMemory()
		sources     audit.SourceStore                 = audit.NewInMemorySourceStore()
		inspections inspectionservice.InspectionStore = inspectionstore.NewInMemory()
		findings    inspectionservice.FindingStore    = findingstore.NewInMemory()
	)

	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		defer db.Close()

		versions = versionstore.NewPostgres(db)
		rules = rulestore.NewPostgres(db)
		sources = audit.NewPostgresSourceStore(db)
		inspections = inspectionstore.NewPostgres(db)
		findings = findingstore.NewPostgres(db)
		log.Info("using postgres stores")
	}

	versionCache := cache.VersionCache(cache.NewInMemory(cfg.Redis.CacheTTL))
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		versionCache = cache.NewRedis(redisClient.Client, cfg.Redis.CacheTTL, log)
		log.Info("using redis version cache")
	}

	// Audit events flow through a buffered channel into a worker so emission
	// never blocks request handling. The sink is Kafka when brokers are
	// configured, otherwise the in-memory store.
	var auditSink audit.Store = audit.NewInMemoryStore()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			return fmt.Errorf("connect kafka audit sink: %w", err)
		}
		defer func() { _ = kafkaStore.Close(context.Background()) }()
		auditSink = kafkaStore
		log.Info("using kafka audit sink", "topic", cfg.Kafka.AuditTopic)
	}

	auditOutbox := make(chan audit.Event, auditOutboxSize)
	auditWorker := audit.NewWorker(auditSink, auditOutbox, log)
	go func() {
		if err := auditWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()
	auditPublisher := audit.NewChannelPublisher(auditOutbox, log)

	rulesSvc := rulesservice.New(versions, rules, sources,
		rulesservice.WithLogger(log),
		rulesservice.WithCache(versionCache),
		rulesservice.WithAuditPublisher(auditPublisher),
		rulesservice.WithMetrics(rulesmetrics.New()),
	)
	inspectionSvc := inspectionservice.New(inspections, findings, rulesSvc,
		inspectionservice.WithLogger(log),
		inspectionservice.WithAuditPublisher(auditPublisher),
		inspectionservice.WithMetrics(inspectionmetrics.New()),
	)

	router := httpapi.NewRouter(
		log,
		metrics.New(),
		middleware.NewValidator(cfg.Server.JWTSigningKey),
		middleware.NewRateLimiter(cfg.Server.RateLimitPerMinute, time.Minute),
		ruleshandler.New(rulesSvc, log),
		inspectionhandler.New(inspectionSvc, log),
	)

	srv := httpserver.New(cfg.Server.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting roadcheck", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
