package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loglens/internal/access"
	"loglens/internal/activity"
	"loglens/internal/apps"
	"loglens/internal/directory"
	"loglens/internal/export"
	"loglens/internal/logs"
	"loglens/internal/notify"
	"loglens/internal/platform/config"
	"loglens/internal/platform/httpserver"
	"loglens/internal/platform/kafka"
	"loglens/internal/platform/logger"
	"loglens/internal/platform/metrics"
	"loglens/internal/platform/middleware"
	"loglens/internal/platform/postgres"
	redisclient "loglens/internal/platform/redis"
	"loglens/internal/retention"
	"loglens/internal/risk"
	httptransport "loglens/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := redisclient.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	kcl, err := kafka.New(cfg.KafkaSeeds)
	if err != nil {
		log.Error("kafka client failed", "error", err)
		os.Exit(1)
	}
	if kcl != nil {
		defer kcl.Close()
	}

	m := metrics.New()

	// Stores.
	groupStore := access.NewPostgresGroupStore(db)
	logStore := logs.NewPostgresLogStore(db)
	appStore := apps.NewPostgresStore(db)
	ruleStore := risk.NewPostgresRuleStore(db)
	policyStore := retention.NewPostgresPolicyStore(db)
	userStore := directory.NewPostgresUserStore(db)

	// Services.
	resolverOpts := []access.ResolverOption{access.WithLogger(log)}
	if rdb != nil {
		resolverOpts = append(resolverOpts, access.WithCache(access.NewScopeCache(rdb, cfg.ScopeCacheTTL)))
	}
	resolver, err := access.NewResolver(groupStore, resolverOpts...)
	if err != nil {
		log.Error("access resolver init failed", "error", err)
		os.Exit(1)
	}

	dir, err := directory.New(userStore)
	if err != nil {
		log.Error("directory init failed", "error", err)
		os.Exit(1)
	}

	logsvc, err := logs.New(resolver, logStore, appStore, logs.WithLogger(log))
	if err != nil {
		log.Error("log service init failed", "error", err)
		os.Exit(1)
	}

	agg, err := activity.New(logsvc, logStore, activity.WithLogger(log))
	if err != nil {
		log.Error("activity aggregator init failed", "error", err)
		os.Exit(1)
	}

	jobs := make(chan export.Job, cfg.ExportQueueSize)
	exporter, err := export.NewCoordinator(logsvc, logStore, jobs,
		export.WithThreshold(cfg.ExportThreshold),
		export.WithLogger(log),
		export.WithMetrics(m),
	)
	if err != nil {
		log.Error("export coordinator init failed", "error", err)
		os.Exit(1)
	}

	var notifier export.Notifier
	if smtpNotifier, err := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}); err != nil {
		log.Warn("smtp relay not configured, export deliveries will be logged only", "error", err)
		notifier = notify.NewLogNotifier(log)
	} else {
		notifier = smtpNotifier
	}

	worker, err := export.NewWorker(jobs, logStore, notifier,
		export.WorkerWithLogger(log),
		export.WorkerWithMetrics(m),
	)
	if err != nil {
		log.Error("export worker init failed", "error", err)
		os.Exit(1)
	}

	evaluator, err := risk.NewEvaluator(ruleStore, appStore, logStore,
		risk.WithLogger(log),
		risk.WithMetrics(m),
		risk.WithParallelism(cfg.RiskParallelism),
		risk.WithAlerts(risk.NewAlertPublisher(kcl, cfg.AlertTopic, log)),
	)
	if err != nil {
		log.Error("risk evaluator init failed", "error", err)
		os.Exit(1)
	}

	manager, err := retention.NewManager(policyStore, logStore,
		retention.WithIndexer(logStore),
		retention.WithLogger(log),
		retention.WithMetrics(m),
	)
	if err != nil {
		log.Error("retention manager init failed", "error", err)
		os.Exit(1)
	}
	if err := manager.Ensure(ctx); err != nil {
		log.Error("retention bootstrap failed", "error", err)
		os.Exit(1)
	}

	handler, err := httptransport.NewHandler(dir, logsvc, agg, exporter, evaluator, manager, log, m)
	if err != nil {
		log.Error("handler init failed", "error", err)
		os.Exit(1)
	}
	router := httptransport.NewRouter(handler, middleware.NewJWTValidator(cfg.JWTSigningKey))

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("export worker stopped", "error", err)
		}
	}()
	go func() {
		if err := manager.Run(ctx, cfg.SweepInterval); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("retention sweeper stopped", "error", err)
		}
	}()

	go func() {
		log.Info("starting loglens", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("loglens stopped")
}
