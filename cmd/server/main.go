package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mamadbah2/fabric-ledger/internal/config"
	"github.com/mamadbah2/fabric-ledger/internal/metrics"
	"github.com/mamadbah2/fabric-ledger/internal/repository/mongodb"
	"github.com/mamadbah2/fabric-ledger/internal/repository/sheets"
	"github.com/mamadbah2/fabric-ledger/internal/scheduler"
	"github.com/mamadbah2/fabric-ledger/internal/server/handlers"
	"github.com/mamadbah2/fabric-ledger/internal/server/router"
	fabricsvc "github.com/mamadbah2/fabric-ledger/internal/service/fabrics"
	reportingsvc "github.com/mamadbah2/fabric-ledger/internal/service/reporting"
	"github.com/mamadbah2/fabric-ledger/pkg/clients/notifier"
	"github.com/mamadbah2/fabric-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoRepo.EnsureIndexes(indexCtx); err != nil {
		baseLogger.Warn("failed to ensure mongodb indexes", zap.Error(err))
	}
	cancelIndexes()

	var ledger fabricsvc.LedgerRecorder
	if cfg.Sheets.Enabled() {
		appender, err := sheets.NewGoogleSheetsAppender(context.Background(), cfg.Sheets)
		if err != nil {
			baseLogger.Fatal("failed to init sheets ledger", zap.Error(err))
		}
		ledger = sheets.NewLedger(appender, logger.Named(baseLogger, "repo.sheets"))
		baseLogger.Info("google sheets ledger enabled")
	}

	var notifierClient notifier.Client
	if cfg.Notifier.WebhookURL != "" {
		notifierClient = notifier.NewClient(cfg.Notifier)
		baseLogger.Info("weekly digest notifier enabled")
	} else {
		baseLogger.Warn("report webhook url missing, weekly digest will only be stored")
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	fabricSvc := fabricsvc.NewService(mongoRepo, ledger, m, logger.Named(baseLogger, "svc.fabrics"))
	reportingSvc := reportingsvc.NewService(mongoRepo, loc, logger.Named(baseLogger, "svc.reporting"))

	engine := router.New(router.Options{
		Fabrics:        handlers.NewFabricHandler(fabricSvc, logger.Named(baseLogger, "handlers.fabrics")),
		Reports:        handlers.NewReportHandler(reportingSvc, reportingSvc.Location(), logger.Named(baseLogger, "handlers.reports")),
		Metrics:        m,
		Gatherer:       prometheus.DefaultGatherer,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger.Named(baseLogger, "router"),
	})

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, reportingSvc, notifierClient, m, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
