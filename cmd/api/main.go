package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abenezerg/pluszone/internal/equb"
	"github.com/abenezerg/pluszone/internal/goal"
	"github.com/abenezerg/pluszone/internal/infra/filestore"
	infraredis "github.com/abenezerg/pluszone/internal/infra/redis"
	"github.com/abenezerg/pluszone/internal/ledger"
	"github.com/abenezerg/pluszone/internal/loan"
	"github.com/abenezerg/pluszone/internal/planned"
	"github.com/abenezerg/pluszone/internal/platform/digest"
	"github.com/abenezerg/pluszone/internal/platform/storage"
	"github.com/abenezerg/pluszone/internal/roadmap"
	"github.com/abenezerg/pluszone/internal/transport/httpapi"
	"github.com/abenezerg/pluszone/internal/transport/httpapi/handler"
	"github.com/abenezerg/pluszone/pkg/config"
	"github.com/abenezerg/pluszone/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDefault(cfg.Env)
	log.Info("Starting PlusZone API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"storage", cfg.StorageBackend,
	)

	// Select the storage backend
	var store storage.KV
	switch cfg.StorageBackend {
	case config.StorageRedis:
		redisStore, err := infraredis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword, log)
		if err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		store = redisStore
		log.Info("Redis storage ready", "addr", cfg.RedisURL)
	default:
		fileStore, err := filestore.New(cfg.DataDir, log)
		if err != nil {
			log.Error("Failed to open data directory", "error", err)
			os.Exit(1)
		}
		store = fileStore
		log.Info("File storage ready", "dir", cfg.DataDir)
	}

	// Initialize services. The ledger comes first: loan payments record
	// auto-generated expenses through it.
	ledgerSvc, err := ledger.NewService(ctx, store, log)
	if err != nil {
		log.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}
	loanSvc, err := loan.NewService(ctx, store, ledgerSvc, log)
	if err != nil {
		log.Error("Failed to load loans", "error", err)
		os.Exit(1)
	}
	equbSvc, err := equb.NewService(ctx, store, log)
	if err != nil {
		log.Error("Failed to load equbs", "error", err)
		os.Exit(1)
	}
	goalSvc, err := goal.NewService(ctx, store, log)
	if err != nil {
		log.Error("Failed to load goals", "error", err)
		os.Exit(1)
	}
	plannedSvc, err := planned.NewService(ctx, store, log)
	if err != nil {
		log.Error("Failed to load planned payments", "error", err)
		os.Exit(1)
	}
	tracker, err := roadmap.NewTracker(ctx, store, loanSvc, log)
	if err != nil {
		log.Error("Failed to load settlement marks", "error", err)
		os.Exit(1)
	}

	if err := ledgerSvc.Reconcile(); err != nil {
		log.Warn("Balance reconciliation mismatch at startup", "error", err)
	}

	// Schedule the daily obligation digest
	digestJob := digest.New(loanSvc, equbSvc, plannedSvc, tracker, log)
	digestCron, err := digestJob.Start(cfg.DigestSchedule)
	if err != nil {
		log.Error("Failed to schedule digest", "error", err, "schedule", cfg.DigestSchedule)
		os.Exit(1)
	}
	defer digestCron.Stop()
	log.Info("Obligation digest scheduled", "schedule", cfg.DigestSchedule)

	// Create HTTP router
	routerCfg := httpapi.Config{
		Logger:             log,
		AllowedOrigins:     cfg.AllowedOrigins,
		TransactionHandler: handler.NewTransactionHandler(ledgerSvc),
		WalletHandler:      handler.NewWalletHandler(ledgerSvc),
		LoanHandler:        handler.NewLoanHandler(loanSvc),
		EqubHandler:        handler.NewEqubHandler(equbSvc),
		GoalHandler:        handler.NewGoalHandler(goalSvc),
		PlannedHandler:     handler.NewPlannedHandler(plannedSvc),
		RoadmapHandler:     handler.NewRoadmapHandler(loanSvc, equbSvc, plannedSvc, tracker),
	}
	r := httpapi.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
