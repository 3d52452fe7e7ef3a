package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/AbelC27/AcessIT/internal/accessit/service"
	"github.com/AbelC27/AcessIT/internal/accessit/store"
	memstore "github.com/AbelC27/AcessIT/internal/accessit/store/memory"
	sqlitestore "github.com/AbelC27/AcessIT/internal/accessit/store/sqlite"
	"github.com/AbelC27/AcessIT/internal/accessit/store/supabase"
	"github.com/AbelC27/AcessIT/internal/config"
	dbpkg "github.com/AbelC27/AcessIT/internal/db"
	"github.com/AbelC27/AcessIT/internal/device"
	"github.com/AbelC27/AcessIT/internal/httpapi"
	"github.com/AbelC27/AcessIT/internal/metrics"
)

func main() {
	cfg := config.MustLoad()
	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores
	userStore, logStore, cleanup, err := buildStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store init failed", zap.Error(err))
	}
	defer cleanup()

	// Actuator (optional)
	var unlocker device.Unlocker
	if cfg.UnlockURL != "" {
		unlocker = device.NewHTTPUnlocker(cfg.UnlockURL, cfg.StoreTimeout)
		logger.Info("door actuator configured", zap.String("url", cfg.UnlockURL))
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Service
	accessSvc := service.NewAccessService(service.Deps{
		Users:           userStore,
		Logs:            logStore,
		Unlocker:        unlocker,
		Logger:          logger,
		Metrics:         m,
		DefaultSchedule: cfg.DefaultSchedule,
	})

	pruner := service.NewLogPruner(logStore, service.PrunerConfig{
		RetentionDays: cfg.LogRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, logger)
	pruner.Start(ctx)
	defer pruner.Stop()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:        logger,
		Addr:          cfg.HTTPAddr,
		AccessService: accessSvc,
		Gatherer:      registry,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("backend", cfg.StoreBackend))
		if err := srv.Start(); err != nil {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// buildStores wires the configured persistence backend.  The returned
// cleanup releases whatever the backend holds open.
func buildStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.UserStore, store.AccessLogStore, func(), error) {
	switch cfg.StoreBackend {
	case "supabase":
		client := supabase.NewClient(supabase.Config{
			BaseURL:    cfg.SupabaseURL,
			ServiceKey: cfg.SupabaseServiceKey,
			Timeout:    cfg.StoreTimeout,
		})
		return client, client, func() {}, nil

	case "sqlite":
		conn, err := dbpkg.Open(ctx, dbpkg.Config{Path: cfg.DBPath, Env: cfg.Env})
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Env == "dev" {
			if err := dbpkg.SeedDev(ctx, conn); err != nil {
				logger.Warn("dev seed failed", zap.Error(err))
			}
		}
		writer := dbpkg.NewWorker(conn)
		cleanup := func() {
			writer.Close()
			_ = conn.Close()
		}
		return sqlitestore.NewUserStore(conn), sqlitestore.NewAccessLogStore(conn, writer), cleanup, nil

	case "memory":
		users := memstore.NewUserStore([]store.UserRecord{
			{ID: "emp-dev-001", Name: "Dev Employee", BluetoothCode: "DEVCODE01", AllowedSchedule: "08:00-18:00"},
		})
		return users, memstore.NewAccessLogStore(), func() {}, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func newLogger(env string) *zap.Logger {
	var zapCfg zap.Config
	if env == "prod" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.OutputPaths = []string{"stdout"}

	logger, err := zapCfg.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}
