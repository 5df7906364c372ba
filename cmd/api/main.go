package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Essateric/chaiiwala-sub001/internal/cache"
	"github.com/Essateric/chaiiwala-sub001/internal/config"
	"github.com/Essateric/chaiiwala-sub001/internal/metrics"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
	"github.com/Essateric/chaiiwala-sub001/internal/server"
	"github.com/Essateric/chaiiwala-sub001/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if masked, err := cfg.MaskedJSON(); err == nil {
		log.Printf("config: %s", masked)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, storage.Options{
		Driver:          cfg.DBDriver,
		DatabaseURL:     cfg.DatabaseURL,
		SQLitePath:      cfg.SQLitePath,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer db.Close()
	log.Printf("storage: connected to %s", cfg.DBDriver)

	// ── Cache ───────────────────────────────────────────────
	var jobCache cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("cache: redis at %s unreachable, continuing: %v", cfg.RedisAddr, err)
		}
		jobCache = cache.NewRedis(client, "chaiiwala:")
	}

	// ── Metrics ─────────────────────────────────────────────
	var sink metrics.Sink = metrics.NewNoopSink()
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		sink = metrics.NewPrometheusSink(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// ── Services ────────────────────────────────────────────
	deps := server.Assemble(db, server.Options{
		Driver:          cfg.DBDriver,
		Issuer:          access.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Cache:           jobCache,
		CacheTTL:        cfg.CacheTTL,
		Metrics:         sink,
		Location:        cfg.Location(),
		DefaultMoveTime: cfg.DefaultMoveTime,
	})
	deps.MetricsHandler = metricsHandler
	deps.MetricsPath = cfg.MetricsPath

	if cfg.AdminEmail != "" {
		if _, err := deps.Users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			log.Fatalf("users: seed admin: %v", err)
		}
	}

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewRouter(deps),
	}
	go func() {
		log.Printf("Chaiiwala job log API starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http: shutdown: %v", err)
	}
}
