package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/tickethub/internal/auth"
	"github.com/geocoder89/tickethub/internal/cache"
	"github.com/geocoder89/tickethub/internal/config"
	"github.com/geocoder89/tickethub/internal/db"
	httpx "github.com/geocoder89/tickethub/internal/http"
	"github.com/geocoder89/tickethub/internal/observability"
	"github.com/geocoder89/tickethub/internal/storage"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, "tickethub-api", cfg.OTELEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	if err := db.EnsureAdminUser(ctx, pool, cfg); err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	redisCache := cache.New(cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := redisCache.Ping(ctx); err != nil {
		// cache is an optimization, not a dependency
		log.Warn("redis unreachable, caching disabled", "err", err)
		_ = redisCache.Close()
		redisCache = nil
	}

	defer func() {
		if redisCache != nil {
			_ = redisCache.Close()
		}
	}()

	uploads, err := storage.NewDiskStore(cfg.UploadDir)

	if err != nil {
		log.Error("upload dir init failed", "err", err)
		os.Exit(1)
	}

	promReg := prometheus.NewRegistry()
	prom := observability.NewProm(promReg)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	router := httpx.NewRouter(httpx.Deps{
		Cfg:     cfg,
		Pool:    pool,
		Cache:   redisCache,
		JWT:     jwtManager,
		Prom:    prom,
		PromReg: promReg,
		Uploads: uploads,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)

		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}

	log.Info("shutdown complete")
}
