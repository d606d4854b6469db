package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jcmexdev/ecommerce-aggregates/internal/api-gateway/infra/adapters/service"
	"github.com/jcmexdev/ecommerce-aggregates/internal/api-gateway/infra/httpx"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/bootstrap"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/telemetry"
)

func main() {
	cfg := config.LoadGateway()
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, cfg.Name)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
	}
	reg, err := bootstrap.NewRegistry(cfg.Registry, redisClient)
	if err != nil {
		slog.Error("failed to build registry", "error", err)
		os.Exit(1)
	}
	dialer := rpc.NewDialer(reg)
	defer dialer.Close()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(service.NewGRPCServices(dialer), cfg.RequestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("API Gateway running", "addr", cfg.HTTPAddr, "registry", cfg.Registry.Kind)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
