package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/bootstrap"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/telemetry"
	"github.com/jcmexdev/ecommerce-aggregates/internal/product-service/adapters/storage"
	"github.com/jcmexdev/ecommerce-aggregates/internal/product-service/app"
)

func main() {
	cfg := config.LoadService("product-service", identity.KindProduct, "9092")
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

	rt, err := bootstrap.Start(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	products, err := storage.New(rt.DB)
	if err != nil {
		slog.Error("failed to open product store", "error", err)
		os.Exit(1)
	}
	productSrv := app.NewProductService(products, rt.Cache)

	if err := rt.Serve(ctx, productSrv.Register); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}
