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
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/refs"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/telemetry"
	"github.com/jcmexdev/ecommerce-aggregates/internal/shipping-service/adapters/storage"
	"github.com/jcmexdev/ecommerce-aggregates/internal/shipping-service/app"
)

func main() {
	cfg := config.LoadService("shipping-service", identity.KindOrderItem, "9094")
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

	items, err := storage.New(rt.DB)
	if err != nil {
		slog.Error("failed to open order item store", "error", err)
		os.Exit(1)
	}
	orders := refs.NewResolver(identity.KindOrder,
		rpc.NewClient[int, contracts.Order](identity.KindOrder, rt.Dialer).Lookup,
		bootstrap.ResolverOptions[contracts.Order](rt)...)
	products := refs.NewResolver(identity.KindProduct,
		rpc.NewClient[int, contracts.Product](identity.KindProduct, rt.Dialer).Lookup,
		bootstrap.ResolverOptions[contracts.Product](rt)...)
	shippingSrv := app.NewShippingService(items, orders, products)

	if err := rt.Serve(ctx, shippingSrv.Register); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}
