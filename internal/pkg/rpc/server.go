package rpc

import (
	"context"
	"log/slog"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/interceptors"
)

// NewServer returns a gRPC server with tracing and access logging.
func NewServer(opts ...grpc.ServerOption) *grpc.Server {
	base := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()),
	}
	return grpc.NewServer(append(base, opts...)...)
}

// Serve runs srv on lis until ctx is cancelled, then stops gracefully.
func Serve(ctx context.Context, srv *grpc.Server, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down gRPC server", "addr", lis.Addr().String())
		srv.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
