// Package telemetry sets up structured logging and OpenTelemetry tracing.
//
// Every binary calls SetupTracer after InitLogger and defers the returned
// ShutdownFunc. Spans recorded by the otelgrpc stats handlers and the
// gateway's otelhttp handler are then batched to the collector.
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/config"
)

// DisabledEndpoint turns tracing off when set as the OTLP endpoint.
const DisabledEndpoint = "none"

const (
	defaultEndpoint   = "localhost:4317"
	defaultBatchDelay = 5 * time.Second
)

// ShutdownFunc flushes buffered spans and closes the exporter connection.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// SetupTracer installs the W3C propagators and, unless
// OTEL_EXPORTER_OTLP_ENDPOINT is "none", a batching TracerProvider that
// exports spans for serviceName over OTLP/gRPC.
func SetupTracer(ctx context.Context, serviceName string) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	endpoint := config.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", defaultEndpoint)
	if endpoint == DisabledEndpoint {
		return noopShutdown, nil
	}

	conn, err := grpc.NewClient(stripScheme(endpoint), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("telemetry: dial collector %s: %w", endpoint, err)
	}

	tp, err := newProvider(ctx, conn, serviceName)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			_ = conn.Close()
			return fmt.Errorf("telemetry: shutdown tracer provider: %w", err)
		}
		return conn.Close()
	}, nil
}

func newProvider(ctx context.Context, conn *grpc.ClientConn, serviceName string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("telemetry: create otlp exporter: %w", err)
	}

	res, err := newResource(serviceName)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(config.Duration("OTEL_BSP_SCHEDULE_DELAY", defaultBatchDelay)),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	), nil
}

// newResource tags spans with the service name and the deployment
// environment from OTEL_RESOURCE_ATTRIBUTES_ENV.
func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes("",
		semconv.ServiceName(serviceName),
		semconv.DeploymentEnvironment(config.GetEnv("OTEL_RESOURCE_ATTRIBUTES_ENV", "local")),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}
	return res, nil
}

// stripScheme turns "http://host:port" into the bare target grpc.NewClient
// expects.
func stripScheme(endpoint string) string {
	for _, prefix := range []string{"http://", "https://"} {
		if rest, ok := strings.CutPrefix(endpoint, prefix); ok && rest != "" {
			return rest
		}
	}
	return endpoint
}
