package rpc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/interceptors"
)

// Resolver finds the address of the service owning a kind.
type Resolver interface {
	Resolve(ctx context.Context, kind identity.Kind) (string, error)
}

// Dialer resolves addresses on every call and keeps one client connection
// per address. Connections are lazy; dial failures surface on the RPC.
type Dialer struct {
	resolver Resolver
	opts     []grpc.DialOption

	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
}

var _ ConnSource = (*Dialer)(nil)

// DefaultDialOptions are plaintext, traced and request-id propagating.
func DefaultDialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.UnaryClientInterceptor()),
	}
}

func NewDialer(resolver Resolver, opts ...grpc.DialOption) *Dialer {
	if len(opts) == 0 {
		opts = DefaultDialOptions()
	}
	return &Dialer{
		resolver: resolver,
		opts:     opts,
		conns:    make(map[string]*grpc.ClientConn),
	}
}

func (d *Dialer) Conn(ctx context.Context, kind identity.Kind) (grpc.ClientConnInterface, error) {
	addr, err := d.resolver.Resolve(ctx, kind)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if conn, ok := d.conns[addr]; ok {
		return conn, nil
	}
	conn, err := grpc.NewClient(addr, d.opts...)
	if err != nil {
		return nil, fmt.Errorf("rpc: connect %s at %s: %w", kind, addr, err)
	}
	d.conns[addr] = conn
	return conn, nil
}

// Close closes every pooled connection.
func (d *Dialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for addr, conn := range d.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", addr, err))
		}
		delete(d.conns, addr)
	}
	return errors.Join(errs...)
}
