// Package rpctest runs aggregate services in-process over bufconn so tests
// can wire several services together and take any of them down.
package rpctest

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
)

const bufSize = 1 << 20

type node struct {
	lis  *bufconn.Listener
	srv  *grpc.Server
	conn *grpc.ClientConn
}

// Network is an rpc.ConnSource over in-memory listeners.
type Network struct {
	t     testing.TB
	mu    sync.Mutex
	nodes map[identity.Kind]*node
}

var _ rpc.ConnSource = (*Network)(nil)

func NewNetwork(t testing.TB) *Network {
	t.Helper()
	n := &Network{t: t, nodes: make(map[identity.Kind]*node)}
	t.Cleanup(n.close)
	return n
}

// Serve starts a server for kind with the services added by register.
func (n *Network) Serve(kind identity.Kind, register func(s grpc.ServiceRegistrar)) {
	n.t.Helper()

	lis := bufconn.Listen(bufSize)
	srv := rpc.NewServer()
	register(srv)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///"+string(kind),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(interceptors.UnaryClientInterceptor()),
	)
	if err != nil {
		n.t.Fatalf("rpctest: client for %s: %v", kind, err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.nodes[kind] = &node{lis: lis, srv: srv, conn: conn}
}

// Stop takes the server for kind down while keeping its client, so calls
// fail the way they do against a crashed service.
func (n *Network) Stop(kind identity.Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if nd, ok := n.nodes[kind]; ok {
		nd.srv.Stop()
		_ = nd.lis.Close()
	}
}

func (n *Network) Conn(_ context.Context, kind identity.Kind) (grpc.ClientConnInterface, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	nd, ok := n.nodes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no %s service on the test network", apperr.ErrServiceUnavailable, kind)
	}
	return nd.conn, nil
}

func (n *Network) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, nd := range n.nodes {
		_ = nd.conn.Close()
		nd.srv.Stop()
		_ = nd.lis.Close()
	}
}
