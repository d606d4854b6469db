package rpc_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc/rpctest"
)

// productCatalog is a minimal rpc.CRUD used to exercise the transport.
type productCatalog struct {
	mu       sync.Mutex
	next     int
	products map[int]contracts.Product
}

func newProductCatalog() *productCatalog {
	return &productCatalog{products: make(map[int]contracts.Product)}
}

func (c *productCatalog) FindAll(context.Context) ([]contracts.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]contracts.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	return out, nil
}

func (c *productCatalog) FindByID(_ context.Context, id int) (contracts.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return contracts.Product{}, identity.KindProduct.NotFound(id)
	}
	return p, nil
}

func (c *productCatalog) Lookup(ctx context.Context, id int) (contracts.Product, error) {
	return c.FindByID(ctx, id)
}

func (c *productCatalog) Save(_ context.Context, p contracts.Product) (contracts.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.ProductID == 0 {
		c.next++
		p.ProductID = c.next
	}
	c.products[p.ProductID] = p
	return p, nil
}

func (c *productCatalog) Update(ctx context.Context, p contracts.Product) (contracts.Product, error) {
	if p.ProductID == 0 {
		return contracts.Product{}, apperr.Invalid("productId is required")
	}
	return c.Save(ctx, p)
}

func (c *productCatalog) UpdateByID(ctx context.Context, id int, p contracts.Product) (contracts.Product, error) {
	p.ProductID = id
	return c.Update(ctx, p)
}

func (c *productCatalog) DeleteByID(_ context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.products, id)
	return nil
}

func setupProductClient(t *testing.T) (*rpctest.Network, *rpc.Client[int, contracts.Product]) {
	t.Helper()
	net := rpctest.NewNetwork(t)
	catalog := newProductCatalog()
	net.Serve(identity.KindProduct, func(s grpc.ServiceRegistrar) {
		rpc.Register(s, catalog, contracts.ProductService, rpc.CRUDMethods[int, contracts.Product](catalog)...)
	})
	return net, rpc.NewClient[int, contracts.Product](identity.KindProduct, net)
}

func TestClientCRUDOverGRPC(t *testing.T) {
	ctx := context.Background()
	_, client := setupProductClient(t)

	all, err := client.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	saved, err := client.Save(ctx, contracts.Product{ProductTitle: "mug", Quantity: 0, PriceUnit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.ProductID)

	got, err := client.FindByID(ctx, saved.ProductID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	updated, err := client.UpdateByID(ctx, saved.ProductID, contracts.Product{ProductTitle: "cup"})
	require.NoError(t, err)
	assert.Equal(t, "cup", updated.ProductTitle)
	assert.Equal(t, saved.ProductID, updated.ProductID)

	require.NoError(t, client.DeleteByID(ctx, saved.ProductID))
	_, err = client.Lookup(ctx, saved.ProductID)
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Kind)
	assert.Equal(t, saved.ProductID, nf.ID)
}

func TestClientMapsInvalidArgument(t *testing.T) {
	_, client := setupProductClient(t)

	_, err := client.Update(context.Background(), contracts.Product{ProductTitle: "no id"})
	assert.True(t, apperr.IsInvalid(err))
}

func TestClientReportsStoppedServiceAsUnavailable(t *testing.T) {
	net, client := setupProductClient(t)
	net.Stop(identity.KindProduct)

	_, err := client.Lookup(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrServiceUnavailable)
	assert.False(t, apperr.IsNotFound(err))
}

func TestClientReportsUnresolvableServiceAsUnavailable(t *testing.T) {
	client := rpc.NewClient[int, contracts.Product](identity.KindProduct, rpc.ConnFunc(
		func(context.Context, identity.Kind) (grpc.ClientConnInterface, error) {
			return nil, errors.New("registry down")
		}))

	_, err := client.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrServiceUnavailable)
}

type staticResolver map[identity.Kind]string

func (r staticResolver) Resolve(_ context.Context, kind identity.Kind) (string, error) {
	addr, ok := r[kind]
	if !ok {
		return "", apperr.Unavailable(string(kind), nil, nil)
	}
	return addr, nil
}

func TestDialerPoolsByAddress(t *testing.T) {
	d := rpc.NewDialer(staticResolver{
		identity.KindOrder:   "localhost:1",
		identity.KindPayment: "localhost:1",
		identity.KindUser:    "localhost:2",
	})
	defer d.Close()

	ctx := context.Background()
	a, err := d.Conn(ctx, identity.KindOrder)
	require.NoError(t, err)
	b, err := d.Conn(ctx, identity.KindPayment)
	require.NoError(t, err)
	c, err := d.Conn(ctx, identity.KindUser)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)

	_, err = d.Conn(ctx, identity.KindFavourite)
	assert.ErrorIs(t, err, apperr.ErrServiceUnavailable)
	assert.NoError(t, d.Close())
}
