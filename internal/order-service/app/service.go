package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/order-service/adapters/grpc/mappers"
	"github.com/jcmexdev/ecommerce-aggregates/internal/order-service/adapters/storage"
	"github.com/jcmexdev/ecommerce-aggregates/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/aggregate"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/refs"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
)

// productLookups bounds the concurrent product lookups of one order.
const productLookups = 8

// ItemSource lists the items of an order without their references.
type ItemSource interface {
	LookupByOrder(ctx context.Context, orderID int) ([]contracts.OrderItem, error)
}

// Deps are the collaborators of the order service. Policy governs the item
// listing; product lookups carry their own. RefCache is optional.
type Deps struct {
	Items    ItemSource
	Products refs.Source[contracts.Product]
	Policy   refs.Policy
	RefCache cache.Cache
}

// OrderService owns orders. Reads attach the order's items, each with its
// product resolved.
type OrderService struct {
	*aggregate.Service[int, domain.Order, contracts.Order]
	now func() time.Time
}

func NewOrderService(s storage.OrderStore, deps Deps) *OrderService {
	opts := []aggregate.Option[int, domain.Order, contracts.Order]{
		aggregate.WithCompose[int, domain.Order](composeOrder(deps)),
	}
	if deps.RefCache != nil {
		opts = append(opts, aggregate.WithWriteHook[int, domain.Order, contracts.Order](
			refs.InvalidateOnWrite(deps.RefCache, identity.KindOrder)))
	}
	return &OrderService{
		Service: aggregate.New(identity.KindOrder, s,
			aggregate.Mapper[domain.Order, contracts.Order]{
				ToDTO:   mappers.OrderToDTO,
				FromDTO: mappers.OrderFromDTO,
			},
			aggregate.ScalarIdentity(
				func(o contracts.Order) int { return o.OrderID },
				func(o *contracts.Order, id int) { o.OrderID = id },
			),
			opts...,
		),
		now: time.Now,
	}
}

// Save stamps the order date when the caller left it out.
func (s *OrderService) Save(ctx context.Context, o contracts.Order) (contracts.Order, error) {
	if o.OrderDate.IsZero() {
		o.OrderDate = s.now().UTC()
	}
	return s.Service.Save(ctx, o)
}

func composeOrder(deps Deps) aggregate.ComposeFunc[contracts.Order] {
	return func(ctx context.Context, o *contracts.Order) error {
		items, err := refs.Fetch(ctx, deps.Policy, identity.KindOrderItem, o.OrderID,
			func(ctx context.Context) ([]contracts.OrderItem, error) {
				return deps.Items.LookupByOrder(ctx, o.OrderID)
			})
		if err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(productLookups)
		for i := range items {
			g.Go(func() error {
				product, err := deps.Products.Resolve(gctx, items[i].ProductID)
				if err != nil {
					return err
				}
				// the enclosing order is not repeated on its items
				items[i].Order = nil
				items[i].Product = product
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		o.OrderItems = contracts.Collection(items)
		return nil
	}
}

func (s *OrderService) Register(r grpc.ServiceRegistrar) {
	rpc.Register(r, s, contracts.OrderService, rpc.CRUDMethods[int, contracts.Order](s)...)
}
