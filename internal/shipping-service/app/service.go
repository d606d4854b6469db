package app

import (
	"context"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/aggregate"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/refs"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
	"github.com/jcmexdev/ecommerce-aggregates/internal/shipping-service/adapters/grpc/mappers"
	"github.com/jcmexdev/ecommerce-aggregates/internal/shipping-service/adapters/storage"
	"github.com/jcmexdev/ecommerce-aggregates/internal/shipping-service/domain"
)

type itemService = aggregate.Service[identity.OrderItemID, domain.OrderItem, contracts.OrderItem]

// ShippingService owns order items. Reads attach the order and the product
// each item points at.
type ShippingService struct {
	*itemService
}

// NewShippingService builds the service over s, resolving references
// through orders and products. Items are never referenced by other
// aggregates, so writes have no cache to invalidate.
func NewShippingService(
	s storage.OrderItemStore,
	orders refs.Source[contracts.Order],
	products refs.Source[contracts.Product],
) *ShippingService {
	return &ShippingService{
		itemService: aggregate.New(identity.KindOrderItem, s,
			aggregate.Mapper[domain.OrderItem, contracts.OrderItem]{
				ToDTO:   mappers.OrderItemToDTO,
				FromDTO: mappers.OrderItemFromDTO,
			},
			aggregate.Identity[identity.OrderItemID, contracts.OrderItem]{
				Of: func(i contracts.OrderItem) identity.OrderItemID {
					return identity.NewOrderItemID(i.OrderID, i.ProductID)
				},
				Set: func(i *contracts.OrderItem, id identity.OrderItemID) {
					i.OrderID, i.ProductID = id.OrderID, id.ProductID
				},
				Valid: identity.OrderItemID.Valid,
			},
			aggregate.WithCompose[identity.OrderItemID, domain.OrderItem](composeItem(orders, products)),
		),
	}
}

// ListByOrder returns the composed items of one order.
func (s *ShippingService) ListByOrder(ctx context.Context, orderID int) ([]contracts.OrderItem, error) {
	if !identity.ValidID(orderID) {
		return nil, identity.KindOrder.Invalid(orderID)
	}
	return s.Find(ctx, domain.ByOrder(orderID))
}

// LookupByOrder is ListByOrder without references. The order service
// composes its items through it.
func (s *ShippingService) LookupByOrder(ctx context.Context, orderID int) ([]contracts.OrderItem, error) {
	if !identity.ValidID(orderID) {
		return nil, identity.KindOrder.Invalid(orderID)
	}
	return s.LookupWhere(ctx, domain.ByOrder(orderID))
}

func composeItem(orders refs.Source[contracts.Order], products refs.Source[contracts.Product]) aggregate.ComposeFunc[contracts.OrderItem] {
	return func(ctx context.Context, item *contracts.OrderItem) error {
		var (
			order   *contracts.Ref[contracts.Order]
			product *contracts.Ref[contracts.Product]
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			order, err = orders.Resolve(gctx, item.OrderID)
			return err
		})
		g.Go(func() error {
			var err error
			product, err = products.Resolve(gctx, item.ProductID)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		item.Order, item.Product = order, product
		return nil
	}
}

func (s *ShippingService) Register(r grpc.ServiceRegistrar) {
	methods := append(rpc.CRUDMethods[identity.OrderItemID, contracts.OrderItem](s),
		rpc.Unary(contracts.MethodListByOrder, func(ctx context.Context, in *rpc.IDRequest[int]) ([]contracts.OrderItem, error) {
			return s.ListByOrder(ctx, in.ID)
		}),
		rpc.Unary(contracts.MethodLookupByOrder, func(ctx context.Context, in *rpc.IDRequest[int]) ([]contracts.OrderItem, error) {
			return s.LookupByOrder(ctx, in.ID)
		}),
	)
	rpc.Register(r, s, contracts.ShippingService, methods...)
}
