package ports

import (
	"context"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
)

// AggregateService is what the gateway needs from any owning service.
type AggregateService[ID, DTO any] interface {
	FindAll(ctx context.Context) ([]DTO, error)
	FindByID(ctx context.Context, id ID) (DTO, error)
	Save(ctx context.Context, dto DTO) (DTO, error)
	Update(ctx context.Context, dto DTO) (DTO, error)
	UpdateByID(ctx context.Context, id ID, dto DTO) (DTO, error)
	DeleteByID(ctx context.Context, id ID) error
}

type UserService interface {
	AggregateService[int, contracts.User]
	FindByUsername(ctx context.Context, username string) (contracts.User, error)
	DeleteCredential(ctx context.Context, userID int) (contracts.User, error)
}

type ShippingService interface {
	AggregateService[identity.OrderItemID, contracts.OrderItem]
	ListByOrder(ctx context.Context, orderID int) ([]contracts.OrderItem, error)
}

type FavouriteService interface {
	AggregateService[int, contracts.Favourite]
	FindByUser(ctx context.Context, userID int) ([]contracts.Favourite, error)
}

// Services groups the backends the gateway routes to.
type Services struct {
	Users      UserService
	Products   AggregateService[int, contracts.Product]
	Orders     AggregateService[int, contracts.Order]
	Shipping   ShippingService
	Payments   AggregateService[int, contracts.Payment]
	Favourites FavouriteService
}
