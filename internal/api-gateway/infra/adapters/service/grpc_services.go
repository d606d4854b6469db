package service

import (
	"github.com/jcmexdev/ecommerce-aggregates/internal/api-gateway/core/ports"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/clients"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
)

// Compile-time checks that the gRPC clients satisfy the ports.
var _ ports.UserService = (*clients.Users)(nil)
var _ ports.ShippingService = (*clients.Shipping)(nil)
var _ ports.FavouriteService = (*clients.Favourites)(nil)
var _ ports.AggregateService[int, contracts.Product] = (*rpc.Client[int, contracts.Product])(nil)

// NewGRPCServices returns the gateway backends as gRPC clients over conns.
func NewGRPCServices(conns rpc.ConnSource) ports.Services {
	return ports.Services{
		Users:      clients.NewUsers(conns),
		Products:   rpc.NewClient[int, contracts.Product](identity.KindProduct, conns),
		Orders:     rpc.NewClient[int, contracts.Order](identity.KindOrder, conns),
		Shipping:   clients.NewShipping(conns),
		Payments:   rpc.NewClient[int, contracts.Payment](identity.KindPayment, conns),
		Favourites: clients.NewFavourites(conns),
	}
}
