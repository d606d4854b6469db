package contracts

import "github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"

// Fully qualified gRPC service names, one per aggregate kind.
const (
	UserService      = "ecommerce.user.v1.UserService"
	ProductService   = "ecommerce.product.v1.ProductService"
	OrderService     = "ecommerce.order.v1.OrderService"
	ShippingService  = "ecommerce.shipping.v1.ShippingService"
	PaymentService   = "ecommerce.payment.v1.PaymentService"
	FavouriteService = "ecommerce.favourite.v1.FavouriteService"
)

// ServiceName returns the gRPC service that owns kind.
func ServiceName(kind identity.Kind) string {
	switch kind {
	case identity.KindUser:
		return UserService
	case identity.KindProduct:
		return ProductService
	case identity.KindOrder:
		return OrderService
	case identity.KindOrderItem:
		return ShippingService
	case identity.KindPayment:
		return PaymentService
	case identity.KindFavourite:
		return FavouriteService
	}
	return ""
}
