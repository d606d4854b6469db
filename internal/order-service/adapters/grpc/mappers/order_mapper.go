package mappers

import (
	"github.com/jcmexdev/ecommerce-aggregates/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
)

// OrderToDTO leaves OrderItems nil; only composition fills them.
func OrderToDTO(o domain.Order) contracts.Order {
	return contracts.Order{
		OrderID:   o.ID,
		OrderDate: o.OrderDate,
		OrderDesc: o.OrderDesc,
		OrderFee:  o.OrderFee,
	}
}

func OrderFromDTO(d contracts.Order) domain.Order {
	return domain.Order{
		ID:        d.OrderID,
		OrderDate: d.OrderDate,
		OrderDesc: d.OrderDesc,
		OrderFee:  d.OrderFee,
	}
}
