package mappers

import (
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/shipping-service/domain"
)

func OrderItemToDTO(i domain.OrderItem) contracts.OrderItem {
	return contracts.OrderItem{
		OrderID:         i.OrderID,
		ProductID:       i.ProductID,
		OrderedQuantity: i.OrderedQuantity,
	}
}

// OrderItemFromDTO drops the resolved references; only identities are stored.
func OrderItemFromDTO(d contracts.OrderItem) domain.OrderItem {
	return domain.OrderItem{
		OrderID:         d.OrderID,
		ProductID:       d.ProductID,
		OrderedQuantity: d.OrderedQuantity,
	}
}
