package domain

import (
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/store"
)

// OrderItem is keyed by (order, product). Neither part is generated.
type OrderItem struct {
	OrderID         int `gorm:"primaryKey;autoIncrement:false"`
	ProductID       int `gorm:"primaryKey;autoIncrement:false"`
	OrderedQuantity int
}

func (i OrderItem) Key() identity.OrderItemID {
	return identity.NewOrderItemID(i.OrderID, i.ProductID)
}

// KeyColumns selects the row stored under id.
func KeyColumns(id identity.OrderItemID) map[string]any {
	return map[string]any{"order_id": id.OrderID, "product_id": id.ProductID}
}

func ByOrder(orderID int) store.Filter[OrderItem] {
	return store.Column("order_id", orderID, func(i OrderItem) int { return i.OrderID })
}
