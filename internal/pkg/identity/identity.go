// Package identity defines aggregate kinds and the identity values used to
// address aggregates across service boundaries.
package identity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
)

// Kind names an aggregate type. It appears in errors, registry entries and
// cache keys.
type Kind string

const (
	KindUser      Kind = "user"
	KindProduct   Kind = "product"
	KindOrder     Kind = "order"
	KindOrderItem Kind = "order-item"
	KindPayment   Kind = "payment"
	KindFavourite Kind = "favourite"
)

// Kinds lists every aggregate kind with a dedicated owning service.
var Kinds = []Kind{KindUser, KindProduct, KindOrder, KindOrderItem, KindPayment, KindFavourite}

func (k Kind) String() string { return string(k) }

// NotFound builds the not-found error for an aggregate of this kind.
func (k Kind) NotFound(id any) error {
	return apperr.NotFound(string(k), id)
}

// Invalid builds the error for an identity of this kind that cannot refer
// to any aggregate.
func (k Kind) Invalid(id any) error {
	return fmt.Errorf("%s %v: %w", k, id, apperr.ErrInvalidIdentity)
}

// OrderItemID identifies an order item by the pair (order, product).
// Both parts are significant and ordered: (1,2) and (2,1) are different
// items. The struct is comparable and safe to use as a map key.
type OrderItemID struct {
	OrderID   int `json:"orderId"`
	ProductID int `json:"productId"`
}

func NewOrderItemID(orderID, productID int) OrderItemID {
	return OrderItemID{OrderID: orderID, ProductID: productID}
}

// Valid reports whether both parts are populated.
func (id OrderItemID) Valid() bool {
	return id.OrderID > 0 && id.ProductID > 0
}

// String is meant for logs only.
func (id OrderItemID) String() string {
	return fmt.Sprintf("(orderId=%d, productId=%d)", id.OrderID, id.ProductID)
}

// ValidID reports whether a scalar identity refers to a stored aggregate.
func ValidID(id int) bool { return id > 0 }

// ParseID parses a scalar identity taken from a path parameter.
func ParseID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: missing id", apperr.ErrInvalidIdentity)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", apperr.ErrInvalidIdentity, raw)
	}
	if !ValidID(id) {
		return 0, fmt.Errorf("%w: %d is not positive", apperr.ErrInvalidIdentity, id)
	}
	return id, nil
}

// ParseOrderItemID parses both halves of a composite identity. A missing
// half is rejected rather than defaulted.
func ParseOrderItemID(orderID, productID string) (OrderItemID, error) {
	o, err := ParseID(orderID)
	if err != nil {
		return OrderItemID{}, fmt.Errorf("orderId: %w", err)
	}
	p, err := ParseID(productID)
	if err != nil {
		return OrderItemID{}, fmt.Errorf("productId: %w", err)
	}
	return NewOrderItemID(o, p), nil
}
