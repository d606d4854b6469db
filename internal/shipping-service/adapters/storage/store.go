package storage

import (
	"gorm.io/gorm"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/database"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/store"
	"github.com/jcmexdev/ecommerce-aggregates/internal/shipping-service/domain"
)

type OrderItemStore = store.Store[identity.OrderItemID, domain.OrderItem]

// NewMemoryStore keeps items under their composite key. No identity is
// ever assigned.
func NewMemoryStore() *store.MemoryStore[identity.OrderItemID, domain.OrderItem] {
	return store.NewMemoryStore(domain.OrderItem.Key)
}

// New returns a gorm store over db, or an in-memory store when db is nil.
func New(db *gorm.DB) (OrderItemStore, error) {
	if db == nil {
		return NewMemoryStore(), nil
	}
	if err := database.Migrate(db, &domain.OrderItem{}); err != nil {
		return nil, err
	}
	return store.NewGormStore[identity.OrderItemID, domain.OrderItem](db, domain.KeyColumns), nil
}
