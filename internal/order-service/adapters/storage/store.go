package storage

import (
	"gorm.io/gorm"

	"github.com/jcmexdev/ecommerce-aggregates/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/database"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/store"
)

type OrderStore = store.Store[int, domain.Order]

func NewMemoryStore() *store.MemoryStore[int, domain.Order] {
	return store.NewMemoryStore(domain.OrderKey,
		store.WithAssign(func(o *domain.Order, seq *store.Sequence) {
			store.AssignInt(seq, "order", &o.ID)
		}),
	)
}

// New returns a gorm store over db, or an in-memory store when db is nil.
func New(db *gorm.DB) (OrderStore, error) {
	if db == nil {
		return NewMemoryStore(), nil
	}
	if err := database.Migrate(db, &domain.Order{}); err != nil {
		return nil, err
	}
	return store.NewGormStore[int, domain.Order](db, store.IntKey("id")), nil
}
