package storage

import (
	"gorm.io/gorm"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/database"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/store"
	"github.com/jcmexdev/ecommerce-aggregates/internal/product-service/domain"
)

type ProductStore = store.Store[int, domain.Product]

func NewMemoryStore() *store.MemoryStore[int, domain.Product] {
	return store.NewMemoryStore(domain.ProductKey,
		store.WithAssign(func(p *domain.Product, seq *store.Sequence) {
			store.AssignInt(seq, "product", &p.ID)
		}),
	)
}

// New returns a gorm store over db, or an in-memory store when db is nil.
func New(db *gorm.DB) (ProductStore, error) {
	if db == nil {
		return NewMemoryStore(), nil
	}
	if err := database.Migrate(db, &domain.Product{}); err != nil {
		return nil, err
	}
	return store.NewGormStore[int, domain.Product](db, store.IntKey("id")), nil
}
