package storage

import (
	"gorm.io/gorm"

	"github.com/jcmexdev/ecommerce-aggregates/internal/payment-service/domain"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/database"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/store"
)

type PaymentStore = store.Store[int, domain.Payment]

func NewMemoryStore() *store.MemoryStore[int, domain.Payment] {
	return store.NewMemoryStore(domain.PaymentKey,
		store.WithAssign(func(p *domain.Payment, seq *store.Sequence) {
			store.AssignInt(seq, "payment", &p.ID)
		}),
	)
}

// New returns a gorm store over db, or an in-memory store when db is nil.
func New(db *gorm.DB) (PaymentStore, error) {
	if db == nil {
		return NewMemoryStore(), nil
	}
	if err := database.Migrate(db, &domain.Payment{}); err != nil {
		return nil, err
	}
	return store.NewGormStore[int, domain.Payment](db, store.IntKey("id")), nil
}
