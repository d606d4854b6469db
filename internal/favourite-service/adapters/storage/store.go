package storage

import (
	"gorm.io/gorm"

	"github.com/jcmexdev/ecommerce-aggregates/internal/favourite-service/domain"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/database"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/store"
)

type FavouriteStore = store.Store[int, domain.Favourite]

func NewMemoryStore() *store.MemoryStore[int, domain.Favourite] {
	return store.NewMemoryStore(domain.FavouriteKey,
		store.WithAssign(func(f *domain.Favourite, seq *store.Sequence) {
			store.AssignInt(seq, "favourite", &f.ID)
		}),
	)
}

// New returns a gorm store over db, or an in-memory store when db is nil.
func New(db *gorm.DB) (FavouriteStore, error) {
	if db == nil {
		return NewMemoryStore(), nil
	}
	if err := database.Migrate(db, &domain.Favourite{}); err != nil {
		return nil, err
	}
	return store.NewGormStore[int, domain.Favourite](db, store.IntKey("id")), nil
}
