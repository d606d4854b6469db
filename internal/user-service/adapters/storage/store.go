package storage

import (
	"gorm.io/gorm"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/database"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/store"
	"github.com/jcmexdev/ecommerce-aggregates/internal/user-service/domain"
)

type UserStore = store.Store[int, domain.User]

func NewMemoryStore() *store.MemoryStore[int, domain.User] {
	return store.NewMemoryStore(domain.UserKey,
		store.WithClone(domain.User.Clone),
		store.WithAssign(func(u *domain.User, seq *store.Sequence) {
			store.AssignInt(seq, "user", &u.ID)
			for i := range u.Addresses {
				store.AssignInt(seq, "address", &u.Addresses[i].ID)
				u.Addresses[i].UserID = u.ID
			}
			if u.Credential != nil {
				store.AssignInt(seq, "credential", &u.Credential.ID)
				u.Credential.UserID = u.ID
			}
		}),
	)
}

// New returns a gorm store over db, or an in-memory store when db is nil.
func New(db *gorm.DB) (UserStore, error) {
	if db == nil {
		return NewMemoryStore(), nil
	}
	if err := database.Migrate(db, &domain.User{}, &domain.Address{}, &domain.Credential{}); err != nil {
		return nil, err
	}
	return store.NewGormStore[int, domain.User](db, store.IntKey("id")).WithPrune(pruneOwned), nil
}

// pruneOwned removes addresses and credentials the saved user no longer holds.
func pruneOwned(tx *gorm.DB, u *domain.User) error {
	keep := make([]int, 0, len(u.Addresses))
	for _, a := range u.Addresses {
		keep = append(keep, a.ID)
	}
	q := tx.Where("user_id = ?", u.ID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	if err := q.Delete(&domain.Address{}).Error; err != nil {
		return err
	}

	q = tx.Where("user_id = ?", u.ID)
	if u.Credential != nil {
		q = q.Where("id <> ?", u.Credential.ID)
	}
	return q.Delete(&domain.Credential{}).Error
}
