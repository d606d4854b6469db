package domain

import (
	"time"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/store"
)

type Favourite struct {
	ID        int `gorm:"primaryKey"`
	UserID    int `gorm:"index"`
	ProductID int
	LikeDate  time.Time
}

func FavouriteKey(f Favourite) int { return f.ID }

func ByUser(userID int) store.Filter[Favourite] {
	return store.Column("user_id", userID, func(f Favourite) int { return f.UserID })
}
