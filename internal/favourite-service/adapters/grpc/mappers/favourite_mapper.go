package mappers

import (
	"github.com/jcmexdev/ecommerce-aggregates/internal/favourite-service/domain"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
)

func FavouriteToDTO(f domain.Favourite) contracts.Favourite {
	return contracts.Favourite{
		FavouriteID: f.ID,
		UserID:      f.UserID,
		ProductID:   f.ProductID,
		LikeDate:    f.LikeDate,
	}
}

func FavouriteFromDTO(d contracts.Favourite) domain.Favourite {
	return domain.Favourite{
		ID:        d.FavouriteID,
		UserID:    d.UserID,
		ProductID: d.ProductID,
		LikeDate:  d.LikeDate,
	}
}
