package mappers

import (
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/product-service/domain"
)

func ProductToDTO(p domain.Product) contracts.Product {
	return contracts.Product{
		ProductID:    p.ID,
		ProductTitle: p.ProductTitle,
		ImageURL:     p.ImageURL,
		SKU:          p.SKU,
		PriceUnit:    p.PriceUnit,
		Quantity:     p.Quantity,
	}
}

func ProductFromDTO(d contracts.Product) domain.Product {
	return domain.Product{
		ID:           d.ProductID,
		ProductTitle: d.ProductTitle,
		ImageURL:     d.ImageURL,
		SKU:          d.SKU,
		PriceUnit:    d.PriceUnit,
		Quantity:     d.Quantity,
	}
}
