package app

import (
	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/aggregate"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/refs"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
	"github.com/jcmexdev/ecommerce-aggregates/internal/product-service/adapters/grpc/mappers"
	"github.com/jcmexdev/ecommerce-aggregates/internal/product-service/adapters/storage"
	"github.com/jcmexdev/ecommerce-aggregates/internal/product-service/domain"
)

// ProductService owns products. It has no references to compose.
type ProductService struct {
	*aggregate.Service[int, domain.Product, contracts.Product]
}

// NewProductService builds the service over s. refCache may be nil; when
// set, writes drop the cached lookups other services keep of a product.
func NewProductService(s storage.ProductStore, refCache cache.Cache) *ProductService {
	var opts []aggregate.Option[int, domain.Product, contracts.Product]
	if refCache != nil {
		opts = append(opts, aggregate.WithWriteHook[int, domain.Product, contracts.Product](
			refs.InvalidateOnWrite(refCache, identity.KindProduct)))
	}
	return &ProductService{
		Service: aggregate.New(identity.KindProduct, s,
			aggregate.Mapper[domain.Product, contracts.Product]{
				ToDTO:   mappers.ProductToDTO,
				FromDTO: mappers.ProductFromDTO,
			},
			aggregate.ScalarIdentity(
				func(p contracts.Product) int { return p.ProductID },
				func(p *contracts.Product, id int) { p.ProductID = id },
			),
			opts...,
		),
	}
}

func (s *ProductService) Register(r grpc.ServiceRegistrar) {
	rpc.Register(r, s, contracts.ProductService, rpc.CRUDMethods[int, contracts.Product](s)...)
}
