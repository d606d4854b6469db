package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/favourite-service/adapters/grpc/mappers"
	"github.com/jcmexdev/ecommerce-aggregates/internal/favourite-service/adapters/storage"
	"github.com/jcmexdev/ecommerce-aggregates/internal/favourite-service/domain"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/aggregate"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/refs"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
)

// FavouriteService owns favourites. Reads attach the user and the liked
// product.
type FavouriteService struct {
	*aggregate.Service[int, domain.Favourite, contracts.Favourite]
	now func() time.Time
}

func NewFavouriteService(
	s storage.FavouriteStore,
	users refs.Source[contracts.User],
	products refs.Source[contracts.Product],
) *FavouriteService {
	compose := func(ctx context.Context, f *contracts.Favourite) error {
		var (
			user    *contracts.Ref[contracts.User]
			product *contracts.Ref[contracts.Product]
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			user, err = users.Resolve(gctx, f.UserID)
			return err
		})
		g.Go(func() (err error) {
			product, err = products.Resolve(gctx, f.ProductID)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		f.User, f.Product = user, product
		return nil
	}

	return &FavouriteService{
		Service: aggregate.New(identity.KindFavourite, s,
			aggregate.Mapper[domain.Favourite, contracts.Favourite]{
				ToDTO:   mappers.FavouriteToDTO,
				FromDTO: mappers.FavouriteFromDTO,
			},
			aggregate.ScalarIdentity(
				func(f contracts.Favourite) int { return f.FavouriteID },
				func(f *contracts.Favourite, id int) { f.FavouriteID = id },
			),
			aggregate.WithCompose[int, domain.Favourite](compose),
			aggregate.WithCheck[int, domain.Favourite](checkFavourite),
		),
		now: time.Now,
	}
}

func checkFavourite(f contracts.Favourite) error {
	switch {
	case !identity.ValidID(f.UserID):
		return identity.KindUser.Invalid(f.UserID)
	case !identity.ValidID(f.ProductID):
		return identity.KindProduct.Invalid(f.ProductID)
	}
	return nil
}

// Save stamps the like date when the caller left it out.
func (s *FavouriteService) Save(ctx context.Context, f contracts.Favourite) (contracts.Favourite, error) {
	if f.LikeDate.IsZero() {
		f.LikeDate = s.now().UTC()
	}
	return s.Service.Save(ctx, f)
}

// FindByUser returns the composed favourites of one user.
func (s *FavouriteService) FindByUser(ctx context.Context, userID int) ([]contracts.Favourite, error) {
	if !identity.ValidID(userID) {
		return nil, identity.KindUser.Invalid(userID)
	}
	return s.Find(ctx, domain.ByUser(userID))
}

func (s *FavouriteService) Register(r grpc.ServiceRegistrar) {
	methods := append(rpc.CRUDMethods[int, contracts.Favourite](s),
		rpc.Unary(contracts.MethodFindByUser, func(ctx context.Context, in *rpc.IDRequest[int]) ([]contracts.Favourite, error) {
			return s.FindByUser(ctx, in.ID)
		}),
	)
	rpc.Register(r, s, contracts.FavouriteService, methods...)
}
