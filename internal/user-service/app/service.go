package app

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/aggregate"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/refs"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
	"github.com/jcmexdev/ecommerce-aggregates/internal/user-service/adapters/grpc/mappers"
	"github.com/jcmexdev/ecommerce-aggregates/internal/user-service/adapters/storage"
	"github.com/jcmexdev/ecommerce-aggregates/internal/user-service/domain"
)

// UserService owns users together with their addresses and credential.
type UserService struct {
	*aggregate.Service[int, domain.User, contracts.User]
	hasher PasswordHasher
}

// NewUserService builds the service over s. A nil hasher stores passwords
// as given; refCache may be nil.
func NewUserService(s storage.UserStore, hasher PasswordHasher, refCache cache.Cache) *UserService {
	var opts []aggregate.Option[int, domain.User, contracts.User]
	if refCache != nil {
		opts = append(opts, aggregate.WithWriteHook[int, domain.User, contracts.User](
			refs.InvalidateOnWrite(refCache, identity.KindUser)))
	}
	return &UserService{
		Service: aggregate.New(identity.KindUser, s,
			aggregate.Mapper[domain.User, contracts.User]{
				ToDTO:   mappers.UserToDTO,
				FromDTO: mappers.UserFromDTO,
			},
			aggregate.ScalarIdentity(
				func(u contracts.User) int { return u.UserID },
				func(u *contracts.User, id int) { u.UserID = id },
			),
			opts...,
		),
		hasher: hasher,
	}
}

func (s *UserService) Save(ctx context.Context, u contracts.User) (contracts.User, error) {
	if err := s.hashPassword(&u); err != nil {
		return contracts.User{}, err
	}
	return s.Service.Save(ctx, u)
}

func (s *UserService) Update(ctx context.Context, u contracts.User) (contracts.User, error) {
	if err := s.hashPassword(&u); err != nil {
		return contracts.User{}, err
	}
	return s.Service.Update(ctx, u)
}

func (s *UserService) UpdateByID(ctx context.Context, id int, u contracts.User) (contracts.User, error) {
	if err := s.hashPassword(&u); err != nil {
		return contracts.User{}, err
	}
	return s.Service.UpdateByID(ctx, id, u)
}

// FindByUsername returns the user whose credential carries username.
func (s *UserService) FindByUsername(ctx context.Context, username string) (contracts.User, error) {
	if username == "" {
		return contracts.User{}, apperr.Invalid("username is required")
	}
	users, err := s.Find(ctx, domain.ByUsername(username))
	if err != nil {
		return contracts.User{}, err
	}
	if len(users) == 0 {
		return contracts.User{}, apperr.NotFound("credential", username)
	}
	return users[0], nil
}

// DeleteCredential removes the credential of user id and returns the user
// without it. A user with no credential is returned unchanged.
func (s *UserService) DeleteCredential(ctx context.Context, id int) (contracts.User, error) {
	u, err := s.Lookup(ctx, id)
	if err != nil {
		return contracts.User{}, err
	}
	if u.Credential == nil {
		return u, nil
	}
	u.Credential = nil
	return s.Service.Update(ctx, u)
}

func (s *UserService) hashPassword(u *contracts.User) error {
	if s.hasher == nil || u.Credential == nil {
		return nil
	}
	hashed, err := s.hasher.Hash(u.Credential.Password)
	if err != nil {
		return fmt.Errorf("user: hash password: %w", err)
	}
	c := *u.Credential
	c.Password = hashed
	u.Credential = &c
	return nil
}

func (s *UserService) Register(r grpc.ServiceRegistrar) {
	methods := append(rpc.CRUDMethods[int, contracts.User](s),
		rpc.Unary(contracts.MethodFindByUsername, func(ctx context.Context, in *contracts.UsernameRequest) (contracts.User, error) {
			return s.FindByUsername(ctx, in.Username)
		}),
		rpc.Unary(contracts.MethodDeleteCredential, func(ctx context.Context, in *rpc.IDRequest[int]) (contracts.User, error) {
			return s.DeleteCredential(ctx, in.ID)
		}),
	)
	rpc.Register(r, s, contracts.UserService, methods...)
}
