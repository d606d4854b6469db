package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/database"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc/rpctest"
	"github.com/jcmexdev/ecommerce-aggregates/internal/user-service/adapters/storage"
	"github.com/jcmexdev/ecommerce-aggregates/internal/user-service/app"
)

func newServices(t *testing.T) map[string]*app.UserService {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	gormStore, err := storage.New(db)
	require.NoError(t, err)
	memStore, err := storage.New(nil)
	require.NoError(t, err)

	hasher := app.BcryptHasher{Cost: bcrypt.MinCost}
	return map[string]*app.UserService{
		"memory": app.NewUserService(memStore, hasher, nil),
		"sqlite": app.NewUserService(gormStore, hasher, nil),
	}
}

func sampleUser() contracts.User {
	return contracts.User{
		FirstName: "selim",
		LastName:  "horri",
		Email:     "selim@mail.com",
		Phone:     "+21622125144",
		Addresses: []contracts.Address{
			{FullAddress: "1 rue", PostalCode: "1000", City: "Tunis"},
			{FullAddress: "2 rue", PostalCode: "2000", City: "Sousse"},
		},
		Credential: &contracts.Credential{
			Username:           "selimhorri",
			Password:           "0000",
			RoleBasedAuthority: "ROLE_USER",
			IsEnabled:          true,
		},
	}
}

func TestUserServiceSaveAssignsOwnedIdentities(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := svc.Save(ctx, sampleUser())
			require.NoError(t, err)

			require.NotZero(t, saved.UserID)
			require.Len(t, saved.Addresses, 2)
			for _, a := range saved.Addresses {
				assert.NotZero(t, a.AddressID)
			}
			require.NotNil(t, saved.Credential)
			assert.NotZero(t, saved.Credential.CredentialID)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Credential.Password), []byte("0000")))

			got, err := svc.FindByID(ctx, saved.UserID)
			require.NoError(t, err)
			assert.Equal(t, saved, got)
		})
	}
}

func TestUserServiceWithoutCredentialOrAddresses(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := svc.Save(ctx, contracts.User{FirstName: "amine"})
			require.NoError(t, err)

			got, err := svc.FindByID(ctx, saved.UserID)
			require.NoError(t, err)
			assert.Nil(t, got.Credential)
			assert.NotNil(t, got.Addresses)
			assert.Empty(t, got.Addresses)
		})
	}
}

func TestUserServiceUpdateReplacesOwnedEntities(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := svc.Save(ctx, sampleUser())
			require.NoError(t, err)

			saved.Addresses = saved.Addresses[:1]
			saved.Addresses[0].City = "Bizerte"
			saved.Credential = nil
			updated, err := svc.UpdateByID(ctx, saved.UserID, saved)
			require.NoError(t, err)

			got, err := svc.FindByID(ctx, saved.UserID)
			require.NoError(t, err)
			assert.Equal(t, updated, got)
			require.Len(t, got.Addresses, 1)
			assert.Equal(t, "Bizerte", got.Addresses[0].City)
			assert.Nil(t, got.Credential)
		})
	}
}

func TestUserServiceFindByUsername(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := svc.Save(ctx, sampleUser())
			require.NoError(t, err)
			_, err = svc.Save(ctx, contracts.User{FirstName: "other"})
			require.NoError(t, err)

			got, err := svc.FindByUsername(ctx, "selimhorri")
			require.NoError(t, err)
			assert.Equal(t, saved.UserID, got.UserID)

			_, err = svc.FindByUsername(ctx, "nobody")
			assert.True(t, apperr.IsNotFound(err))

			_, err = svc.FindByUsername(ctx, "")
			assert.True(t, apperr.IsInvalid(err))
		})
	}
}

func TestUserServiceDeleteCredential(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := svc.Save(ctx, sampleUser())
			require.NoError(t, err)

			out, err := svc.DeleteCredential(ctx, saved.UserID)
			require.NoError(t, err)
			assert.Nil(t, out.Credential)
			assert.Len(t, out.Addresses, 2)

			_, err = svc.FindByUsername(ctx, "selimhorri")
			assert.True(t, apperr.IsNotFound(err))

			_, err = svc.DeleteCredential(ctx, 999)
			assert.True(t, apperr.IsNotFound(err))
		})
	}
}

func TestUserServiceDeleteRemovesOwnedEntities(t *testing.T) {
	for name, svc := range newServices(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := svc.Save(ctx, sampleUser())
			require.NoError(t, err)

			require.NoError(t, svc.DeleteByID(ctx, saved.UserID))
			_, err = svc.FindByID(ctx, saved.UserID)
			assert.True(t, apperr.IsNotFound(err))
			_, err = svc.FindByUsername(ctx, "selimhorri")
			assert.True(t, apperr.IsNotFound(err))
		})
	}
}

func TestUserServiceOverGRPC(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)["memory"]
	net := rpctest.NewNetwork(t)
	net.Serve(identity.KindUser, func(s grpc.ServiceRegistrar) { svc.Register(s) })
	client := rpc.NewClient[int, contracts.User](identity.KindUser, net)

	saved, err := client.Save(ctx, sampleUser())
	require.NoError(t, err)

	var byName contracts.User
	err = client.Call(ctx, contracts.MethodFindByUsername, "selimhorri",
		&contracts.UsernameRequest{Username: "selimhorri"}, &byName)
	require.NoError(t, err)
	assert.Equal(t, saved, byName)

	var stripped contracts.User
	err = client.Call(ctx, contracts.MethodDeleteCredential, saved.UserID,
		&rpc.IDRequest[int]{ID: saved.UserID}, &stripped)
	require.NoError(t, err)
	assert.Nil(t, stripped.Credential)

	_, err = client.FindByID(ctx, 12345)
	assert.True(t, apperr.IsNotFound(err))
}
