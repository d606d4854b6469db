// Package clients wraps rpc.Client with the methods some services expose
// beyond the shared CRUD set.
package clients

import (
	"context"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/rpc"
)

type Users struct {
	*rpc.Client[int, contracts.User]
}

func NewUsers(conns rpc.ConnSource) *Users {
	return &Users{Client: rpc.NewClient[int, contracts.User](identity.KindUser, conns)}
}

func (c *Users) FindByUsername(ctx context.Context, username string) (contracts.User, error) {
	var out contracts.User
	err := c.Call(ctx, contracts.MethodFindByUsername, username, &contracts.UsernameRequest{Username: username}, &out)
	return out, err
}

func (c *Users) DeleteCredential(ctx context.Context, userID int) (contracts.User, error) {
	var out contracts.User
	err := c.Call(ctx, contracts.MethodDeleteCredential, userID, &rpc.IDRequest[int]{ID: userID}, &out)
	return out, err
}

type Shipping struct {
	*rpc.Client[identity.OrderItemID, contracts.OrderItem]
}

func NewShipping(conns rpc.ConnSource) *Shipping {
	return &Shipping{Client: rpc.NewClient[identity.OrderItemID, contracts.OrderItem](identity.KindOrderItem, conns)}
}

// ListByOrder returns the items of orderID with their references.
func (c *Shipping) ListByOrder(ctx context.Context, orderID int) ([]contracts.OrderItem, error) {
	return c.list(ctx, contracts.MethodListByOrder, orderID)
}

// LookupByOrder returns the items of orderID without references.
func (c *Shipping) LookupByOrder(ctx context.Context, orderID int) ([]contracts.OrderItem, error) {
	return c.list(ctx, contracts.MethodLookupByOrder, orderID)
}

func (c *Shipping) list(ctx context.Context, method string, orderID int) ([]contracts.OrderItem, error) {
	var out []contracts.OrderItem
	if err := c.Call(ctx, method, orderID, &rpc.IDRequest[int]{ID: orderID}, &out); err != nil {
		return nil, err
	}
	return contracts.Collection(out), nil
}

type Favourites struct {
	*rpc.Client[int, contracts.Favourite]
}

func NewFavourites(conns rpc.ConnSource) *Favourites {
	return &Favourites{Client: rpc.NewClient[int, contracts.Favourite](identity.KindFavourite, conns)}
}

func (c *Favourites) FindByUser(ctx context.Context, userID int) ([]contracts.Favourite, error) {
	var out []contracts.Favourite
	if err := c.Call(ctx, contracts.MethodFindByUser, userID, &rpc.IDRequest[int]{ID: userID}, &out); err != nil {
		return nil, err
	}
	return contracts.Collection(out), nil
}
