package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
)

// ConnSource hands out a connection to the service owning kind.
type ConnSource interface {
	Conn(ctx context.Context, kind identity.Kind) (grpc.ClientConnInterface, error)
}

// ConnFunc adapts a function to ConnSource.
type ConnFunc func(ctx context.Context, kind identity.Kind) (grpc.ClientConnInterface, error)

func (f ConnFunc) Conn(ctx context.Context, kind identity.Kind) (grpc.ClientConnInterface, error) {
	return f(ctx, kind)
}

// Client calls the CRUD methods of the service owning one aggregate kind
// and maps status errors back into apperr values.
type Client[ID, DTO any] struct {
	kind    identity.Kind
	service string
	conns   ConnSource
}

func NewClient[ID, DTO any](kind identity.Kind, conns ConnSource) *Client[ID, DTO] {
	return &Client[ID, DTO]{kind: kind, service: contracts.ServiceName(kind), conns: conns}
}

func (c *Client[ID, DTO]) Kind() identity.Kind { return c.kind }

// Call invokes method with in and decodes the reply into out. id is only
// used to describe errors.
func (c *Client[ID, DTO]) Call(ctx context.Context, method string, id any, in, out any) error {
	conn, err := c.conns.Conn(ctx, c.kind)
	if err != nil {
		return apperr.Unavailable(string(c.kind), id, err)
	}
	err = conn.Invoke(ctx, "/"+c.service+"/"+method, in, out, grpc.CallContentSubtype(CodecName))
	return apperr.FromStatus(err, string(c.kind), id)
}

func (c *Client[ID, DTO]) FindAll(ctx context.Context) ([]DTO, error) {
	var out []DTO
	if err := c.Call(ctx, MethodFindAll, "*", &Empty{}, &out); err != nil {
		return nil, err
	}
	return contracts.Collection(out), nil
}

func (c *Client[ID, DTO]) FindByID(ctx context.Context, id ID) (DTO, error) {
	var out DTO
	err := c.Call(ctx, MethodFindByID, id, &IDRequest[ID]{ID: id}, &out)
	return out, err
}

// Lookup fetches the aggregate without composing its references.
func (c *Client[ID, DTO]) Lookup(ctx context.Context, id ID) (DTO, error) {
	var out DTO
	err := c.Call(ctx, MethodLookup, id, &IDRequest[ID]{ID: id}, &out)
	return out, err
}

func (c *Client[ID, DTO]) Save(ctx context.Context, dto DTO) (DTO, error) {
	var out DTO
	err := c.Call(ctx, MethodSave, "new", &dto, &out)
	return out, err
}

func (c *Client[ID, DTO]) Update(ctx context.Context, dto DTO) (DTO, error) {
	var out DTO
	err := c.Call(ctx, MethodUpdate, "body", &dto, &out)
	return out, err
}

func (c *Client[ID, DTO]) UpdateByID(ctx context.Context, id ID, dto DTO) (DTO, error) {
	var out DTO
	err := c.Call(ctx, MethodUpdateByID, id, &UpdateRequest[ID, DTO]{ID: id, Body: dto}, &out)
	return out, err
}

func (c *Client[ID, DTO]) DeleteByID(ctx context.Context, id ID) error {
	return c.Call(ctx, MethodDeleteByID, id, &IDRequest[ID]{ID: id}, &Empty{})
}
