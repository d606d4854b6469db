package rpc

import "context"

const (
	MethodFindAll    = "FindAll"
	MethodFindByID   = "FindByID"
	MethodLookup     = "Lookup"
	MethodSave       = "Save"
	MethodUpdate     = "Update"
	MethodUpdateByID = "UpdateByID"
	MethodDeleteByID = "DeleteByID"
)

type Empty struct{}

type IDRequest[ID any] struct {
	ID ID `json:"id"`
}

type UpdateRequest[ID, DTO any] struct {
	ID   ID  `json:"id"`
	Body DTO `json:"body"`
}

// CRUD is the uniform operation set every aggregate service exposes.
type CRUD[ID, DTO any] interface {
	FindAll(ctx context.Context) ([]DTO, error)
	FindByID(ctx context.Context, id ID) (DTO, error)
	Lookup(ctx context.Context, id ID) (DTO, error)
	Save(ctx context.Context, dto DTO) (DTO, error)
	Update(ctx context.Context, dto DTO) (DTO, error)
	UpdateByID(ctx context.Context, id ID, dto DTO) (DTO, error)
	DeleteByID(ctx context.Context, id ID) error
}

// CRUDMethods exposes svc as gRPC methods.
func CRUDMethods[ID, DTO any](svc CRUD[ID, DTO]) []Method {
	return []Method{
		Unary(MethodFindAll, func(ctx context.Context, _ *Empty) ([]DTO, error) {
			return svc.FindAll(ctx)
		}),
		Unary(MethodFindByID, func(ctx context.Context, in *IDRequest[ID]) (DTO, error) {
			return svc.FindByID(ctx, in.ID)
		}),
		Unary(MethodLookup, func(ctx context.Context, in *IDRequest[ID]) (DTO, error) {
			return svc.Lookup(ctx, in.ID)
		}),
		Unary(MethodSave, func(ctx context.Context, in *DTO) (DTO, error) {
			return svc.Save(ctx, *in)
		}),
		Unary(MethodUpdate, func(ctx context.Context, in *DTO) (DTO, error) {
			return svc.Update(ctx, *in)
		}),
		Unary(MethodUpdateByID, func(ctx context.Context, in *UpdateRequest[ID, DTO]) (DTO, error) {
			return svc.UpdateByID(ctx, in.ID, in.Body)
		}),
		Unary(MethodDeleteByID, func(ctx context.Context, in *IDRequest[ID]) (*Empty, error) {
			if err := svc.DeleteByID(ctx, in.ID); err != nil {
				return nil, err
			}
			return &Empty{}, nil
		}),
	}
}
