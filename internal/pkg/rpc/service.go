package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
)

// Method describes one unary method; the service name is bound when the
// descriptor is built.
type Method func(service string) grpc.MethodDesc

// Unary adapts a typed handler into a gRPC method. Application errors are
// converted to status errors here so every server reports the same codes.
func Unary[Req, Resp any](name string, fn func(ctx context.Context, req *Req) (Resp, error)) Method {
	return func(service string) grpc.MethodDesc {
		fullMethod := "/" + service + "/" + name
		return grpc.MethodDesc{
			MethodName: name,
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := new(Req)
				if err := dec(in); err != nil {
					return nil, err
				}
				handler := func(ctx context.Context, req any) (any, error) {
					resp, err := fn(ctx, req.(*Req))
					if err != nil {
						return nil, apperr.ToStatus(err)
					}
					return resp, nil
				}
				if interceptor == nil {
					return handler(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
				return interceptor(ctx, in, info, handler)
			},
		}
	}
}

// ServiceDesc builds the descriptor for service from its methods.
func ServiceDesc(service string, methods ...Method) *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: service,
		HandlerType: (*any)(nil),
		Streams:     []grpc.StreamDesc{},
		Metadata:    service,
	}
	for _, m := range methods {
		desc.Methods = append(desc.Methods, m(service))
	}
	return desc
}

// Register declares service on s with impl as the receiver reported to
// interceptors.
func Register(s grpc.ServiceRegistrar, impl any, service string, methods ...Method) {
	s.RegisterService(ServiceDesc(service, methods...), impl)
}
