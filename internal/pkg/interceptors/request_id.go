package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/interceptors/constants"
)

// WithRequestID stores id in ctx and in the outgoing gRPC metadata.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, constants.ContextKeyRequestID, id)
	return metadata.AppendToOutgoingContext(ctx, constants.HeaderXRequestId, id)
}

// RequestID returns the request id carried by ctx, or "" when there is none.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && id != "" {
		return id
	}
	return GetMetadataValue(ctx, constants.HeaderXRequestId)
}

// UnaryClientInterceptor forwards the request id of the calling context to
// the next service.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if md, ok := metadata.FromOutgoingContext(ctx); !ok || len(md.Get(constants.HeaderXRequestId)) == 0 {
			if id := RequestID(ctx); id != "" {
				ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderXRequestId, id)
			}
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// GetMetadataValue reads key from incoming metadata first, then outgoing.
func GetMetadataValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}

	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}
