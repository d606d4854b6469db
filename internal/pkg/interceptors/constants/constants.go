// Package constants names the request id header and the context key that
// the gateway middleware and the gRPC interceptors share.
package constants

type contextKey string

const (
	HeaderXRequestId = "x-request-id"

	ContextKeyRequestID contextKey = HeaderXRequestId
)
