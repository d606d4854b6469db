package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/interceptors"
)

// AttachTracingMetadata forwards the request id chi assigned to every
// backend call made while serving the request.
func AttachTracingMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := interceptors.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		w.Header().Set(middleware.RequestIDHeader, middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
