package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/ecommerce-aggregates/internal/api-gateway/core/ports"
	"github.com/jcmexdev/ecommerce-aggregates/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
)

// NewRouter maps the REST surface onto services. requestTimeout bounds
// each request including every backend call it makes; zero disables it.
func NewRouter(services ports.Services, requestTimeout time.Duration) http.Handler {
	h := NewHandler(services)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			resource[int, contracts.User]{svc: services.Users, parseID: pathID("id")}.mount(r, "/{id}")
			r.Delete("/{id}/credential", h.DeleteCredential)
		})
		r.Get("/credentials/username/{username}", h.FindByUsername)

		r.Route("/products", func(r chi.Router) {
			resource[int, contracts.Product]{svc: services.Products, parseID: pathID("id")}.mount(r, "/{id}")
		})
		r.Route("/orders", func(r chi.Router) {
			resource[int, contracts.Order]{svc: services.Orders, parseID: pathID("id")}.mount(r, "/{id}")
		})
		r.Route("/shippings", func(r chi.Router) {
			resource[identity.OrderItemID, contracts.OrderItem]{svc: services.Shipping, parseID: orderItemID}.
				mount(r, "/{orderId}/{productId}")
			r.Get("/order/{orderId}", h.ListShippingsByOrder)
		})
		// singular path used by existing clients
		r.Get("/shipping/order/{orderId}", h.ListShippingsByOrder)
		r.Route("/payments", func(r chi.Router) {
			resource[int, contracts.Payment]{svc: services.Payments, parseID: pathID("id")}.mount(r, "/{id}")
		})
		r.Route("/favourites", func(r chi.Router) {
			resource[int, contracts.Favourite]{svc: services.Favourites, parseID: pathID("id")}.mount(r, "/{id}")
			r.Get("/user/{userId}", h.FindFavouritesByUser)
		})
	})

	return otelhttp.NewHandler(r, "api-gateway")
}
