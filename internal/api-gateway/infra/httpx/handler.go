package httpx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/ecommerce-aggregates/internal/api-gateway/core/ports"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/contracts"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
)

// resource serves the uniform REST surface of one aggregate.
type resource[ID, DTO any] struct {
	svc     ports.AggregateService[ID, DTO]
	parseID func(r *http.Request) (ID, error)
}

func (h resource[ID, DTO]) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.FindAll(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contracts.Collection(all))
}

func (h resource[ID, DTO]) get(w http.ResponseWriter, r *http.Request) {
	id, err := h.parseID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	dto, err := h.svc.FindByID(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h resource[ID, DTO]) create(w http.ResponseWriter, r *http.Request) {
	var body DTO
	if !decodeBody(w, r, &body) {
		return
	}
	saved, err := h.svc.Save(r.Context(), body)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h resource[ID, DTO]) update(w http.ResponseWriter, r *http.Request) {
	var body DTO
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := h.svc.Update(r.Context(), body)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h resource[ID, DTO]) updateByID(w http.ResponseWriter, r *http.Request) {
	id, err := h.parseID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	var body DTO
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := h.svc.UpdateByID(r.Context(), id, body)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h resource[ID, DTO]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.parseID(r)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := h.svc.DeleteByID(r.Context(), id); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mount registers the resource under r. idPattern addresses one aggregate,
// e.g. "/{id}".
func (h resource[ID, DTO]) mount(r chi.Router, idPattern string) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/", h.update)
	r.Get(idPattern, h.get)
	r.Put(idPattern, h.updateByID)
	r.Delete(idPattern, h.delete)
}

func pathID(param string) func(r *http.Request) (int, error) {
	return func(r *http.Request) (int, error) {
		return identity.ParseID(chi.URLParam(r, param))
	}
}

func orderItemID(r *http.Request) (identity.OrderItemID, error) {
	return identity.ParseOrderItemID(chi.URLParam(r, "orderId"), chi.URLParam(r, "productId"))
}

// Handler serves the routes that fall outside the uniform resource set.
type Handler struct {
	services ports.Services
}

func NewHandler(services ports.Services) *Handler {
	return &Handler{services: services}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// FindByUsername returns the user holding the credential.
func (h *Handler) FindByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.services.Users.FindByUsername(r.Context(), username)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	id, err := identity.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	user, err := h.services.Users.DeleteCredential(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) ListShippingsByOrder(w http.ResponseWriter, r *http.Request) {
	id, err := identity.ParseID(chi.URLParam(r, "orderId"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	items, err := h.services.Shipping.ListByOrder(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contracts.Collection(items))
}

func (h *Handler) FindFavouritesByUser(w http.ResponseWriter, r *http.Request) {
	id, err := identity.ParseID(chi.URLParam(r, "userId"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	favourites, err := h.services.Favourites.FindByUser(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contracts.Collection(favourites))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeError(w, status, code, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", fmt.Errorf("encode %T: %w", v, err))
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
