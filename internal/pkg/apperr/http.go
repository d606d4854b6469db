package apperr

import "net/http"

// HTTPStatus picks the response status and error code for err.
func HTTPStatus(err error) (int, string) {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case IsInvalid(err):
		return http.StatusBadRequest, "invalid_request"
	case IsUnavailable(err):
		return http.StatusServiceUnavailable, "service_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
