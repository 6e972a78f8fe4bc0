package admin

import (
	"net/http"

	"bookshelf/internal/httpx"
	"bookshelf/internal/pagination"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Users handles GET /api/admin/users
func (h *HTTPHandler) Users(w http.ResponseWriter, r *http.Request) {
	page, size := pagination.FromQuery(r.URL.Query())
	result, err := h.service.Users(r.Context(), page, size)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, result.Items, result.Meta.Map())
}

// Reviews handles GET /api/admin/reviews
func (h *HTTPHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	page, size := pagination.FromQuery(r.URL.Query())
	result, err := h.service.Reviews(r.Context(), page, size)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, result.Items, result.Meta.Map())
}

// DeleteReview handles DELETE /api/admin/reviews/{id}
func (h *HTTPHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteReview(r.Context(), r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
