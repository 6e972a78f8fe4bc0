package review

import (
	"net/http"

	"bookshelf/internal/form"
	"bookshelf/internal/httpx"
	"bookshelf/internal/pagination"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type submitReq struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// ListForBook handles GET /api/books/{id}/reviews
func (h *HTTPHandler) ListForBook(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ForBook(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	page, size := pagination.FromQuery(r.URL.Query())
	result := pagination.Paginate(reviews, page, size)
	httpx.JSONSuccess(w, r, result.Items, result.Meta.Map())
}

// Submit handles POST /api/books/{id}/reviews
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := httpx.UserFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in to continue", nil)
		return
	}

	var req submitReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}

	created, err := h.service.Submit(r.Context(), user, form.ReviewForm{
		BookID:  r.PathValue("id"),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, created)
}

// Delete handles DELETE /api/reviews/{id}?bookId=
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := httpx.UserFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in to continue", nil)
		return
	}

	if err := h.service.Delete(r.Context(), user, r.URL.Query().Get("bookId"), r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
