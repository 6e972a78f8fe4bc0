package readinglist

import (
	"net/http"

	"bookshelf/internal/entity"
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

type listSummary struct {
	entity.ReadingList
	Progress Progress `json:"progress"`
}

type addBookReq struct {
	BookID string `json:"bookId"`
}

// List handles GET /api/reading-lists
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	summaries := make([]listSummary, len(lists))
	for i, l := range lists {
		summaries[i] = listSummary{ReadingList: l, Progress: ProgressOf(l)}
	}

	page, size := pagination.FromQuery(r.URL.Query())
	result := pagination.Paginate(summaries, page, size)
	httpx.JSONSuccess(w, r, result.Items, result.Meta.Map())
}

// Get handles GET /api/reading-lists/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, view, nil)
}

// Create handles POST /api/reading-lists
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var f form.ReadingListForm
	if err := httpx.DecodeJSON(r, &f); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}

	l, err := h.service.Create(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, l)
}

// Update handles PUT /api/reading-lists/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var f form.ReadingListForm
	if err := httpx.DecodeJSON(r, &f); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}

	l, err := h.service.Update(r.Context(), r.PathValue("id"), f)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, l, nil)
}

// Delete handles DELETE /api/reading-lists/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// AddBook handles POST /api/reading-lists/{id}/books
func (h *HTTPHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req addBookReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}

	l, err := h.service.AddBook(r.Context(), r.PathValue("id"), req.BookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, l, nil)
}

// RemoveBook handles DELETE /api/reading-lists/{id}/books/{bookId}
func (h *HTTPHandler) RemoveBook(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.RemoveBook(r.Context(), r.PathValue("id"), r.PathValue("bookId"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, l, nil)
}

// Toggle handles POST /api/reading-lists/{id}/books/{bookId}/toggle
func (h *HTTPHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.ToggleCompleted(r.Context(), r.PathValue("id"), r.PathValue("bookId"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, listSummary{ReadingList: l, Progress: ProgressOf(l)}, nil)
}
