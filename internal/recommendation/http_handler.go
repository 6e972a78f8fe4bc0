package recommendation

import (
	"net/http"

	"bookshelf/internal/form"
	"bookshelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Recommend handles POST /api/recommendations
func (h *HTTPHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var f form.RecommendationForm
	if err := httpx.DecodeJSON(r, &f); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}

	recs, err := h.service.Recommend(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, recs, map[string]interface{}{"count": len(recs)})
}
