package insights

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Handler exposes AI insight HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/insights", func(r chi.Router) {
		r.Post("/stock-alerts", h.stockAlerts)                  // POST /api/v1/insights/stock-alerts
		r.Post("/products/{id}/description", h.describeProduct) // POST /api/v1/insights/products/{id}/description
	})
}

func (h *Handler) stockAlerts(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.StockAlerts(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, report)
}

func (h *Handler) describeProduct(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ProductDescription(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
