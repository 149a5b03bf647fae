package recipe

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Handler exposes bill-of-materials HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/recipes", func(r chi.Router) {
		r.Put("/product/{product_id}", h.setRecipe)    // PUT /api/v1/recipes/product/{product_id}
		r.Get("/product/{product_id}", h.getRecipe)    // GET /api/v1/recipes/product/{product_id}
		r.Get("/fabric/{fabric_id}", h.listByFabric)   // GET /api/v1/recipes/fabric/{fabric_id}
	})
}

func (h *Handler) setRecipe(w http.ResponseWriter, r *http.Request) {
	var req SetRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	lines, err := h.service.SetRecipe(r.Context(), chi.URLParam(r, "product_id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	if lines == nil {
		lines = []*Line{}
	}
	respond(w, http.StatusOK, lines)
}

func (h *Handler) getRecipe(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.GetRecipe(r.Context(), chi.URLParam(r, "product_id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	if lines == nil {
		lines = []*Line{}
	}
	respond(w, http.StatusOK, lines)
}

func (h *Handler) listByFabric(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.ListByFabric(r.Context(), chi.URLParam(r, "fabric_id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	if lines == nil {
		lines = []*Line{}
	}
	respond(w, http.StatusOK, lines)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
