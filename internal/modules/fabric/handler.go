package fabric

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Handler exposes fabric inventory HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/fabrics", func(r chi.Router) {
		r.Post("/", h.createFabric)            // POST   /api/v1/fabrics
		r.Get("/", h.listFabrics)              // GET    /api/v1/fabrics
		r.Get("/low-stock", h.listLowStock)    // GET    /api/v1/fabrics/low-stock
		r.Get("/{id}", h.getFabric)            // GET    /api/v1/fabrics/{id}
		r.Patch("/{id}", h.updateFabric)       // PATCH  /api/v1/fabrics/{id}
		r.Delete("/{id}", h.deleteFabric)      // DELETE /api/v1/fabrics/{id}
		r.Post("/{id}/adjust", h.adjustLength) // POST   /api/v1/fabrics/{id}/adjust
	})
}

func (h *Handler) createFabric(w http.ResponseWriter, r *http.Request) {
	var req CreateFabricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	f, err := h.service.CreateFabric(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, f)
}

func (h *Handler) getFabric(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.GetFabric(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, f)
}

func (h *Handler) listFabrics(w http.ResponseWriter, r *http.Request) {
	fabrics, err := h.service.ListFabrics(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, fabrics)
}

func (h *Handler) updateFabric(w http.ResponseWriter, r *http.Request) {
	var req UpdateFabricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	f, err := h.service.UpdateFabric(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, f)
}

func (h *Handler) deleteFabric(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteFabric(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "fabric deleted"})
}

func (h *Handler) adjustLength(w http.ResponseWriter, r *http.Request) {
	var req AdjustLengthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	f, err := h.service.AdjustLength(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, f)
}

func (h *Handler) listLowStock(w http.ResponseWriter, r *http.Request) {
	fabrics, err := h.service.ListLowStock(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, fabrics)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
