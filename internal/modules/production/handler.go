package production

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Handler exposes production order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/production", func(r chi.Router) {
		r.Post("/", h.createOrder)                 // POST  /api/v1/production
		r.Get("/", h.listOrders)                   // GET   /api/v1/production?status=PENDING
		r.Get("/{id}", h.getOrder)                 // GET   /api/v1/production/{id}
		r.Patch("/{id}/status", h.updateStatus)    // PATCH /api/v1/production/{id}/status
		r.Get("/order/{order_id}", h.listByOrder)  // GET   /api/v1/production/order/{order_id}
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	job, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, job)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, job)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, jobs)
}

func (h *Handler) listByOrder(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListByOrder(r.Context(), chi.URLParam(r, "order_id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, jobs)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	job, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, job)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
