package authz

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Handler exposes permission management HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/permissions", func(r chi.Router) {
		r.Get("/", h.listPermissions)                      // GET    /api/v1/permissions
		r.Put("/", h.setPermission)                        // PUT    /api/v1/permissions
		r.Delete("/{resource}/{role}", h.removePermission) // DELETE /api/v1/permissions/{resource}/{role}
		r.Post("/reload", h.reload)                        // POST   /api/v1/permissions/reload
	})
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, perms)
}

func (h *Handler) setPermission(w http.ResponseWriter, r *http.Request) {
	var req SetPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.SetPermission(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) removePermission(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemovePermission(r.Context(),
		chi.URLParam(r, "resource"), chi.URLParam(r, "role"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "permission removed"})
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reload(r.Context()); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
