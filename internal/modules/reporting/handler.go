package reporting

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Handler exposes reporting HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Get("/sales", h.salesByDay)             // GET /api/v1/reports/sales?from=&to=
		r.Get("/outstanding", h.outstanding)      // GET /api/v1/reports/outstanding
		r.Get("/top-products", h.topProducts)     // GET /api/v1/reports/top-products?from=&to=&limit=
		r.Get("/fabric-valuation", h.fabricValue) // GET /api/v1/reports/fabric-valuation
	})
}

func (h *Handler) salesByDay(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	sales, err := h.service.SalesByDay(r.Context(), from, to)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, sales)
}

func (h *Handler) outstanding(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.OutstandingOrders(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) topProducts(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products, err := h.service.TopProducts(r.Context(), from, to, limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) fabricValue(w http.ResponseWriter, r *http.Request) {
	vals, err := h.service.FabricValuations(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, vals)
}

// parseRange reads from/to as YYYY-MM-DD dates. to is exclusive and is
// advanced by one day so a single-day query covers the whole day.
func parseRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validationf("invalid from date: %s", q.Get("from"))
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validationf("invalid to date: %s", q.Get("to"))
	}
	return from, to.AddDate(0, 0, 1), nil
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
