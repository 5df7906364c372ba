package calendar

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/joblog"
)

// Handler exposes the calendar page model.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/calendar", h.view) // GET /calendar?view=&mode=&date=&storeId=
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	p, ok := access.PrincipalFrom(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	q := Query{
		View: r.URL.Query().Get("view"),
		Mode: r.URL.Query().Get("mode"),
		Date: r.URL.Query().Get("date"),
	}
	if raw := r.URL.Query().Get("storeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "storeId must be an integer"})
			return
		}
		q.StoreID = id
	}

	v, err := h.service.View(r.Context(), p, q)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrInvalidQuery), errors.Is(err, joblog.ErrInvalid):
			code = http.StatusBadRequest
		case errors.Is(err, joblog.ErrForbidden):
			code = http.StatusForbidden
		default:
			log.Printf("calendar: view failed: %v", err)
			respond(w, code, map[string]string{"error": "internal error"})
			return
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, v)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
