package joblog

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
)

// Handler exposes job log HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.listJobs)                          // GET    /jobs?storeId=&flag=
		r.Post("/", h.createJob)                        // POST   /jobs
		r.Get("/unscheduled", h.listUnscheduled)        // GET    /jobs/unscheduled
		r.Get("/{id}", h.getJob)                        // GET    /jobs/{id}
		r.Patch("/{id}", h.reschedule)                  // PATCH  /jobs/{id}
		r.Post("/{id}/move-tomorrow", h.moveToTomorrow) // POST   /jobs/{id}/move-tomorrow
		r.Patch("/{id}/flag", h.updateFlag)             // PATCH  /jobs/{id}/flag
		r.Get("/{id}/comments", h.listComments)         // GET    /jobs/{id}/comments
		r.Post("/{id}/comments", h.addComment)          // POST   /jobs/{id}/comments
	})
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	storeID, err := queryInt(r, "storeId")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "storeId must be an integer"})
		return
	}
	jobs, err := h.service.ListJobs(r.Context(), p, storeID, Flag(r.URL.Query().Get("flag")))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, jobs)
}

func (h *Handler) listUnscheduled(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	jobs, err := h.service.ListUnscheduled(r.Context(), p)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, jobs)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	p, id, ok := principalAndID(w, r)
	if !ok {
		return
	}
	job, err := h.service.GetJob(r.Context(), p, id)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, job)
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	job, err := h.service.CreateJob(r.Context(), p, req)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusCreated, job)
}

func (h *Handler) reschedule(w http.ResponseWriter, r *http.Request) {
	p, id, ok := principalAndID(w, r)
	if !ok {
		return
	}
	var req PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	job, err := h.service.Reschedule(r.Context(), p, id, req)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, job)
}

func (h *Handler) moveToTomorrow(w http.ResponseWriter, r *http.Request) {
	p, id, ok := principalAndID(w, r)
	if !ok {
		return
	}
	job, err := h.service.MoveToTomorrow(r.Context(), p, id)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, job)
}

func (h *Handler) updateFlag(w http.ResponseWriter, r *http.Request) {
	p, id, ok := principalAndID(w, r)
	if !ok {
		return
	}
	var req FlagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	job, err := h.service.UpdateFlag(r.Context(), p, id, req)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, job)
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	p, id, ok := principalAndID(w, r)
	if !ok {
		return
	}
	comments, err := h.service.ListComments(r.Context(), p, id)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, comments)
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	p, id, ok := principalAndID(w, r)
	if !ok {
		return
	}
	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.AddComment(r.Context(), p, id, req)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusCreated, c)
}

func principal(w http.ResponseWriter, r *http.Request) (access.Principal, bool) {
	p, ok := access.PrincipalFrom(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}
	return p, ok
}

func principalAndID(w http.ResponseWriter, r *http.Request) (access.Principal, int64, bool) {
	p, ok := principal(w, r)
	if !ok {
		return p, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid job id"})
		return p, 0, false
	}
	return p, id, true
}

func queryInt(r *http.Request, name string) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

// fail maps service errors onto status codes.
func fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalid):
		code = http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	default:
		log.Printf("joblog: request failed: %v", err)
		respond(w, code, map[string]string{"error": "internal error"})
		return
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
