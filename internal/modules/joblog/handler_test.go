package joblog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
)

type handlerEnv struct {
	router http.Handler
	seed   func(id, storeID int64, date, clock *string)
}

func newHandlerEnv(t *testing.T) handlerEnv {
	t.Helper()
	svc, _, seed := newFixture(t, nil)
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return handlerEnv{router: r, seed: seed}
}

func (e handlerEnv) do(t *testing.T, p *access.Principal, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if p != nil {
		req = req.WithContext(access.WithPrincipal(req.Context(), *p))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestHandler_PatchJob(t *testing.T) {
	env := newHandlerEnv(t)
	env.seed(42, 5, nil, nil)

	rec := env.do(t, &maintenance, http.MethodPatch, "/jobs/42", `{"logDate":"2025-04-12","logTime":"09:15"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var job Job
	if err := json.NewDecoder(rec.Body).Decode(&job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.ID != 42 || *job.LogDate != "2025-04-12" || *job.LogTime != "09:15" {
		t.Errorf("unexpected job: %+v", job)
	}

	rec = env.do(t, &maintenance, http.MethodPatch, "/jobs/42", `{"logDate":null,"logTime":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unschedule status = %d", rec.Code)
	}
	job = Job{}
	json.NewDecoder(rec.Body).Decode(&job)
	if job.LogDate != nil || job.LogTime != nil {
		t.Errorf("expected cleared slot, got %+v", job.Slot())
	}
}

func TestHandler_StatusMapping(t *testing.T) {
	env := newHandlerEnv(t)
	env.seed(1, 5, nil, nil)
	env.seed(2, 6, nil, nil)

	tests := []struct {
		name   string
		p      *access.Principal
		method string
		path   string
		body   string
		want   int
	}{
		{"no principal", nil, http.MethodGet, "/jobs", "", http.StatusUnauthorized},
		{"empty patch", &admin, http.MethodPatch, "/jobs/1", `{}`, http.StatusBadRequest},
		{"bad json", &admin, http.MethodPatch, "/jobs/1", `{`, http.StatusBadRequest},
		{"bad id", &admin, http.MethodGet, "/jobs/abc", "", http.StatusBadRequest},
		{"bad store filter", &admin, http.MethodGet, "/jobs?storeId=x", "", http.StatusBadRequest},
		{"bad flag filter", &admin, http.MethodGet, "/jobs?flag=meh", "", http.StatusBadRequest},
		{"staff edit", &staffFive, http.MethodPatch, "/jobs/1", `{"logTime":"10:00"}`, http.StatusForbidden},
		{"foreign store", &storeFive, http.MethodGet, "/jobs/2", "", http.StatusNotFound},
		{"missing job", &admin, http.MethodGet, "/jobs/99", "", http.StatusNotFound},
		{"panel not offered", &admin, http.MethodGet, "/jobs/unscheduled", "", http.StatusForbidden},
		{"panel", &maintenance, http.MethodGet, "/jobs/unscheduled", "", http.StatusOK},
		{"move tomorrow", &storeFive, http.MethodPost, "/jobs/1/move-tomorrow", "", http.StatusOK},
		{"flag", &admin, http.MethodPatch, "/jobs/2/flag", `{"flag":"urgent"}`, http.StatusOK},
		{"create", &admin, http.MethodPost, "/jobs", `{"storeId":5,"description":"Sink","category":"plumbing"}`, http.StatusCreated},
		{"create unknown store", &admin, http.MethodPost, "/jobs", `{"storeId":77,"description":"Sink","category":"plumbing"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.p, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body = %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestHandler_ListJobsScopedToStore(t *testing.T) {
	env := newHandlerEnv(t)
	env.seed(1, 5, nil, nil)
	env.seed(2, 6, nil, nil)

	rec := env.do(t, &storeFive, http.MethodGet, "/jobs?storeId=6", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var jobs []*Job
	if err := json.NewDecoder(rec.Body).Decode(&jobs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(jobs) != 1 || jobs[0].StoreID != 5 {
		t.Errorf("store 5 received %v", jobIDs(jobs))
	}
}

func TestHandler_Comments(t *testing.T) {
	env := newHandlerEnv(t)
	env.seed(42, 5, nil, nil)

	rec := env.do(t, &storeFive, http.MethodPost, "/jobs/42/comments", `{"comment":"@Mo fridge again","mentionedUsers":[2]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("post status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = env.do(t, &staffFive, http.MethodGet, "/jobs/42/comments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var comments []Comment
	if err := json.NewDecoder(rec.Body).Decode(&comments); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(comments) != 1 || comments[0].Body != "@Mo fridge again" || comments[0].MentionedUsers[0] != 2 {
		t.Errorf("comments = %+v", comments)
	}

	rec = env.do(t, &storeFive, http.MethodPost, "/jobs/42/comments", `{"comment":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank comment status = %d", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.Contains(msg, "comment is required") {
		t.Errorf("error = %q", msg)
	}
}
