package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/user"
	"github.com/Essateric/chaiiwala-sub001/internal/testutil"
)

const secret = "0123456789abcdef-test"

func setup(t *testing.T) (Service, *access.TokenIssuer) {
	t.Helper()
	db := testutil.OpenSQLite(t)
	testutil.SeedStore(t, db, 5, "Stockport Road")
	repo := user.NewSQLiteRepository(db)
	users := user.NewService(repo)

	admin := access.Principal{UserID: 1, Role: access.RoleAdmin}
	if _, err := users.RegisterUser(testutil.TestContext(t), admin, user.RegisterRequest{
		Email: "priya@example.com", Password: "correct horse", Name: "Priya",
		Role: "store", StoreID: func() *int64 { v := int64(5); return &v }(),
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	issuer := access.NewTokenIssuer(secret, time.Hour)
	return NewService(repo, issuer), issuer
}

func TestLogin_IssuesTokenForPrincipal(t *testing.T) {
	svc, issuer := setup(t)

	resp, err := svc.Login(testutil.TestContext(t), "  PRIYA@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	p, err := issuer.Parse(resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if p.Role != access.RoleStore || p.StoreID != 5 || p.Name != "Priya" || p.UserID != resp.User.ID {
		t.Errorf("principal = %+v", p)
	}
}

func TestLogin_Rejects(t *testing.T) {
	svc, _ := setup(t)
	ctx := testutil.TestContext(t)

	if _, err := svc.Login(ctx, "priya@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
}

func TestHandler_Login(t *testing.T) {
	svc, _ := setup(t)
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"email":"priya@example.com","password":"correct horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	var resp LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Token == "" {
		t.Errorf("resp = %+v, %v", resp, err)
	}

	if rec := post(`{"email":"priya@example.com","password":"nope"}`); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d", rec.Code)
	}
	if rec := post(`{"email":""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing fields status = %d", rec.Code)
	}
}
