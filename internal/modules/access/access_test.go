package access

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestVisible(t *testing.T) {
	tests := []struct {
		name    string
		p       Principal
		storeID int64
		want    bool
	}{
		{"admin any store", Principal{Role: RoleAdmin}, 9, true},
		{"regional any store", Principal{Role: RoleRegional}, 9, true},
		{"maintenance any store", Principal{Role: RoleMaintenance}, 9, true},
		{"store own store", Principal{Role: RoleStore, StoreID: 5}, 5, true},
		{"store other store", Principal{Role: RoleStore, StoreID: 5}, 6, false},
		{"staff own store", Principal{Role: RoleStaff, StoreID: 5}, 5, true},
		{"staff other store", Principal{Role: RoleStaff, StoreID: 5}, 6, false},
		{"unbound store role", Principal{Role: RoleStore}, 0, false},
		{"unknown role", Principal{Role: "guest", StoreID: 5}, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visible(tt.p, tt.storeID); got != tt.want {
				t.Errorf("Visible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanEdit(t *testing.T) {
	tests := []struct {
		name    string
		p       Principal
		storeID int64
		want    bool
	}{
		{"admin", Principal{Role: RoleAdmin}, 3, true},
		{"regional", Principal{Role: RoleRegional}, 3, true},
		{"maintenance", Principal{Role: RoleMaintenance}, 3, true},
		{"store own", Principal{Role: RoleStore, StoreID: 3}, 3, true},
		{"store other", Principal{Role: RoleStore, StoreID: 3}, 4, false},
		{"staff own", Principal{Role: RoleStaff, StoreID: 3}, 3, false},
		{"unknown", Principal{Role: "guest", StoreID: 3}, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEdit(tt.p, tt.storeID); got != tt.want {
				t.Errorf("CanEdit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScope(t *testing.T) {
	tests := []struct {
		name      string
		p         Principal
		requested int64
		wantStore int64
		wantAll   bool
	}{
		{"admin no filter", Principal{Role: RoleAdmin}, 0, 0, true},
		{"admin filter", Principal{Role: RoleAdmin}, 7, 7, false},
		{"regional filter", Principal{Role: RoleRegional}, 2, 2, false},
		{"maintenance ignores filter", Principal{Role: RoleMaintenance}, 7, 0, true},
		{"store ignores filter", Principal{Role: RoleStore, StoreID: 5}, 7, 5, false},
		{"staff bound", Principal{Role: RoleStaff, StoreID: 4}, 0, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, all := Scope(tt.p, tt.requested)
			if store != tt.wantStore || all != tt.wantAll {
				t.Errorf("Scope = (%d, %v), want (%d, %v)", store, all, tt.wantStore, tt.wantAll)
			}
		})
	}
}

func TestRolePanels(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleRegional, RoleStore, RoleStaff} {
		if ShowsUnscheduledPanel(r) || CanDrag(r) {
			t.Errorf("%s should not get the unscheduled panel", r)
		}
	}
	if !ShowsUnscheduledPanel(RoleMaintenance) {
		t.Error("maintenance should get the unscheduled panel")
	}
	if CanCreate(RoleStaff) {
		t.Error("staff should not create jobs")
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-0123456789", time.Hour)
	want := Principal{UserID: 12, Name: "Priya", Role: RoleStore, StoreID: 5}

	tok, err := issuer.Issue(want)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != want {
		t.Errorf("Parse = %+v, want %+v", got, want)
	}
}

func TestTokenIssuer_RejectsForeignKey(t *testing.T) {
	a := NewTokenIssuer("secret-a-0123456789", time.Hour)
	b := NewTokenIssuer("secret-b-0123456789", time.Hour)

	tok, err := a.Issue(Principal{UserID: 1, Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-0123456789", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := issuer.Issue(Principal{UserID: 1, Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-0123456789", time.Hour)
	var seen Principal
	h := Middleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		tok, _ := issuer.Issue(Principal{UserID: 3, Role: RoleMaintenance, Name: "Sam"})
		req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if seen.UserID != 3 || seen.Role != RoleMaintenance {
			t.Errorf("unexpected principal %+v", seen)
		}
	})
}
