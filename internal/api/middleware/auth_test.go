package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"todo_app/internal/common/security"
)

func newTestAuthority() *security.TokenAuthority {
	return security.NewTokenAuthority([]byte("middleware-secret"), 20*time.Minute)
}

func echoPrincipal(t *testing.T, seen *security.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			t.Error("handler reached without a principal")
		}
		*seen = p
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticator(t *testing.T) {
	tokens := newTestAuthority()
	good, err := tokens.Issue("alice", 3, "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	foreign, err := security.NewTokenAuthority([]byte("other"), time.Minute).Issue("alice", 3, "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + good, http.StatusNoContent},
		{"lowercase scheme", "bearer " + good, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen security.Principal
			h := Authenticator(tokens)(echoPrincipal(t, &seen))

			req := httptest.NewRequest(http.MethodGet, "/todo/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("401 without WWW-Authenticate: Bearer")
			}
			if tt.want == http.StatusNoContent && (seen.Username != "alice" || seen.ID != 3) {
				t.Errorf("principal = %+v", seen)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	tokens := newTestAuthority()
	tests := []struct {
		role string
		want int
	}{
		{"admin", http.StatusNoContent},
		{"user", http.StatusUnauthorized},
		{"", http.StatusUnauthorized},
		{"Admin", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run("role="+tt.role, func(t *testing.T) {
			token, err := tokens.Issue("root", 1, tt.role)
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			var seen security.Principal
			h := Authenticator(tokens)(AdminOnly(echoPrincipal(t, &seen)))

			req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
