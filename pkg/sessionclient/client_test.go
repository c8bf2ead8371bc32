package sessionclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
)

const testToken = "token-abc"

// newMarketplaceStub serves the auth endpoints the client talks to. The
// returned counter tracks /auth/session hits.
func newMarketplaceStub(t *testing.T, logoutStatus int) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var sessionCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/session", func(w http.ResponseWriter, r *http.Request) {
		sessionCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			_ = json.NewEncoder(w).Encode(map[string]any{"authenticated": false})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"authenticated": true,
			"principal": map[string]string{
				"kind": "customer", "id": "c1", "name": "Ana",
				"email": "ana@example.com", "role": "user",
			},
		})
	})
	mux.HandleFunc("/auth/customers/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "UNAUTHORIZED", "message": "invalid credentials"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"principal": map[string]string{
					"kind": "customer", "id": "c1", "name": "Ana",
					"email": "ana@example.com", "role": "user",
				},
				"auth": map[string]string{"token": testToken},
			},
		})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(logoutStatus)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &sessionCalls
}

func newTestClient(t *testing.T, baseURL string) (*Client, *MemoryStore, *FileStore) {
	t.Helper()
	memory := NewMemoryStore()
	file := NewFileStore(filepath.Join(t.TempDir(), "token"))
	client := New(Config{
		BaseURL: baseURL,
		Stores:  []TokenStore{memory, file},
	})
	return client, memory, file
}

func TestBootstrapWithoutTokenSkipsResolution(t *testing.T) {
	server, sessionCalls := newMarketplaceStub(t, http.StatusOK)
	client, _, _ := newTestClient(t, server.URL)

	if client.State() != StateUnknown {
		t.Fatalf("expected initial StateUnknown, got %v", client.State())
	}
	if err := client.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if client.State() != StateAnonymous {
		t.Fatalf("expected StateAnonymous, got %v", client.State())
	}
	if got := sessionCalls.Load(); got != 0 {
		t.Fatalf("expected no resolution call, server saw %d", got)
	}
}

func TestBootstrapResolvesStoredToken(t *testing.T) {
	server, _ := newMarketplaceStub(t, http.StatusOK)
	client, _, file := newTestClient(t, server.URL)

	// Token only in the lowest-priority store; probing must still find it.
	if err := file.Save(testToken); err != nil {
		t.Fatalf("seed file store: %v", err)
	}

	if err := client.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if client.State() != StateAuthenticated {
		t.Fatalf("expected StateAuthenticated, got %v", client.State())
	}
	principal := client.Principal()
	if principal == nil || principal.ID != "c1" || principal.Role != "user" {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestBootstrapStaleTokenFailsClosed(t *testing.T) {
	server, _ := newMarketplaceStub(t, http.StatusOK)
	client, memory, _ := newTestClient(t, server.URL)

	if err := memory.Save("expired-or-garbage"); err != nil {
		t.Fatalf("seed memory store: %v", err)
	}

	if err := client.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if client.State() != StateAnonymous {
		t.Fatalf("expected StateAnonymous, got %v", client.State())
	}
}

func TestBootstrapNetworkFailureFailsClosed(t *testing.T) {
	server, _ := newMarketplaceStub(t, http.StatusOK)
	client, memory, _ := newTestClient(t, server.URL)
	if err := memory.Save(testToken); err != nil {
		t.Fatalf("seed memory store: %v", err)
	}
	server.Close()

	err := client.Bootstrap(context.Background())
	if err == nil {
		t.Fatalf("expected network error surfaced")
	}
	if client.State() != StateAnonymous {
		t.Fatalf("expected StateAnonymous after network failure, got %v", client.State())
	}
}

func TestBootstrapDanglingPrincipalClearsStores(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/session", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, memory, file := newTestClient(t, server.URL)
	_ = memory.Save(testToken)
	_ = file.Save(testToken)

	err := client.Bootstrap(context.Background())
	if !errors.Is(err, ErrPrincipalGone) {
		t.Fatalf("expected ErrPrincipalGone, got %v", err)
	}
	if client.State() != StateAnonymous {
		t.Fatalf("expected StateAnonymous, got %v", client.State())
	}
	for name, store := range map[string]TokenStore{"memory": memory, "file": file} {
		if token, _ := store.Load(); token != "" {
			t.Fatalf("%s store still holds a token after forced logout", name)
		}
	}
}

func TestLoginWritesEveryStore(t *testing.T) {
	server, _ := newMarketplaceStub(t, http.StatusOK)
	client, memory, file := newTestClient(t, server.URL)

	principal, err := client.Login(context.Background(), KindCustomer, "ana@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if principal.ID != "c1" {
		t.Fatalf("unexpected principal %+v", principal)
	}
	if client.State() != StateAuthenticated {
		t.Fatalf("expected StateAuthenticated, got %v", client.State())
	}

	// Round-trip: every storage location holds the token login returned.
	for name, store := range map[string]TokenStore{"memory": memory, "file": file} {
		token, err := store.Load()
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if token != client.Token() {
			t.Fatalf("%s store token %q != session token %q", name, token, client.Token())
		}
	}
}

func TestLoginFailureLandsAnonymous(t *testing.T) {
	server, _ := newMarketplaceStub(t, http.StatusOK)
	client, _, _ := newTestClient(t, server.URL)

	_, err := client.Login(context.Background(), KindCustomer, "ana@example.com", "wrong")
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
	if client.State() != StateAnonymous {
		t.Fatalf("expected StateAnonymous, got %v", client.State())
	}
}

func TestLogoutUnconditionalAndIdempotent(t *testing.T) {
	// Server-side logout fails; local logout must complete regardless.
	server, _ := newMarketplaceStub(t, http.StatusInternalServerError)
	client, memory, file := newTestClient(t, server.URL)

	if _, err := client.Login(context.Background(), KindCustomer, "ana@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}

	_ = client.Logout(context.Background())
	if client.State() != StateAnonymous {
		t.Fatalf("expected StateAnonymous, got %v", client.State())
	}

	// Second logout with nothing stored: still safe, still empty.
	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	for name, store := range map[string]TokenStore{"memory": memory, "file": file} {
		if token, _ := store.Load(); token != "" {
			t.Fatalf("%s store not empty after logout", name)
		}
	}
}

func TestNewRequestAttachesBearer(t *testing.T) {
	server, _ := newMarketplaceStub(t, http.StatusOK)
	client, _, _ := newTestClient(t, server.URL)

	if _, err := client.Login(context.Background(), KindCustomer, "ana@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}

	req, err := client.NewRequest(context.Background(), http.MethodGet, "/bookings", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if req.Header.Get("Authorization") != "Bearer "+client.Token() {
		t.Fatalf("bearer header missing, got %q", req.Header.Get("Authorization"))
	}
}

func TestCookieStoreRoundTrip(t *testing.T) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	store, err := NewCookieStore(jar, "http://marketplace.test", "marketplace_token")
	if err != nil {
		t.Fatalf("cookie store: %v", err)
	}

	if err := store.Save(testToken); err != nil {
		t.Fatalf("save: %v", err)
	}
	token, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != testToken {
		t.Fatalf("loaded %q, want %q", token, testToken)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if token, _ := store.Load(); token != "" {
		t.Fatalf("cookie survived clear: %q", token)
	}
}
