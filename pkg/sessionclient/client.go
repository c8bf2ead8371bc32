package sessionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// State is the session lifecycle position.
type State int

const (
	StateUnknown State = iota
	StateResolving
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "invalid"
}

// Kind selects the login endpoint for the principal kind.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindProvider Kind = "provider"
)

// Principal is the client-side view of the resolved identity.
type Principal struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ErrLoginFailed wraps login rejections; the server's message is preserved
// for UI display.
var ErrLoginFailed = errors.New("sessionclient: login failed")

// ErrPrincipalGone signals that the stored token verified but its subject no
// longer exists; the client has already cleared storage when it returns this.
var ErrPrincipalGone = errors.New("sessionclient: principal no longer exists")

// Client reconstructs and synchronizes authentication state against the
// marketplace server. It starts in StateUnknown; Bootstrap moves it through
// StateResolving into a terminal StateAuthenticated or StateAnonymous, and
// every later transition lands in one of those two as well — failures never
// strand the session mid-resolution.
//
// All state transitions happen under the client mutex, so a reader observing
// StateAuthenticated is guaranteed the token is already present in every
// store. Overlapping Logins serialize; the last to finish wins.
type Client struct {
	baseURL    string
	httpClient *http.Client
	stores     []TokenStore

	mu        sync.Mutex
	state     State
	token     string
	principal *Principal
}

// Config configures a Client.
type Config struct {
	// BaseURL of the marketplace server, without trailing slash.
	BaseURL string
	// HTTPClient used for all calls; http.DefaultClient when nil. Transport
	// timeouts live here, the session machine imposes none of its own.
	HTTPClient *http.Client
	// Stores in read-priority order (first match wins). Writes and clears
	// always touch every store. When empty, a single MemoryStore is used.
	Stores []TokenStore
}

// New builds a client in StateUnknown.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	stores := cfg.Stores
	if len(stores) == 0 {
		stores = []TokenStore{NewMemoryStore()}
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		stores:     stores,
		state:      StateUnknown,
	}
}

// State returns the current session state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Principal returns the resolved principal, nil unless authenticated.
func (c *Client) Principal() *Principal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.principal
}

// Token returns the current session token, empty unless authenticated.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// IsAuthenticated reports whether the session is authenticated.
func (c *Client) IsAuthenticated() bool {
	return c.State() == StateAuthenticated
}

// Bootstrap rebuilds session state on startup. It probes the stores in
// priority order; with no token anywhere it settles on StateAnonymous
// without a network call. With a token it asks the server to re-resolve the
// identity — state is never trusted from storage alone. Every failure path
// (network fault, non-authenticated answer, dangling principal) fails closed
// into StateAnonymous; the error is returned for display, never left
// unterminated.
func (c *Client) Bootstrap(ctx context.Context) error {
	c.mu.Lock()
	c.state = StateResolving
	token := c.loadFirst()
	if token == "" {
		c.state = StateAnonymous
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	session, err := c.resolveSession(ctx, token)
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err != nil && errors.Is(err, ErrPrincipalGone):
		c.clearAll()
		c.becomeAnonymousLocked()
		return err
	case err != nil:
		c.becomeAnonymousLocked()
		return err
	case !session.Authenticated:
		c.becomeAnonymousLocked()
		return nil
	default:
		c.token = token
		c.principal = session.Principal
		c.state = StateAuthenticated
		return nil
	}
}

// Login authenticates against the server. The returned token is persisted to
// every store before the state flips to StateAuthenticated, so a request
// fired immediately after Login returns always finds the token. On failure
// the session is StateAnonymous and the reason is returned.
func (c *Client) Login(ctx context.Context, kind Kind, email, password string) (*Principal, error) {
	path := "/auth/customers/login"
	if kind == KindProvider {
		path = "/auth/providers/login"
	}

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.failLogin()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.failLogin()
		return nil, fmt.Errorf("%w: %s", ErrLoginFailed, readErrorMessage(resp.Body))
	}

	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.failLogin()
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Persist before the transition is observable.
	for _, store := range c.stores {
		if saveErr := store.Save(body.Data.Auth.Token); saveErr != nil {
			c.clearAll()
			c.becomeAnonymousLocked()
			return nil, saveErr
		}
	}

	c.token = body.Data.Auth.Token
	c.principal = &body.Data.Principal
	c.state = StateAuthenticated
	return c.principal, nil
}

// Logout notifies the server best-effort, then unconditionally clears every
// store and lands in StateAnonymous. A server failure is returned for
// display but never blocks the local logout; calling Logout repeatedly is
// safe and keeps storage empty.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	var notifyErr error
	if token != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
		if err == nil {
			req.Header.Set("Authorization", "Bearer "+token)
			resp, doErr := c.httpClient.Do(req)
			if doErr != nil {
				notifyErr = doErr
			} else {
				resp.Body.Close()
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearAll()
	c.becomeAnonymousLocked()
	return notifyErr
}

// NewRequest builds a request for a marketplace endpoint with the session
// token attached when present.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// Do executes a request built by NewRequest through the client's transport.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Principal     *Principal `json:"principal"`
}

type loginResponse struct {
	Data struct {
		Principal Principal `json:"principal"`
		Auth      struct {
			Token string `json:"token"`
		} `json:"auth"`
	} `json:"data"`
}

func (c *Client) resolveSession(ctx context.Context, token string) (*sessionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/session", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrPrincipalGone
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sessionclient: session resolution returned %d", resp.StatusCode)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// loadFirst probes the stores in priority order. Store read errors are
// treated as a miss; resolution decides authenticity anyway.
func (c *Client) loadFirst() string {
	for _, store := range c.stores {
		if token, err := store.Load(); err == nil && token != "" {
			return token
		}
	}
	return ""
}

func (c *Client) clearAll() {
	for _, store := range c.stores {
		_ = store.Clear()
	}
}

func (c *Client) becomeAnonymousLocked() {
	c.token = ""
	c.principal = nil
	c.state = StateAnonymous
}

// failLogin applies last-write-wins: a failed login leaves the session
// anonymous with empty stores even if an earlier login had succeeded.
func (c *Client) failLogin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearAll()
	c.becomeAnonymousLocked()
}

func readErrorMessage(r io.Reader) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil || envelope.Error.Message == "" {
		return "request rejected"
	}
	return envelope.Error.Message
}
