package sessionclient

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"
)

// TokenStore is one storage location for the session token. The client
// follows a write-all, read-priority-order, clear-all policy across its
// stores: every login writes all of them, reads take the first hit in
// priority order, logout clears every one. The redundancy is deliberate —
// the cookie serves server-rendered requests while the persistent store
// survives restarts.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// MemoryStore keeps the token in process memory. Highest read priority.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// CookieStore mirrors the token into a cookie jar under the server's auth
// cookie name, so requests routed through the same jar carry it implicitly.
type CookieStore struct {
	jar        http.CookieJar
	serverURL  *url.URL
	cookieName string
}

// NewCookieStore binds a jar to the server base URL.
func NewCookieStore(jar http.CookieJar, baseURL, cookieName string) (*CookieStore, error) {
	if jar == nil {
		return nil, errors.New("sessionclient: nil cookie jar")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &CookieStore{jar: jar, serverURL: u, cookieName: cookieName}, nil
}

func (s *CookieStore) Save(token string) error {
	s.jar.SetCookies(s.serverURL, []*http.Cookie{{
		Name:  s.cookieName,
		Value: token,
		Path:  "/",
	}})
	return nil
}

func (s *CookieStore) Load() (string, error) {
	for _, cookie := range s.jar.Cookies(s.serverURL) {
		if cookie.Name == s.cookieName {
			return cookie.Value, nil
		}
	}
	return "", nil
}

func (s *CookieStore) Clear() error {
	s.jar.SetCookies(s.serverURL, []*http.Cookie{{
		Name:    s.cookieName,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	}})
	return nil
}

// FileStore persists the token to a file, the analogue of browser local
// storage. Lowest read priority.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore stores the token at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
