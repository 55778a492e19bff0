// Package session owns the client-side authentication state: the bearer
// token, the derived current-user profile, and the login/logout event bus.
//
// The Service is the sole writer of session state. Everything else observes
// it through Snapshot, IsAuthenticated, or a Subscribe callback.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/towerops/toweradmin/internal/client/tokenstore"
)

const (
	tokenPath    = "/api/token/"
	userInfoPath = "/api/user-info/"

	defaultTimeout = 20 * time.Second
	maxBody        = 256 * 1024
)

var (
	// ErrInvalidCredentials means the server rejected the login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotAuthenticated means no token is present. Local check, no I/O.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired means the server rejected a previously stored token.
	ErrSessionExpired = errors.New("session expired, please log in again")
)

// EventKind discriminates session-change notifications.
type EventKind int

const (
	LoginOccurred EventKind = iota
	LogoutOccurred
)

func (k EventKind) String() string {
	if k == LoginOccurred {
		return "login"
	}
	return "logout"
}

// Event is published on every session change. Delivery is synchronous and
// strictly after the token-store write, so a subscriber observing
// LoginOccurred always sees a present token.
type Event struct {
	Kind EventKind
}

// Profile is the server's view of the current principal.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Session is the derived state snapshot handed to consumers. Authenticated
// mirrors token presence; CurrentUser is non-nil only when authenticated and
// a profile fetch has completed.
type Session struct {
	Authenticated bool
	CurrentUser   *Profile
}

// Service owns the session. All mutation goes through Login, Logout, and
// UserInfo; reads elsewhere use Snapshot or IsAuthenticated.
type Service struct {
	baseURL    string
	store      tokenstore.Store
	httpClient *http.Client
	log        zerolog.Logger

	mu          sync.Mutex
	generation  uint64
	currentUser *Profile
	subscribers map[int]func(Event)
	nextSubID   int
}

func NewService(baseURL string, store tokenstore.Store, httpClient *http.Client, log zerolog.Logger) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Service{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		store:       store,
		httpClient:  httpClient,
		log:         log,
		subscribers: make(map[int]func(Event)),
	}
}

// Subscribe registers a session-change callback and returns its cancel
// function. Subscribers must cancel on teardown.
func (s *Service) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// IsAuthenticated is a pure projection of token presence. No I/O.
func (s *Service) IsAuthenticated() bool {
	return s.store.Get() != ""
}

// Snapshot returns the current derived session state.
func (s *Service) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Session{
		Authenticated: s.store.Get() != "",
		CurrentUser:   copyProfile(s.currentUser),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access string `json:"access"`
}

// Login exchanges credentials for a token. On success the token is stored
// before LoginOccurred is published; on any failure no token is stored.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return Session{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+tokenPath, bytes.NewReader(payload))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("login request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Session{}, ErrInvalidCredentials
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return Session{}, fmt.Errorf("login failed: status %d", resp.StatusCode)
	}

	var out loginResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Session{}, fmt.Errorf("failed to parse login response: %w", err)
	}
	if strings.TrimSpace(out.Access) == "" {
		return Session{}, errors.New("login response missing access token")
	}

	if err := s.store.Set(out.Access); err != nil {
		return Session{}, fmt.Errorf("failed to persist token: %w", err)
	}

	s.mu.Lock()
	s.generation++
	s.currentUser = nil
	s.mu.Unlock()

	s.publish(Event{Kind: LoginOccurred})
	s.log.Debug().Str("username", username).Msg("login succeeded")
	return s.Snapshot(), nil
}

// Logout clears the token and publishes LogoutOccurred. Calling it when
// already unauthenticated leaves state unchanged and does not error.
func (s *Service) Logout() {
	s.mu.Lock()
	wasActive := s.store.Get() != "" || s.currentUser != nil
	if wasActive {
		if err := s.store.Set(""); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear token cache")
		}
		s.generation++
		s.currentUser = nil
	}
	s.mu.Unlock()

	if wasActive {
		s.publish(Event{Kind: LogoutOccurred})
	}
}

// UserInfo fetches the current principal. Without a token it fails locally
// with ErrNotAuthenticated and performs no network call. A 401/403 response
// invalidates the session. A success that lands after a concurrent Logout is
// discarded instead of resurrecting the session.
func (s *Service) UserInfo(ctx context.Context) (*Profile, error) {
	token := s.store.Get()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+userInfoPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user info request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		s.expire(gen)
		return nil, ErrSessionExpired
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("user info failed: status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse user info response: %w", err)
	}

	s.mu.Lock()
	if gen != s.generation {
		// The session changed while this request was in flight.
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	s.currentUser = &profile
	s.mu.Unlock()

	return copyProfile(&profile), nil
}

// expire invalidates the session after the server rejected the token. A
// no-op when the session already changed under the in-flight request.
func (s *Service) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	if err := s.store.Set(""); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear token cache")
	}
	s.generation++
	s.currentUser = nil
	s.mu.Unlock()

	s.publish(Event{Kind: LogoutOccurred})
}

// publish delivers the event synchronously to every subscriber. The lock is
// not held during delivery so callbacks may call back into the Service.
func (s *Service) publish(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func copyProfile(p *Profile) *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
