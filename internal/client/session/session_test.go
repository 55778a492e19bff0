package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/towerops/toweradmin/internal/client/tokenstore"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, *tokenstore.MemStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := tokenstore.NewMemStore()
	return NewService(srv.URL, store, srv.Client(), zerolog.Nop()), store
}

func authMux(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access":"T","refresh":"R"}`))
	})
	mux.HandleFunc("/api/user-info/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer T" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","username":"alice","role":"admin"}`))
	})
	return mux
}

func TestLoginStoresTokenThenPublishes(t *testing.T) {
	svc, store := newTestService(t, authMux(t))

	var tokenAtEvent string
	var events []EventKind
	cancel := svc.Subscribe(func(ev Event) {
		events = append(events, ev.Kind)
		tokenAtEvent = store.Get()
	})
	defer cancel()

	sess, err := svc.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !sess.Authenticated {
		t.Fatal("expected authenticated session after login")
	}
	if got := store.Get(); got != "T" {
		t.Fatalf("expected stored token %q, got %q", "T", got)
	}
	if len(events) != 1 || events[0] != LoginOccurred {
		t.Fatalf("expected single LoginOccurred event, got %v", events)
	}
	if tokenAtEvent != "T" {
		t.Fatalf("subscriber saw token %q, want %q", tokenAtEvent, "T")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := svc.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if store.Get() != "" {
		t.Fatal("no token must be stored on failed login")
	}
	if svc.IsAuthenticated() {
		t.Fatal("session must stay unauthenticated after failed login")
	}
}

func TestLoginServerError(t *testing.T) {
	svc, store := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := svc.Login(context.Background(), "alice", "secret")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("500 must not map to ErrInvalidCredentials: %v", err)
	}
	if store.Get() != "" {
		t.Fatal("no token must be stored on server error")
	}
}

func TestAuthenticatedStrictlyBetweenLoginAndLogout(t *testing.T) {
	svc, _ := newTestService(t, authMux(t))

	if svc.IsAuthenticated() {
		t.Fatal("fresh service must be unauthenticated")
	}
	if _, err := svc.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !svc.IsAuthenticated() {
		t.Fatal("must be authenticated after successful login")
	}
	svc.Logout()
	if svc.IsAuthenticated() {
		t.Fatal("must be unauthenticated after logout")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	svc, _ := newTestService(t, authMux(t))

	var events int
	cancel := svc.Subscribe(func(Event) { events++ })
	defer cancel()

	svc.Logout()
	svc.Logout()

	if svc.IsAuthenticated() {
		t.Fatal("must stay unauthenticated")
	}
	if events != 0 {
		t.Fatalf("logout while unauthenticated must not publish, got %d events", events)
	}
}

func TestUserInfoWithoutTokenIsLocal(t *testing.T) {
	var calls atomic.Int64
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := svc.UserInfo(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if n := calls.Load(); n != 0 {
		t.Fatalf("expected zero network calls, got %d", n)
	}
}

func TestUserInfoSuccess(t *testing.T) {
	svc, _ := newTestService(t, authMux(t))

	if _, err := svc.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	profile, err := svc.UserInfo(context.Background())
	if err != nil {
		t.Fatalf("UserInfo failed: %v", err)
	}
	if profile.Username != "alice" || profile.Role != "admin" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if snap := svc.Snapshot(); snap.CurrentUser == nil || snap.CurrentUser.Username != "alice" {
		t.Fatalf("snapshot missing current user: %+v", snap)
	}
}

func TestUserInfoRejectedTokenExpiresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access":"stale"}`))
	})
	mux.HandleFunc("/api/user-info/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	svc, store := newTestService(t, mux)

	if _, err := svc.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	var events []EventKind
	cancel := svc.Subscribe(func(ev Event) { events = append(events, ev.Kind) })
	defer cancel()

	_, err := svc.UserInfo(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if store.Get() != "" {
		t.Fatal("rejected token must be cleared")
	}
	if len(events) != 1 || events[0] != LogoutOccurred {
		t.Fatalf("expected single LogoutOccurred event, got %v", events)
	}
}

func TestLateUserInfoDoesNotResurrectSession(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access":"T"}`))
	})
	mux.HandleFunc("/api/user-info/", func(w http.ResponseWriter, r *http.Request) {
		close(inFlight)
		<-release
		_, _ = w.Write([]byte(`{"id":"1","username":"alice","role":"admin"}`))
	})
	svc, _ := newTestService(t, mux)

	if _, err := svc.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.UserInfo(context.Background())
		done <- err
	}()

	<-inFlight
	svc.Logout()
	close(release)

	if err := <-done; !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("stale success must report ErrNotAuthenticated, got %v", err)
	}
	if svc.IsAuthenticated() {
		t.Fatal("stale response must not resurrect the session")
	}
	if snap := svc.Snapshot(); snap.CurrentUser != nil {
		t.Fatalf("stale response must not set current user: %+v", snap.CurrentUser)
	}
}

func TestLateRejectionAfterLogoutStaysQuiet(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access":"T"}`))
	})
	mux.HandleFunc("/api/user-info/", func(w http.ResponseWriter, r *http.Request) {
		close(inFlight)
		<-release
		w.WriteHeader(http.StatusUnauthorized)
	})
	svc, _ := newTestService(t, mux)

	if _, err := svc.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.UserInfo(context.Background())
		done <- err
	}()

	<-inFlight
	svc.Logout()

	var extraLogouts int
	cancel := svc.Subscribe(func(ev Event) {
		if ev.Kind == LogoutOccurred {
			extraLogouts++
		}
	})
	defer cancel()

	close(release)
	if err := <-done; !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if extraLogouts != 0 {
		t.Fatalf("stale rejection must not publish a second logout, got %d", extraLogouts)
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	svc, _ := newTestService(t, authMux(t))

	var events int
	cancel := svc.Subscribe(func(Event) { events++ })
	cancel()

	if _, err := svc.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if events != 0 {
		t.Fatalf("cancelled subscriber must not receive events, got %d", events)
	}
}
