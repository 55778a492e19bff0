// Package shell holds the application-level view state shared by every
// screen: whether a session exists, who the current user is, and a logout
// action. It tracks the session service through its event subscription.
package shell

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/towerops/toweradmin/internal/client/guard"
	"github.com/towerops/toweradmin/internal/client/session"
)

// Navigator moves the application to another view.
type Navigator func(path string)

// Shell is the root view-state holder. It never mutates session state
// itself; it only mirrors the service and delegates actions to it.
type Shell struct {
	svc      *session.Service
	navigate Navigator
	log      zerolog.Logger

	mu            sync.Mutex
	authenticated bool
	currentUser   *session.Profile

	unsubscribe func()
}

// New builds the shell, initializes its fields from the current session,
// and subscribes to session changes for the lifetime of the application.
// A missing session is not an error; the user simply is not logged in yet.
func New(ctx context.Context, svc *session.Service, navigate Navigator, log zerolog.Logger) *Shell {
	if navigate == nil {
		navigate = func(string) {}
	}
	s := &Shell{svc: svc, navigate: navigate, log: log}

	// Subscribe before the initial profile fetch so an expired token
	// discovered during it flows through the logout handling below.
	s.unsubscribe = svc.Subscribe(func(ev session.Event) {
		switch ev.Kind {
		case session.LoginOccurred:
			s.mu.Lock()
			s.authenticated = true
			s.mu.Unlock()
			s.refreshProfile(context.Background())
		case session.LogoutOccurred:
			s.mu.Lock()
			s.authenticated = false
			s.currentUser = nil
			s.mu.Unlock()
			s.navigate(guard.LoginPath)
		}
	})

	s.mu.Lock()
	s.authenticated = svc.IsAuthenticated()
	s.mu.Unlock()
	s.refreshProfile(ctx)

	return s
}

// Close detaches the shell from the session event bus.
func (s *Shell) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Shell) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// CurrentUser returns the resolved profile, nil while logged out or before
// the profile fetch completes.
func (s *Shell) CurrentUser() *session.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return nil
	}
	cp := *s.currentUser
	return &cp
}

// Session returns the snapshot consumed by the route guard.
func (s *Shell) Session() session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return session.Session{Authenticated: s.authenticated, CurrentUser: s.currentUser}
}

// Logout delegates to the session service. Field updates and the redirect
// happen through the LogoutOccurred subscription.
func (s *Shell) Logout() {
	s.svc.Logout()
}

// refreshProfile fetches the current user, treating a missing session as
// "no user". Transient failures keep the last known profile.
func (s *Shell) refreshProfile(ctx context.Context) {
	profile, err := s.svc.UserInfo(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNotAuthenticated) {
			s.log.Warn().Err(err).Msg("failed to fetch user profile")
		}
		if errors.Is(err, session.ErrNotAuthenticated) || errors.Is(err, session.ErrSessionExpired) {
			s.mu.Lock()
			s.currentUser = nil
			s.mu.Unlock()
		}
		return
	}
	s.mu.Lock()
	s.currentUser = profile
	s.mu.Unlock()
}
