package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/towerops/toweradmin/internal/core/domain"
	"github.com/towerops/toweradmin/internal/core/ports"
)

type stubAuthService struct {
	loginFn   func(ctx context.Context, username, password string) (*ports.TokenPair, *domain.User, error)
	refreshFn func(ctx context.Context, refreshToken string) (*ports.TokenPair, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.TokenPair, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

type stubUserFinder struct {
	users map[string]*domain.User
}

func (r *stubUserFinder) List(context.Context) ([]domain.User, error) { return nil, nil }
func (r *stubUserFinder) FindByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *stubUserFinder) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}
func (r *stubUserFinder) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}
func (r *stubUserFinder) Update(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}
func (r *stubUserFinder) Delete(context.Context, string) error { return nil }

func TestAuthHandler_Token_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.TokenPair, *domain.User, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.TokenPair{Access: "A", Refresh: "R"}, &domain.User{Username: "alice"}, nil
		},
	}
	handler := NewAuthHandler(stub, &stubUserFinder{})

	req := httptest.NewRequest(http.MethodPost, "/api/token/", strings.NewReader(`{"username":"alice","password":"secret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Token(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access"] != "A" || resp["refresh"] != "R" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestAuthHandler_Token_InvalidCredentials(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, &stubUserFinder{})

	req := httptest.NewRequest(http.MethodPost, "/api/token/", strings.NewReader(`{"username":"alice","password":"bad"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Token(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Token_InvalidPayload(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.TokenPair, *domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil, nil
		},
	}
	handler := NewAuthHandler(stub, &stubUserFinder{})

	req := httptest.NewRequest(http.MethodPost, "/api/token/", strings.NewReader("not-json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Token(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
			if refreshToken != "R" {
				t.Fatalf("unexpected refresh token: %s", refreshToken)
			}
			return &ports.TokenPair{Access: "A2"}, nil
		},
	}
	handler := NewAuthHandler(stub, &stubUserFinder{})

	req := httptest.NewRequest(http.MethodPost, "/api/token/refresh/", strings.NewReader(`{"refresh":"R"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access"] != "A2" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if _, ok := resp["refresh"]; ok {
		t.Fatalf("refresh must be omitted when empty: %v", resp)
	}
}

func TestAuthHandler_UserInfo(t *testing.T) {
	e := echo.New()
	users := &stubUserFinder{users: map[string]*domain.User{
		"alice": {ID: "1", Username: "alice", Email: "alice@example.com", Role: domain.RoleAdmin},
	}}
	handler := NewAuthHandler(&stubAuthService{}, users)

	req := httptest.NewRequest(http.MethodGet, "/api/user-info/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("username", "alice")

	if err := handler.UserInfo(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["role"] != domain.RoleAdmin {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestAuthHandler_UserInfo_MissingClaims(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{}, &stubUserFinder{})

	req := httptest.NewRequest(http.MethodGet, "/api/user-info/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.UserInfo(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
