package ports

import (
	"context"

	"github.com/towerops/toweradmin/internal/core/domain"
)

// TokenPair carries the access and refresh tokens issued on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}
