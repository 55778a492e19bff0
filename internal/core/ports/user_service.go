package ports

import (
	"context"

	"github.com/towerops/toweradmin/internal/core/domain"
)

// UserInput is the write shape for user create/update. Password is optional
// on update; when empty the stored hash is kept.
type UserInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role" validate:"required,oneof=admin member viewer"`
}

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, actor string, in UserInput) (*domain.User, error)
	Update(ctx context.Context, actor, id string, in UserInput) (*domain.User, error)
	Delete(ctx context.Context, actor, id string) error
}
