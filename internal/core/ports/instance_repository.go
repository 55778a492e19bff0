package ports

import (
	"context"

	"github.com/towerops/toweradmin/internal/core/domain"
)

// InstanceRepository defines persistence for tower instances.
type InstanceRepository interface {
	List(ctx context.Context) ([]domain.Instance, error)
	FindByID(ctx context.Context, id string) (*domain.Instance, error)
	FindByName(ctx context.Context, name string) (*domain.Instance, error)
	Create(ctx context.Context, inst *domain.Instance) (*domain.Instance, error)
	Update(ctx context.Context, inst *domain.Instance) (*domain.Instance, error)
	Delete(ctx context.Context, id string) error
}

// CredentialRepository defines persistence for stored credentials.
type CredentialRepository interface {
	List(ctx context.Context) ([]domain.Credential, error)
	FindByID(ctx context.Context, id string) (*domain.Credential, error)
	Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
	Update(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
	Delete(ctx context.Context, id string) error
}

// EnvironmentRepository defines persistence for execution environments.
type EnvironmentRepository interface {
	List(ctx context.Context) ([]domain.Environment, error)
	FindByID(ctx context.Context, id string) (*domain.Environment, error)
	Create(ctx context.Context, env *domain.Environment) (*domain.Environment, error)
	Update(ctx context.Context, env *domain.Environment) (*domain.Environment, error)
	Delete(ctx context.Context, id string) error
}
