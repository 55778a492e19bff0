package ports

import (
	"context"

	"github.com/towerops/toweradmin/internal/core/domain"
)

// InstanceInput is the write shape for instance create/update. Password is
// optional on update; when empty the stored value is kept.
type InstanceInput struct {
	Name        string `json:"name" validate:"required"`
	URL         string `json:"url" validate:"required,url"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	Region      string `json:"region,omitempty"`
	Environment string `json:"environment,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type InstanceService interface {
	List(ctx context.Context) ([]domain.Instance, error)
	Create(ctx context.Context, actor string, in InstanceInput) (*domain.Instance, error)
	Update(ctx context.Context, actor, id string, in InstanceInput) (*domain.Instance, error)
	Delete(ctx context.Context, actor, id string) error
}

// CredentialInput is the write shape for credential create/update.
type CredentialInput struct {
	Name       string `json:"name" validate:"required"`
	Type       string `json:"type" validate:"required"`
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password,omitempty"`
	InstanceID string `json:"instance_id" validate:"required"`
}

type CredentialService interface {
	List(ctx context.Context) ([]domain.Credential, error)
	Create(ctx context.Context, actor string, in CredentialInput) (*domain.Credential, error)
	Update(ctx context.Context, actor, id string, in CredentialInput) (*domain.Credential, error)
	Delete(ctx context.Context, actor, id string) error
}

// EnvironmentInput is the write shape for environment create/update.
type EnvironmentInput struct {
	Name        string `json:"name" validate:"required"`
	Image       string `json:"image" validate:"required,url"`
	Description string `json:"description,omitempty"`
	InstanceID  string `json:"instance_id" validate:"required"`
}

type EnvironmentService interface {
	List(ctx context.Context) ([]domain.Environment, error)
	Create(ctx context.Context, actor string, in EnvironmentInput) (*domain.Environment, error)
	Update(ctx context.Context, actor, id string, in EnvironmentInput) (*domain.Environment, error)
	Delete(ctx context.Context, actor, id string) error
}
