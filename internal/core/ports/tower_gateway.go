package ports

import (
	"context"

	"github.com/towerops/toweradmin/internal/core/domain"
)

// TowerGateway abstracts the upstream tower (AAP v2) API consumed when
// reconciling credential types and testing connectivity.
type TowerGateway interface {
	Ping(ctx context.Context, url, username, password string) error
	CredentialTypes(ctx context.Context, inst *domain.Instance) ([]domain.CredentialType, error)
	CreateCredentialType(ctx context.Context, inst *domain.Instance, ct domain.CredentialType) error
	Credentials(ctx context.Context, cfg *domain.TowerConfig) ([]map[string]any, error)
}

type CredentialTypeService interface {
	Status(ctx context.Context) ([]domain.CredentialTypeStatus, error)
	Duplicate(ctx context.Context, name, description string, missingIn []string) ([]domain.DuplicationResult, error)
	Verify(ctx context.Context, originalName, alternativeName string, missingIn []string) ([]domain.VerificationResult, error)
}

// ConfigRepository stores the single tower config record.
type ConfigRepository interface {
	Get(ctx context.Context) (*domain.TowerConfig, error)
	Save(ctx context.Context, cfg *domain.TowerConfig) (*domain.TowerConfig, error)
}
