package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/towerops/toweradmin/internal/core/domain"
	"github.com/towerops/toweradmin/internal/core/ports"
)

// CredentialService manages stored credentials with audit logging.
type CredentialService struct {
	repo  ports.CredentialRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewCredentialService(repo ports.CredentialRepository, audit ports.AuditRecorder, log zerolog.Logger) *CredentialService {
	return &CredentialService{repo: repo, audit: audit, log: log}
}

func (s *CredentialService) List(ctx context.Context) ([]domain.Credential, error) {
	return s.repo.List(ctx)
}

func (s *CredentialService) Create(ctx context.Context, actor string, in ports.CredentialInput) (*domain.Credential, error) {
	cred := &domain.Credential{
		Name:       in.Name,
		Type:       in.Type,
		Username:   in.Username,
		Password:   in.Password,
		InstanceID: in.InstanceID,
	}

	created, err := s.repo.Create(ctx, cred)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("name", created.Name).Str("type", created.Type).Msg("credential created")
	s.audit.Record(ctx, actor, domain.ActionCreated, "Credential", credentialRepr(created), created.ID, nil)
	return created, nil
}

func (s *CredentialService) Update(ctx context.Context, actor, id string, in ports.CredentialInput) (*domain.Credential, error) {
	old, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *old
	next.Name = in.Name
	next.Type = in.Type
	next.Username = in.Username
	next.InstanceID = in.InstanceID
	if in.Password != "" {
		next.Password = in.Password
	}

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.ActionUpdated, "Credential", credentialRepr(updated), updated.ID, diffChanges(old, updated))
	return updated, nil
}

func (s *CredentialService) Delete(ctx context.Context, actor, id string) error {
	cred, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, domain.ActionDeleted, "Credential", credentialRepr(cred), cred.ID, nil)
	return nil
}

func credentialRepr(cred *domain.Credential) string {
	return fmt.Sprintf("%s (%s)", cred.Name, cred.Type)
}
