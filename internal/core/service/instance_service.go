package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/towerops/toweradmin/internal/core/domain"
	"github.com/towerops/toweradmin/internal/core/ports"
)

// InstanceService manages tower instances with audit logging on every
// mutation.
type InstanceService struct {
	repo  ports.InstanceRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewInstanceService(repo ports.InstanceRepository, audit ports.AuditRecorder, log zerolog.Logger) *InstanceService {
	return &InstanceService{repo: repo, audit: audit, log: log}
}

func (s *InstanceService) List(ctx context.Context) ([]domain.Instance, error) {
	return s.repo.List(ctx)
}

func (s *InstanceService) Create(ctx context.Context, actor string, in ports.InstanceInput) (*domain.Instance, error) {
	status := in.Status
	if status == "" {
		status = domain.InstanceActive
	}
	inst := &domain.Instance{
		Name:        in.Name,
		URL:         in.URL,
		Username:    in.Username,
		Password:    in.Password,
		Region:      in.Region,
		Environment: in.Environment,
		Status:      status,
	}

	created, err := s.repo.Create(ctx, inst)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("name", created.Name).Str("region", created.Region).Msg("instance created")
	s.audit.Record(ctx, actor, domain.ActionCreated, "TowerInstance", instanceRepr(created), created.ID, nil)
	return created, nil
}

func (s *InstanceService) Update(ctx context.Context, actor, id string, in ports.InstanceInput) (*domain.Instance, error) {
	old, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *old
	next.Name = in.Name
	next.URL = in.URL
	next.Username = in.Username
	next.Region = in.Region
	next.Environment = in.Environment
	if in.Status != "" {
		next.Status = in.Status
	}
	if in.Password != "" {
		next.Password = in.Password
	}

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.ActionUpdated, "TowerInstance", instanceRepr(updated), updated.ID, diffChanges(old, updated))
	return updated, nil
}

func (s *InstanceService) Delete(ctx context.Context, actor, id string) error {
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, domain.ActionDeleted, "TowerInstance", instanceRepr(inst), inst.ID, nil)
	return nil
}

func instanceRepr(inst *domain.Instance) string {
	return fmt.Sprintf("%s (%s - %s)", inst.Name, inst.Region, inst.Environment)
}
