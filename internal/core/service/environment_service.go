package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/towerops/toweradmin/internal/core/domain"
	"github.com/towerops/toweradmin/internal/core/ports"
)

// EnvironmentService manages execution environments with audit logging.
type EnvironmentService struct {
	repo  ports.EnvironmentRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewEnvironmentService(repo ports.EnvironmentRepository, audit ports.AuditRecorder, log zerolog.Logger) *EnvironmentService {
	return &EnvironmentService{repo: repo, audit: audit, log: log}
}

func (s *EnvironmentService) List(ctx context.Context) ([]domain.Environment, error) {
	return s.repo.List(ctx)
}

func (s *EnvironmentService) Create(ctx context.Context, actor string, in ports.EnvironmentInput) (*domain.Environment, error) {
	env := &domain.Environment{
		Name:        in.Name,
		Image:       in.Image,
		Description: in.Description,
		InstanceID:  in.InstanceID,
	}

	created, err := s.repo.Create(ctx, env)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("name", created.Name).Str("image", created.Image).Msg("environment created")
	s.audit.Record(ctx, actor, domain.ActionCreated, "ExecutionEnvironment", created.Name, created.ID, nil)
	return created, nil
}

func (s *EnvironmentService) Update(ctx context.Context, actor, id string, in ports.EnvironmentInput) (*domain.Environment, error) {
	old, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *old
	next.Name = in.Name
	next.Image = in.Image
	next.Description = in.Description
	next.InstanceID = in.InstanceID

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.ActionUpdated, "ExecutionEnvironment", updated.Name, updated.ID, diffChanges(old, updated))
	return updated, nil
}

func (s *EnvironmentService) Delete(ctx context.Context, actor, id string) error {
	env, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, domain.ActionDeleted, "ExecutionEnvironment", env.Name, env.ID, nil)
	return nil
}
