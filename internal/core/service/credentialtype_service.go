package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/towerops/toweradmin/internal/core/domain"
	"github.com/towerops/toweradmin/internal/core/ports"
)

// TypeCache abstracts the per-instance credential-type list cache (Redis).
type TypeCache interface {
	Get(ctx context.Context, instanceName string) ([]domain.CredentialType, bool)
	Set(ctx context.Context, instanceName string, types []domain.CredentialType)
}

// CredentialTypeService reconciles credential types across the registered
// fleet: status rollups, duplication to missing instances, and verification
// under alternative names.
type CredentialTypeService struct {
	instances ports.InstanceRepository
	gateway   ports.TowerGateway
	cache     TypeCache
	log       zerolog.Logger
}

func NewCredentialTypeService(
	instances ports.InstanceRepository,
	gateway ports.TowerGateway,
	cache TypeCache,
	log zerolog.Logger,
) *CredentialTypeService {
	return &CredentialTypeService{instances: instances, gateway: gateway, cache: cache, log: log}
}

// Status returns every unique credential type found across the fleet with
// its presence rollup. Instances that cannot be reached count as missing.
func (s *CredentialTypeService) Status(ctx context.Context) ([]domain.CredentialTypeStatus, error) {
	instances, err := s.instances.List(ctx)
	if err != nil {
		return nil, err
	}

	perInstance := make(map[string][]domain.CredentialType, len(instances))
	unique := make(map[string]domain.CredentialType)
	for i := range instances {
		inst := &instances[i]
		types, err := s.typesFor(ctx, inst)
		if err != nil {
			s.log.Warn().Err(err).Str("instance", inst.Name).Msg("failed to fetch credential types")
			perInstance[inst.Name] = nil
			continue
		}
		perInstance[inst.Name] = types
		for _, ct := range types {
			if ct.Name == "" {
				continue
			}
			if _, seen := unique[ct.Name]; !seen {
				unique[ct.Name] = ct
			}
		}
	}

	results := make([]domain.CredentialTypeStatus, 0, len(unique))
	for name, ct := range unique {
		st := domain.CredentialTypeStatus{
			Name:               name,
			Description:        ct.Description,
			PresentInInstances: []string{},
			MissingInInstances: []string{},
		}
		for i := range instances {
			inst := &instances[i]
			if containsType(perInstance[inst.Name], name) {
				st.PresentInInstances = append(st.PresentInInstances, inst.Name)
			} else {
				st.MissingInInstances = append(st.MissingInInstances, inst.Name)
			}
		}
		st.Rollup(len(instances))
		results = append(results, st)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

// Duplicate creates the named credential type on each instance where it is
// missing. Per-instance failures are reported, not fatal.
func (s *CredentialTypeService) Duplicate(ctx context.Context, name, description string, missingIn []string) ([]domain.DuplicationResult, error) {
	results := make([]domain.DuplicationResult, 0, len(missingIn))
	for _, instName := range missingIn {
		inst, err := s.instances.FindByName(ctx, instName)
		if err != nil {
			results = append(results, domain.DuplicationResult{Instance: instName, Status: "instance_not_found"})
			continue
		}

		types, err := s.typesFor(ctx, inst)
		if err != nil {
			results = append(results, domain.DuplicationResult{Instance: inst.Name, Status: "error", Message: err.Error()})
			continue
		}
		if containsType(types, name) {
			results = append(results, domain.DuplicationResult{Instance: inst.Name, Status: "already_exists"})
			continue
		}

		ct := domain.CredentialType{Name: name, Description: description}
		if err := s.gateway.CreateCredentialType(ctx, inst, ct); err != nil {
			results = append(results, domain.DuplicationResult{Instance: inst.Name, Status: "error", Message: err.Error()})
			continue
		}

		s.log.Info().Str("instance", inst.Name).Str("type", name).Msg("credential type duplicated")
		results = append(results, domain.DuplicationResult{Instance: inst.Name, Status: "duplicated"})
	}
	return results, nil
}

// Verify checks whether a credential type exists under an alternative name
// on each listed instance. Name matching is case-insensitive.
func (s *CredentialTypeService) Verify(ctx context.Context, originalName, alternativeName string, missingIn []string) ([]domain.VerificationResult, error) {
	if originalName == "" || alternativeName == "" {
		return nil, fmt.Errorf("original and alternative credential type names are required")
	}

	results := make([]domain.VerificationResult, 0, len(missingIn))
	for _, instName := range missingIn {
		inst, err := s.instances.FindByName(ctx, instName)
		if err != nil {
			results = append(results, domain.VerificationResult{Instance: instName, Status: "instance_not_found"})
			continue
		}

		types, err := s.typesFor(ctx, inst)
		if err != nil {
			results = append(results, domain.VerificationResult{Instance: inst.Name, Status: "error"})
			continue
		}

		found := ""
		for _, ct := range types {
			if strings.EqualFold(ct.Name, alternativeName) {
				found = ct.Name
				break
			}
		}
		if found != "" {
			results = append(results, domain.VerificationResult{Instance: inst.Name, Status: "found", FoundName: found})
		} else {
			results = append(results, domain.VerificationResult{Instance: inst.Name, Status: "not_found"})
		}
	}
	return results, nil
}

// typesFor returns the instance's credential types, preferring the cache so
// a status sweep does not hammer every instance on each request.
func (s *CredentialTypeService) typesFor(ctx context.Context, inst *domain.Instance) ([]domain.CredentialType, error) {
	if s.cache != nil {
		if types, ok := s.cache.Get(ctx, inst.Name); ok {
			return types, nil
		}
	}
	types, err := s.gateway.CredentialTypes(ctx, inst)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, inst.Name, types)
	}
	return types, nil
}

func containsType(types []domain.CredentialType, name string) bool {
	for _, ct := range types {
		if ct.Name == name {
			return true
		}
	}
	return false
}
