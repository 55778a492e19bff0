package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/towerops/toweradmin/internal/core/domain"
)

type stubInstanceRepo struct {
	instances []domain.Instance
}

func (r *stubInstanceRepo) List(_ context.Context) ([]domain.Instance, error) {
	return r.instances, nil
}

func (r *stubInstanceRepo) FindByID(_ context.Context, id string) (*domain.Instance, error) {
	for i := range r.instances {
		if r.instances[i].ID == id {
			clone := r.instances[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrInstanceNotFound
}

func (r *stubInstanceRepo) FindByName(_ context.Context, name string) (*domain.Instance, error) {
	for i := range r.instances {
		if r.instances[i].Name == name {
			clone := r.instances[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrInstanceNotFound
}

func (r *stubInstanceRepo) Create(_ context.Context, inst *domain.Instance) (*domain.Instance, error) {
	r.instances = append(r.instances, *inst)
	return inst, nil
}

func (r *stubInstanceRepo) Update(_ context.Context, inst *domain.Instance) (*domain.Instance, error) {
	for i := range r.instances {
		if r.instances[i].ID == inst.ID {
			r.instances[i] = *inst
			return inst, nil
		}
	}
	return nil, domain.ErrInstanceNotFound
}

func (r *stubInstanceRepo) Delete(_ context.Context, id string) error {
	for i := range r.instances {
		if r.instances[i].ID == id {
			r.instances = append(r.instances[:i], r.instances[i+1:]...)
			return nil
		}
	}
	return domain.ErrInstanceNotFound
}

type stubGateway struct {
	types     map[string][]domain.CredentialType
	failing   map[string]bool
	created   map[string][]domain.CredentialType
	createErr error
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		types:   make(map[string][]domain.CredentialType),
		failing: make(map[string]bool),
		created: make(map[string][]domain.CredentialType),
	}
}

func (g *stubGateway) Ping(_ context.Context, url, _, _ string) error {
	if g.failing[url] {
		return domain.ErrTowerUnreachable
	}
	return nil
}

func (g *stubGateway) CredentialTypes(_ context.Context, inst *domain.Instance) ([]domain.CredentialType, error) {
	if g.failing[inst.Name] {
		return nil, domain.ErrTowerUnreachable
	}
	return g.types[inst.Name], nil
}

func (g *stubGateway) CreateCredentialType(_ context.Context, inst *domain.Instance, ct domain.CredentialType) error {
	if g.createErr != nil {
		return g.createErr
	}
	g.created[inst.Name] = append(g.created[inst.Name], ct)
	g.types[inst.Name] = append(g.types[inst.Name], ct)
	return nil
}

func (g *stubGateway) Credentials(_ context.Context, _ *domain.TowerConfig) ([]map[string]any, error) {
	return nil, nil
}

type memTypeCache struct {
	entries map[string][]domain.CredentialType
}

func newMemTypeCache() *memTypeCache {
	return &memTypeCache{entries: make(map[string][]domain.CredentialType)}
}

func (c *memTypeCache) Get(_ context.Context, name string) ([]domain.CredentialType, bool) {
	types, ok := c.entries[name]
	return types, ok
}

func (c *memTypeCache) Set(_ context.Context, name string, types []domain.CredentialType) {
	c.entries[name] = types
}

func fleet(names ...string) []domain.Instance {
	out := make([]domain.Instance, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Instance{ID: n, Name: n, URL: "https://" + n, Username: "svc"})
	}
	return out
}

func TestCredentialTypeService_StatusRollup(t *testing.T) {
	repo := &stubInstanceRepo{instances: fleet("a", "b", "c")}
	gw := newStubGateway()
	gw.types["a"] = []domain.CredentialType{{Name: "Machine"}, {Name: "Vault"}}
	gw.types["b"] = []domain.CredentialType{{Name: "Machine"}, {Name: "Vault"}}
	gw.types["c"] = []domain.CredentialType{{Name: "Machine"}}

	svc := NewCredentialTypeService(repo, gw, nil, zerolog.Nop())
	statuses, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 types, got %+v", statuses)
	}

	// Sorted by name: Machine, Vault.
	machine, vault := statuses[0], statuses[1]
	if machine.Name != "Machine" || machine.Status != domain.RollupGreen {
		t.Fatalf("Machine present everywhere must be green: %+v", machine)
	}
	if vault.Status != domain.RollupOrange {
		t.Fatalf("Vault on 2 of 3 must be orange: %+v", vault)
	}
	if len(vault.MissingInInstances) != 1 || vault.MissingInInstances[0] != "c" {
		t.Fatalf("Vault must be missing on c: %+v", vault)
	}
}

func TestCredentialTypeService_StatusUnreachableCountsAsMissing(t *testing.T) {
	repo := &stubInstanceRepo{instances: fleet("a", "b")}
	gw := newStubGateway()
	gw.types["a"] = []domain.CredentialType{{Name: "Machine"}}
	gw.failing["b"] = true

	svc := NewCredentialTypeService(repo, gw, nil, zerolog.Nop())
	statuses, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected 1 type, got %+v", statuses)
	}
	st := statuses[0]
	if st.Status != domain.RollupRed {
		t.Fatalf("1 of 2 must be red: %+v", st)
	}
	if len(st.MissingInInstances) != 1 || st.MissingInInstances[0] != "b" {
		t.Fatalf("unreachable instance must count as missing: %+v", st)
	}
}

func TestCredentialTypeService_StatusUsesCache(t *testing.T) {
	repo := &stubInstanceRepo{instances: fleet("a")}
	gw := newStubGateway()
	gw.failing["a"] = true
	cache := newMemTypeCache()
	cache.Set(context.Background(), "a", []domain.CredentialType{{Name: "Machine"}})

	svc := NewCredentialTypeService(repo, gw, cache, zerolog.Nop())
	statuses, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(statuses) != 1 || statuses[0].Status != domain.RollupGreen {
		t.Fatalf("cached types must be served despite the gateway failing: %+v", statuses)
	}
}

func TestCredentialTypeService_Duplicate(t *testing.T) {
	repo := &stubInstanceRepo{instances: fleet("a", "b")}
	gw := newStubGateway()
	gw.types["a"] = []domain.CredentialType{{Name: "Vault"}}

	svc := NewCredentialTypeService(repo, gw, nil, zerolog.Nop())
	results, err := svc.Duplicate(context.Background(), "Vault", "HashiCorp Vault", []string{"b", "a", "ghost"})
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %+v", results)
	}
	byInstance := map[string]string{}
	for _, r := range results {
		byInstance[r.Instance] = r.Status
	}
	if byInstance["b"] != "duplicated" {
		t.Fatalf("expected b duplicated, got %v", byInstance)
	}
	if byInstance["a"] != "already_exists" {
		t.Fatalf("expected a already_exists, got %v", byInstance)
	}
	if byInstance["ghost"] != "instance_not_found" {
		t.Fatalf("expected ghost instance_not_found, got %v", byInstance)
	}
	if len(gw.created["b"]) != 1 || gw.created["b"][0].Description != "HashiCorp Vault" {
		t.Fatalf("expected type created on b: %+v", gw.created)
	}
}

func TestCredentialTypeService_DuplicateGatewayFailure(t *testing.T) {
	repo := &stubInstanceRepo{instances: fleet("a")}
	gw := newStubGateway()
	gw.createErr = errors.New("boom")

	svc := NewCredentialTypeService(repo, gw, nil, zerolog.Nop())
	results, err := svc.Duplicate(context.Background(), "Vault", "", []string{"a"})
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if len(results) != 1 || results[0].Status != "error" {
		t.Fatalf("per-instance failures must be reported, got %+v", results)
	}
}

func TestCredentialTypeService_VerifyCaseInsensitive(t *testing.T) {
	repo := &stubInstanceRepo{instances: fleet("a", "b")}
	gw := newStubGateway()
	gw.types["a"] = []domain.CredentialType{{Name: "HASHICORP VAULT"}}
	gw.types["b"] = []domain.CredentialType{{Name: "Machine"}}

	svc := NewCredentialTypeService(repo, gw, nil, zerolog.Nop())
	results, err := svc.Verify(context.Background(), "Vault", "HashiCorp Vault", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if results[0].Status != "found" || results[0].FoundName != "HASHICORP VAULT" {
		t.Fatalf("expected case-insensitive match on a: %+v", results[0])
	}
	if results[1].Status != "not_found" {
		t.Fatalf("expected not_found on b: %+v", results[1])
	}
}

func TestCredentialTypeService_VerifyRequiresNames(t *testing.T) {
	svc := NewCredentialTypeService(&stubInstanceRepo{}, newStubGateway(), nil, zerolog.Nop())

	if _, err := svc.Verify(context.Background(), "", "alt", []string{"a"}); err == nil {
		t.Fatalf("expected error for empty original name")
	}
	if _, err := svc.Verify(context.Background(), "orig", "", []string{"a"}); err == nil {
		t.Fatalf("expected error for empty alternative name")
	}
}
