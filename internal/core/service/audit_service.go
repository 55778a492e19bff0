package service

import (
	"context"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"github.com/towerops/toweradmin/internal/api/metrics"
	"github.com/towerops/toweradmin/internal/core/domain"
	"github.com/towerops/toweradmin/internal/core/ports"
)

const defaultAuditLimit = 100

func nowUTC() time.Time { return time.Now().UTC() }

// AuditService lists audit entries and records resource mutations. Recording
// is best-effort: a failed insert is logged and never propagated, so the
// mutation that triggered it still succeeds.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

func (s *AuditService) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.repo.List(ctx, limit)
}

// Record implements ports.AuditRecorder.
func (s *AuditService) Record(ctx context.Context, actor, action, objectType, objectRepr, objectID string, changes map[string]domain.FieldChange) {
	if actor == "" {
		actor = "system"
	}
	entry := &domain.AuditEntry{
		User:       actor,
		Action:     action,
		ObjectType: objectType,
		ObjectRepr: objectRepr,
		ObjectID:   objectID,
		Timestamp:  time.Now().UTC(),
		Changes:    changes,
	}
	metrics.AuditEntriesTotal.WithLabelValues(action, objectType).Inc()
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.log.Warn().Err(err).
			Str("action", action).
			Str("object_type", objectType).
			Str("object_id", objectID).
			Msg("failed to record audit entry")
	}
}

// diffChanges compares two structs of the same type field by field and
// returns the transitions. Unexported fields and password hashes are skipped.
func diffChanges(oldV, newV any) map[string]domain.FieldChange {
	ov := reflect.Indirect(reflect.ValueOf(oldV))
	nv := reflect.Indirect(reflect.ValueOf(newV))
	if !ov.IsValid() || !nv.IsValid() || ov.Type() != nv.Type() || ov.Kind() != reflect.Struct {
		return nil
	}

	changes := make(map[string]domain.FieldChange)
	t := ov.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		switch {
		case !f.IsExported():
			continue
		case f.Name == "Password" || f.Name == "PasswordHash" || f.Name == "UpdatedAt":
			continue
		}
		a, b := ov.Field(i).Interface(), nv.Field(i).Interface()
		if !reflect.DeepEqual(a, b) {
			changes[jsonName(f)] = domain.FieldChange{From: a, To: b}
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			tag = tag[:i]
			break
		}
	}
	if tag == "" || tag == "-" {
		return f.Name
	}
	return tag
}
