package ports

import (
	"context"

	"github.com/towerops/toweradmin/internal/core/domain"
)

// AuditRepository defines persistence for the append-only audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// AuditRecorder records resource mutations. Implementations must never fail
// the mutating operation: recording errors are logged and swallowed.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, objectType, objectRepr, objectID string, changes map[string]domain.FieldChange)
}

type AuditService interface {
	List(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
