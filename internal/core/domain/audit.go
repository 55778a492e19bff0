package domain

import "time"

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// FieldChange captures a single field transition recorded on update.
type FieldChange struct {
	From any `json:"from" bson:"from"`
	To   any `json:"to" bson:"to"`
}

// AuditEntry is one row of the audit trail. Entries are append-only and
// listed newest first.
type AuditEntry struct {
	ID         string                 `json:"id" bson:"_id,omitempty"`
	User       string                 `json:"user" bson:"user"`
	Action     string                 `json:"action" bson:"action"`
	ObjectType string                 `json:"object_type" bson:"object_type"`
	ObjectRepr string                 `json:"object_repr" bson:"object_repr"`
	ObjectID   string                 `json:"object_id" bson:"object_id"`
	Timestamp  time.Time              `json:"timestamp" bson:"timestamp"`
	Changes    map[string]FieldChange `json:"changes,omitempty" bson:"changes,omitempty"`
}
