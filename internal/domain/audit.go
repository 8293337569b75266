package domain

import "time"

type AuditAction string

const (
	AuditCreated AuditAction = "created"
	AuditUpdated AuditAction = "updated"
	AuditDeleted AuditAction = "deleted"
)

// AuditEntry is one immutable lifecycle event. OldStatus is nil for creation.
type AuditEntry struct {
	ID            int64       `json:"id"`
	ApplicationID string      `json:"application_id"`
	Action        AuditAction `json:"action"`
	OldStatus     *string     `json:"old_status,omitempty"`
	NewStatus     string      `json:"new_status"`
	Remarks       *string     `json:"remarks,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}
