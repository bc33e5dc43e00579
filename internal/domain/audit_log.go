package domain

import "time"

// AuditEntityType identifies what kind of entity an audit entry refers to.
type AuditEntityType string

const (
	AuditEntityTournament AuditEntityType = "tournament"
	AuditEntityCompetitor AuditEntityType = "competitor"
	AuditEntityUser       AuditEntityType = "user"
)

// AuditAction tags the mutation that produced an entry.
type AuditAction string

const (
	AuditActionCreate       AuditAction = "CREATE"
	AuditActionUpdate       AuditAction = "UPDATE"
	AuditActionApprove      AuditAction = "APPROVE"
	AuditActionReject       AuditAction = "REJECT"
	AuditActionSoftDelete   AuditAction = "SOFT_DELETE"
	AuditActionRestore      AuditAction = "RESTORE"
	AuditActionUpdateStatus AuditAction = "UPDATE_STATUS"
)

// AuditLog is an immutable, append-only record of a state change. ChangedBy
// is a weak reference to the acting user; nil for anonymous self-registration.
type AuditLog struct {
	ID         string
	EntityType AuditEntityType
	EntityID   string
	Action     AuditAction
	OldValue   map[string]any
	NewValue   map[string]any
	ChangedBy  *string
	ChangedAt  time.Time
}
