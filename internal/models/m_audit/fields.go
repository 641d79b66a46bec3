package m_audit

// Field name constants for the audit_log table.
const (
	TableName = "audit_log"

	EntryID       = "entry_id"
	Description   = "description"
	OperationType = "operation_type"
	UserID        = "user_id"
	ItemID        = "item_id"
	CreatedAt     = "created_at"
)

// Operation type constants
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpActivate   = "activate"
	OpDeactivate = "deactivate"
	OpDelete     = "delete"
	OpRestore    = "restore"
)

// AllColumns lists every column of the audit_log table in read order.
var AllColumns = []string{
	EntryID,
	Description,
	OperationType,
	UserID,
	ItemID,
	CreatedAt,
}
