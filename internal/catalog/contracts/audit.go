package contracts

import "cloud.google.com/go/spanner"

// AuditEntry records an admin/user operation.
type AuditEntry struct {
	Description   string
	OperationType string
	UserID        string
	ItemID        string
}

// AuditRepository writes audit entries. The returned mutation joins the
// enclosing operation's commit plan: audit logging is part of the
// transactional contract, not best-effort, so a failure building the entry
// aborts the whole business mutation.
type AuditRepository interface {
	InsertMut(entry *AuditEntry) (*spanner.Mutation, error)
}
