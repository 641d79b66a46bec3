package m_audit

import "time"

// Data represents the database model for the audit_log table.
type Data struct {
	EntryID       string
	Description   string
	OperationType string
	UserID        string
	ItemID        string
	CreatedAt     time.Time
}
