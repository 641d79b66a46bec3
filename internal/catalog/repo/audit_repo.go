package repo

import (
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/light-bringer/catalog-service/internal/catalog/contracts"
	"github.com/light-bringer/catalog-service/internal/models/m_audit"
)

// AuditRepo implements AuditRepository for Spanner.
type AuditRepo struct {
	model *m_audit.Model
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo() contracts.AuditRepository {
	return &AuditRepo{
		model: m_audit.NewModel(),
	}
}

// InsertMut creates a mutation for inserting an audit entry. The mutation
// joins the enclosing business transaction; an error here aborts the whole
// operation before anything is committed.
func (r *AuditRepo) InsertMut(entry *contracts.AuditEntry) (*spanner.Mutation, error) {
	if entry.Description == "" || entry.OperationType == "" {
		return nil, fmt.Errorf("audit entry requires a description and operation type")
	}

	return r.model.InsertMut(&m_audit.Data{
		EntryID:       uuid.New().String(),
		Description:   entry.Description,
		OperationType: entry.OperationType,
		UserID:        entry.UserID,
		ItemID:        entry.ItemID,
	}), nil
}
