package domain

import (
	"time"

	"github.com/light-bringer/catalog-service/internal/pkg/clock"
)

// Field names for subcategory change tracking
const (
	SubCategoryFieldName      = "name"
	SubCategoryFieldIsActive  = "is_active"
	SubCategoryFieldDeletedAt = "deleted_at"
)

// SubCategory owns products. It is demoted automatically when its last
// active product goes inactive and is never auto-promoted.
type SubCategory struct {
	id        string
	name      string
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time

	clock   clock.Clock
	changes *ChangeTracker
	events  []DomainEvent
}

// NewSubCategory creates a new SubCategory aggregate.
func NewSubCategory(id, name string, now time.Time, clk clock.Clock) (*SubCategory, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	s := &SubCategory{
		id:        id,
		name:      name,
		isActive:  false,
		createdAt: now,
		updatedAt: now,
		clock:     clk,
		changes:   NewChangeTracker(),
		events:    make([]DomainEvent, 0),
	}

	s.changes.MarkAll(SubCategoryFieldName, SubCategoryFieldIsActive)
	return s, nil
}

// ReconstructSubCategory reconstitutes a SubCategory from database rows.
func ReconstructSubCategory(
	id, name string,
	isActive bool,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
	clk clock.Clock,
) *SubCategory {
	return &SubCategory{
		id:        id,
		name:      name,
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
		clock:     clk,
		changes:   NewChangeTracker(),
		events:    make([]DomainEvent, 0),
	}
}

// Getters
func (s *SubCategory) ID() string                  { return s.id }
func (s *SubCategory) Name() string                { return s.name }
func (s *SubCategory) IsActive() bool              { return s.isActive }
func (s *SubCategory) CreatedAt() time.Time        { return s.createdAt }
func (s *SubCategory) UpdatedAt() time.Time        { return s.updatedAt }
func (s *SubCategory) DeletedAt() *time.Time       { return s.deletedAt }
func (s *SubCategory) IsDeleted() bool             { return s.deletedAt != nil }
func (s *SubCategory) Changes() *ChangeTracker     { return s.changes }
func (s *SubCategory) DomainEvents() []DomainEvent { return s.events }

// Activate promotes the subcategory. Manual only.
func (s *SubCategory) Activate(now time.Time) error {
	if s.deletedAt != nil {
		return ErrEntityDeleted
	}

	if s.isActive {
		return ErrAlreadyActive
	}

	s.isActive = true
	s.changes.MarkDirty(SubCategoryFieldIsActive)
	return nil
}

// Deactivate demotes the subcategory; used by the cascade when no product
// under it remains active. Demoting an inactive subcategory is a no-op.
func (s *SubCategory) Deactivate(now time.Time) error {
	if s.deletedAt != nil {
		return ErrEntityDeleted
	}

	if !s.isActive {
		return nil
	}

	s.isActive = false
	s.changes.MarkDirty(SubCategoryFieldIsActive)

	s.recordEvent(&SubCategoryDeactivatedEvent{
		SubCategoryID: s.id,
		Timestamp:     now,
	})

	return nil
}

// SoftDelete marks the subcategory deleted.
func (s *SubCategory) SoftDelete(now time.Time) error {
	if s.deletedAt != nil {
		return ErrAlreadyDeleted
	}

	s.deletedAt = &now
	s.changes.MarkDirty(SubCategoryFieldDeletedAt)
	return nil
}

// Restore clears the deletion marker; the subcategory lands inactive.
func (s *SubCategory) Restore(now time.Time) error {
	if s.deletedAt == nil {
		return ErrNotDeleted
	}

	s.deletedAt = nil
	if s.isActive {
		s.isActive = false
		s.changes.MarkDirty(SubCategoryFieldIsActive)
	}
	s.changes.MarkDirty(SubCategoryFieldDeletedAt)
	return nil
}

// recordEvent adds a domain event to the list of events.
func (s *SubCategory) recordEvent(event DomainEvent) {
	s.events = append(s.events, event)
}

// ClearEvents clears all recorded domain events (called after dispatching).
func (s *SubCategory) ClearEvents() {
	s.events = make([]DomainEvent, 0)
}
