package m_variant

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the variants table.
type Data struct {
	VariantID string
	ProductID string
	Color     string
	Size      spanner.NullString
	Waist     spanner.NullInt64
	Length    spanner.NullInt64
	Quantity  int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt spanner.NullTime
}
