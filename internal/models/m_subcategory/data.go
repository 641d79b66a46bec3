package m_subcategory

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the subcategories table.
type Data struct {
	SubCategoryID string
	Name          string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     spanner.NullTime
}
