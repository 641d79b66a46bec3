package m_discount

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the discounts table.
type Data struct {
	DiscountID      string
	Name            string
	DiscountPercent int64
	StartDate       time.Time
	EndDate         time.Time
	IsActive        bool
	CategoryID      spanner.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       spanner.NullTime
}
