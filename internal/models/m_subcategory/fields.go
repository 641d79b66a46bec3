package m_subcategory

// Field name constants for the subcategories table.
const (
	TableName = "subcategories"

	SubCategoryID = "subcategory_id"
	Name          = "name"
	IsActive      = "is_active"
	CreatedAt     = "created_at"
	UpdatedAt     = "updated_at"
	DeletedAt     = "deleted_at"
)

// AllColumns lists every column of the subcategories table in read order.
var AllColumns = []string{
	SubCategoryID,
	Name,
	IsActive,
	CreatedAt,
	UpdatedAt,
	DeletedAt,
}
