package query

// Package query turns declarative, optional filter criteria into
// executable gorm queries. Filters are pure values; nothing here touches
// the database until the caller runs the returned query.

// Defaults applied when a Page field is left zero.
const (
	DefaultPageSize = 20
	DefaultSortBy   = "name"
)

// Page selects a bounded, offset window of a sorted result set.
// Number is zero-based. Size is a pointer so an absent size can pick up
// the default while an explicit zero is rejected. Sorting is always
// single-key ascending.
type Page struct {
	Number int    `json:"pageNumber"`
	Size   *int   `json:"pageSize"`
	SortBy string `json:"sortBy"`
}

// PageSize wraps a literal size for building Page values.
func PageSize(n int) *int {
	return &n
}

// DefaultPage returns the first page with default size and sort key.
func DefaultPage() Page {
	return Page{Number: 0, Size: PageSize(DefaultPageSize), SortBy: DefaultSortBy}
}

// CategoryFilter matches categories. Zero-value fields impose no
// constraint; present criteria are ANDed together.
type CategoryFilter struct {
	// Name matches categories whose name contains the value.
	Name string `json:"name"`
	// ParentCategory matches categories whose parent has exactly this name.
	ParentCategory string `json:"parentCategory"`
}

// ProductFilter matches products. Zero-value fields impose no constraint;
// present criteria are ANDed together. Price is a pointer so zero can be
// filtered for explicitly.
type ProductFilter struct {
	// Name matches products whose name contains the value.
	Name string `json:"name"`
	// Category matches products whose category has exactly this name.
	Category string `json:"category"`
	// ParentCategory matches products whose category's parent has exactly
	// this name.
	ParentCategory string `json:"parentCategory"`
	// Feature matches products carrying at least one feature key under the
	// named feature.
	Feature string `json:"feature"`
	// Price is an exact-equality match when present.
	Price *int64 `json:"price"`
}
