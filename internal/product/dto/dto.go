package dto

type ProductFilters struct {
	SearchQuery string // Case-insensitive match on name or company
}
