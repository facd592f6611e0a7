package dto

type ReplenishmentFilters struct {
	ProductID string // Empty means all products
}
