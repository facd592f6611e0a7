package dto

import "github.com/fekuna/omnipos-stocktake-service/internal/model"

// ReconcileInput maps product id to the count typed by the user. Missing
// or blank entries mean "not counted".
type ReconcileInput struct {
	Counts map[string]string `json:"counts"`
}

// FinalizeRequest carries either reviewed items or raw counts.
type FinalizeRequest struct {
	Counts map[string]string `json:"counts"`
	Items  []model.SaleItem  `json:"items"`
}
