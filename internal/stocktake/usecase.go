package stocktake

import (
	"context"

	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/stocktake/dto"
)

type UseCase interface {
	// Reconcile computes the projection for the current catalog without saving anything.
	Reconcile(ctx context.Context, input *dto.ReconcileInput) (*model.Reconciliation, error)
	// FinalizeMonth archives items as a report and sets each product's stock to its counted value.
	FinalizeMonth(ctx context.Context, items []model.SaleItem) (*model.MonthEndReport, error)
	// FinalizeCounts reconciles and finalizes against the same catalog snapshot.
	FinalizeCounts(ctx context.Context, input *dto.ReconcileInput) (*model.MonthEndReport, error)
	ListReports(ctx context.Context) ([]model.MonthEndReport, error)
	GetReport(ctx context.Context, id string) (*model.MonthEndReport, error)
}
