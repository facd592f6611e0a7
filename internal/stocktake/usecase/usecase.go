package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/internal/idgen"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/state"
	"github.com/fekuna/omnipos-stocktake-service/internal/stocktake"
	"github.com/fekuna/omnipos-stocktake-service/internal/stocktake/dto"
	"github.com/fekuna/omnipos-stocktake-service/internal/store"
	"go.uber.org/zap"
)

type stocktakeUseCase struct {
	state  *state.AppState
	engine *stocktake.Engine
	ids    idgen.Generator
	now    func() time.Time
	logger logger.ZapLogger
}

func NewStocktakeUseCase(st *state.AppState, engine *stocktake.Engine, ids idgen.Generator, now func() time.Time, log logger.ZapLogger) stocktake.UseCase {
	return &stocktakeUseCase{
		state:  st,
		engine: engine,
		ids:    ids,
		now:    now,
		logger: log,
	}
}

func (uc *stocktakeUseCase) Reconcile(ctx context.Context, input *dto.ReconcileInput) (*model.Reconciliation, error) {
	var (
		result model.Reconciliation
		err    error
	)
	uc.state.View(func(d *state.Data) {
		result, err = uc.engine.Reconcile(d.Products, input.Counts)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (uc *stocktakeUseCase) FinalizeMonth(ctx context.Context, items []model.SaleItem) (*model.MonthEndReport, error) {
	if err := stocktake.ValidateItems(items); err != nil {
		return nil, err
	}

	var report model.MonthEndReport
	err := uc.state.Update(ctx, func(d *state.Data) ([]store.Collection, error) {
		repriced := uc.engine.Reprice(d.Products, items)
		if dropped := len(items) - len(repriced); dropped > 0 {
			uc.logger.Warn("finalize skipped items for deleted products", zap.Int("dropped", dropped))
		}
		report = uc.apply(d, repriced)
		return []store.Collection{store.Reports, store.Products}, nil
	})
	if err != nil {
		return nil, err
	}

	uc.logFinalized(report)
	return &report, nil
}

func (uc *stocktakeUseCase) FinalizeCounts(ctx context.Context, input *dto.ReconcileInput) (*model.MonthEndReport, error) {
	var report model.MonthEndReport
	err := uc.state.Update(ctx, func(d *state.Data) ([]store.Collection, error) {
		projection, err := uc.engine.Reconcile(d.Products, input.Counts)
		if err != nil {
			return nil, err
		}
		report = uc.apply(d, projection.Items)
		return []store.Collection{store.Reports, store.Products}, nil
	})
	if err != nil {
		return nil, err
	}

	uc.logFinalized(report)
	return &report, nil
}

// apply prepends the report and sets each counted product's stock to its actual count.
func (uc *stocktakeUseCase) apply(d *state.Data, items []model.SaleItem) model.MonthEndReport {
	report := uc.engine.Finalize(items, uc.ids.NewID(), uc.now())
	d.Reports = append([]model.MonthEndReport{report}, d.Reports...)

	for _, item := range items {
		if idx := d.FindProduct(item.ProductID); idx >= 0 {
			d.Products[idx].CurrentStock = item.ActualStock
		}
	}
	return report
}

func (uc *stocktakeUseCase) logFinalized(report model.MonthEndReport) {
	uc.logger.Info("month finalized",
		zap.String("report_id", report.ID),
		zap.Int("items", len(report.Details)),
		zap.String("total_sales", report.TotalSales.String()),
		zap.String("total_profit", report.TotalProfit.String()),
	)
}

func (uc *stocktakeUseCase) ListReports(ctx context.Context) ([]model.MonthEndReport, error) {
	var reports []model.MonthEndReport
	uc.state.View(func(d *state.Data) {
		reports = d.Clone().Reports
	})
	return reports, nil
}

func (uc *stocktakeUseCase) GetReport(ctx context.Context, id string) (*model.MonthEndReport, error) {
	var (
		report model.MonthEndReport
		found  bool
	)
	uc.state.View(func(d *state.Data) {
		idx := slices.IndexFunc(d.Reports, func(r model.MonthEndReport) bool { return r.ID == id })
		if idx >= 0 {
			report = d.Reports[idx]
			report.Details = slices.Clone(report.Details)
			found = true
		}
	})
	if !found {
		return nil, nil
	}
	return &report, nil
}
