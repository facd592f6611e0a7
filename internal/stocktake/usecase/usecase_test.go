package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/internal/idgen"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/state"
	"github.com/fekuna/omnipos-stocktake-service/internal/stocktake"
	"github.com/fekuna/omnipos-stocktake-service/internal/stocktake/dto"
	"github.com/fekuna/omnipos-stocktake-service/internal/store"
	"github.com/fekuna/omnipos-stocktake-service/internal/store/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Store ---

type flakyStore struct {
	*repository.MemoryRepository
	fail bool
}

func (f *flakyStore) WriteAll(ctx context.Context, entries ...store.Entry) error {
	if f.fail {
		return errors.New("write refused")
	}
	return f.MemoryRepository.WriteAll(ctx, entries...)
}

// --- Helpers ---

var fixedNow = time.Date(2026, 9, 30, 18, 0, 0, 0, time.UTC)

func seed(t *testing.T, products ...model.Product) (*flakyStore, *state.AppState) {
	t.Helper()
	fs := &flakyStore{MemoryRepository: repository.NewMemoryRepository("gg_")}

	raw, err := json.Marshal(products)
	require.NoError(t, err)
	require.NoError(t, fs.WriteAll(context.Background(), store.Entry{Collection: store.Products, Data: raw}))

	st, err := state.Load(context.Background(), fs, logger.NewNop())
	require.NoError(t, err)
	return fs, st
}

func newUseCase(st *state.AppState, policy stocktake.CountPolicy) stocktake.UseCase {
	return NewStocktakeUseCase(st, stocktake.NewEngine(policy), idgen.NewSequence("report"),
		func() time.Time { return fixedNow }, logger.NewNop())
}

func productA() model.Product {
	return model.Product{ID: "A", Name: "Product A", Company: "Agro", WholesalePrice: decimal.NewFromInt(6), RetailPrice: decimal.NewFromInt(10), CurrentStock: 50}
}

func productB() model.Product {
	return model.Product{ID: "B", Name: "Product B", Company: "Agro", WholesalePrice: decimal.NewFromInt(1), RetailPrice: decimal.NewFromInt(2), CurrentStock: 5}
}

func stockOf(st *state.AppState, id string) int {
	stock := -1
	st.View(func(d *state.Data) {
		if idx := d.FindProduct(id); idx >= 0 {
			stock = d.Products[idx].CurrentStock
		}
	})
	return stock
}

// --- Tests ---

func TestReconcileDoesNotMutate(t *testing.T) {
	_, st := seed(t, productA(), productB())
	uc := newUseCase(st, stocktake.RejectInvalid)

	result, err := uc.Reconcile(context.Background(), &dto.ReconcileInput{Counts: map[string]string{"A": "35"}})
	require.NoError(t, err)
	assert.True(t, result.TotalRevenue.Equal(decimal.NewFromInt(150)))

	assert.Equal(t, 50, stockOf(st, "A"))
	reports, err := uc.ListReports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestFinalizeCountsScenario(t *testing.T) {
	fs, st := seed(t, productA(), productB())
	uc := newUseCase(st, stocktake.RejectInvalid)

	report, err := uc.FinalizeCounts(context.Background(), &dto.ReconcileInput{Counts: map[string]string{"A": "35"}})
	require.NoError(t, err)

	assert.Equal(t, "report-1", report.ID)
	assert.Equal(t, fixedNow, report.Date)
	assert.True(t, report.TotalSales.Equal(decimal.NewFromInt(150)))
	assert.True(t, report.TotalProfit.Equal(decimal.NewFromInt(60)))
	assert.True(t, report.TotalsMatch())
	require.Len(t, report.Details, 2)

	b, ok := report.Item("B")
	require.True(t, ok)
	assert.Equal(t, 0, b.SoldQuantity)

	assert.Equal(t, 35, stockOf(st, "A"))
	assert.Equal(t, 5, stockOf(st, "B"))

	reloaded, err := state.Load(context.Background(), fs, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 35, stockOf(reloaded, "A"))
	reloaded.View(func(d *state.Data) {
		require.Len(t, d.Reports, 1)
		assert.Equal(t, "report-1", d.Reports[0].ID)
		assert.True(t, d.Reports[0].TotalsMatch())
	})
}

func TestFinalizeMonthSetsStockToCount(t *testing.T) {
	_, st := seed(t, productA(), productB())
	uc := newUseCase(st, stocktake.RejectInvalid)

	projection, err := uc.Reconcile(context.Background(), &dto.ReconcileInput{Counts: map[string]string{"A": "40", "B": "9"}})
	require.NoError(t, err)

	report, err := uc.FinalizeMonth(context.Background(), projection.Items)
	require.NoError(t, err)

	for _, item := range report.Details {
		assert.Equal(t, item.ActualStock, stockOf(st, item.ProductID), item.ProductID)
	}
}

func TestFinalizeArchivesNewestFirst(t *testing.T) {
	_, st := seed(t, productA())
	uc := newUseCase(st, stocktake.RejectInvalid)

	_, err := uc.FinalizeCounts(context.Background(), &dto.ReconcileInput{Counts: map[string]string{"A": "45"}})
	require.NoError(t, err)
	_, err = uc.FinalizeCounts(context.Background(), &dto.ReconcileInput{Counts: map[string]string{"A": "30"}})
	require.NoError(t, err)

	reports, err := uc.ListReports(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "report-2", reports[0].ID)
	assert.Equal(t, "report-1", reports[1].ID)

	first, _ := reports[1].Item("A")
	second, _ := reports[0].Item("A")
	assert.Equal(t, 5, first.SoldQuantity)
	assert.Equal(t, 15, second.SoldQuantity)
	for _, r := range reports {
		assert.True(t, r.TotalsMatch())
	}
}

func TestFinalizeDropsDeletedProducts(t *testing.T) {
	_, st := seed(t, productA())
	uc := newUseCase(st, stocktake.RejectInvalid)

	items := []model.SaleItem{
		{ProductID: "A", ProductName: "Product A", SystemStock: 50, ActualStock: 48, SoldQuantity: 2, Revenue: decimal.NewFromInt(20), Profit: decimal.NewFromInt(8)},
		{ProductID: "gone", ProductName: "Deleted", SystemStock: 3, ActualStock: 1, SoldQuantity: 2, Revenue: decimal.NewFromInt(4), Profit: decimal.NewFromInt(2)},
	}

	report, err := uc.FinalizeMonth(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, report.Details, 1)
	assert.Equal(t, "A", report.Details[0].ProductID)
	assert.True(t, report.TotalSales.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 48, stockOf(st, "A"))
	assert.Equal(t, -1, stockOf(st, "gone"))

	for _, item := range report.Details {
		assert.Equal(t, item.ActualStock, stockOf(st, item.ProductID))
	}
}

func TestFinalizeMonthRepricesFromCatalog(t *testing.T) {
	testCases := []struct {
		name string
		item model.SaleItem
	}{
		{
			name: "forged money",
			item: model.SaleItem{ProductID: "A", SystemStock: 50, ActualStock: 35, SoldQuantity: 15, Revenue: decimal.NewFromInt(999999), Profit: decimal.NewFromInt(-7)},
		},
		{
			name: "stale system stock",
			item: model.SaleItem{ProductID: "A", SystemStock: 1000, ActualStock: 35, SoldQuantity: 965, Revenue: decimal.NewFromInt(9650), Profit: decimal.NewFromInt(3860)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, st := seed(t, productA())
			uc := newUseCase(st, stocktake.RejectInvalid)

			report, err := uc.FinalizeMonth(context.Background(), []model.SaleItem{tc.item})
			require.NoError(t, err)

			item, ok := report.Item("A")
			require.True(t, ok)
			assert.Equal(t, "Product A", item.ProductName)
			assert.Equal(t, 50, item.SystemStock)
			assert.Equal(t, 35, item.ActualStock)
			assert.Equal(t, 15, item.SoldQuantity)
			assert.True(t, report.TotalSales.Equal(decimal.NewFromInt(150)), report.TotalSales.String())
			assert.True(t, report.TotalProfit.Equal(decimal.NewFromInt(60)), report.TotalProfit.String())
			assert.True(t, report.TotalsMatch())
			assert.Equal(t, 35, stockOf(st, "A"))
		})
	}
}

func TestFinalizeIsAllOrNothing(t *testing.T) {
	fs, st := seed(t, productA())
	uc := newUseCase(st, stocktake.RejectInvalid)
	fs.fail = true

	_, err := uc.FinalizeCounts(context.Background(), &dto.ReconcileInput{Counts: map[string]string{"A": "35"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, state.ErrPersistence)

	assert.Equal(t, 50, stockOf(st, "A"))
	reports, err := uc.ListReports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)

	fs.fail = false
	reloaded, err := state.Load(context.Background(), fs, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 50, stockOf(reloaded, "A"))
	reloaded.View(func(d *state.Data) { assert.Empty(t, d.Reports) })
}

func TestFinalizeRejectsInvalidInput(t *testing.T) {
	fs, st := seed(t, productA())
	uc := newUseCase(st, stocktake.RejectInvalid)

	_, err := uc.FinalizeCounts(context.Background(), &dto.ReconcileInput{Counts: map[string]string{"A": "lots"}})
	assert.True(t, model.IsValidation(err))

	_, err = uc.FinalizeMonth(context.Background(), []model.SaleItem{{ProductID: "A", SystemStock: 50, ActualStock: -1, SoldQuantity: 51}})
	assert.True(t, model.IsValidation(err))

	assert.Equal(t, 50, stockOf(st, "A"))
	reloaded, err := state.Load(context.Background(), fs, logger.NewNop())
	require.NoError(t, err)
	reloaded.View(func(d *state.Data) { assert.Empty(t, d.Reports) })
}

func TestFinalizeCoercePolicy(t *testing.T) {
	_, st := seed(t, productA())
	uc := newUseCase(st, stocktake.CoerceInvalid)

	report, err := uc.FinalizeCounts(context.Background(), &dto.ReconcileInput{Counts: map[string]string{"A": "lots"}})
	require.NoError(t, err)

	item, ok := report.Item("A")
	require.True(t, ok)
	assert.Equal(t, 0, item.ActualStock)
	assert.Equal(t, 50, item.SoldQuantity)
	assert.Equal(t, 0, stockOf(st, "A"))
}

func TestGetReport(t *testing.T) {
	_, st := seed(t, productA())
	uc := newUseCase(st, stocktake.RejectInvalid)

	created, err := uc.FinalizeCounts(context.Background(), &dto.ReconcileInput{})
	require.NoError(t, err)

	got, err := uc.GetReport(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	got.Details[0].ActualStock = 999
	again, err := uc.GetReport(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, again.Details[0].ActualStock)

	missing, err := uc.GetReport(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
