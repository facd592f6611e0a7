package usecase

import (
	"context"
	"math"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/internal/idgen"
	"github.com/fekuna/omnipos-stocktake-service/internal/inventory"
	"github.com/fekuna/omnipos-stocktake-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/state"
	"github.com/fekuna/omnipos-stocktake-service/internal/store"
	"github.com/fekuna/omnipos-stocktake-service/internal/validate"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	state  *state.AppState
	ids    idgen.Generator
	now    func() time.Time
	logger logger.ZapLogger
}

func NewInventoryUseCase(st *state.AppState, ids idgen.Generator, now func() time.Time, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		state:  st,
		ids:    ids,
		now:    now,
		logger: log,
	}
}

func (uc *inventoryUseCase) AddStock(ctx context.Context, input *dto.AddStockInput) (*model.ReplenishmentEvent, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var event *model.ReplenishmentEvent
	err := uc.state.Update(ctx, func(d *state.Data) ([]store.Collection, error) {
		idx := d.FindProduct(input.ProductID)
		if idx < 0 {
			return nil, nil
		}

		p := &d.Products[idx]
		if p.CurrentStock > math.MaxInt-input.Quantity {
			return nil, model.NewValidationError("quantity", "overflow", "stock would exceed the maximum")
		}
		event = &model.ReplenishmentEvent{
			ID:          uc.ids.NewID(),
			Date:        uc.now(),
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    input.Quantity,
		}
		p.CurrentStock += input.Quantity
		d.Replenishments = append([]model.ReplenishmentEvent{*event}, d.Replenishments...)

		return []store.Collection{store.Products, store.Replenishments}, nil
	})
	if err != nil {
		return nil, err
	}

	if event == nil {
		uc.logger.Warn("stock added for unknown product ignored", zap.String("product_id", input.ProductID))
		return nil, nil
	}

	uc.logger.Info("stock added",
		zap.String("product_id", event.ProductID),
		zap.Int("quantity", event.Quantity),
	)
	return event, nil
}

func (uc *inventoryUseCase) ListReplenishments(ctx context.Context, filters *dto.ReplenishmentFilters) ([]model.ReplenishmentEvent, error) {
	events := []model.ReplenishmentEvent{}
	uc.state.View(func(d *state.Data) {
		for _, e := range d.Replenishments {
			if filters == nil || filters.ProductID == "" || e.ProductID == filters.ProductID {
				events = append(events, e)
			}
		}
	})
	return events, nil
}
