package inventory

import (
	"context"

	"github.com/fekuna/omnipos-stocktake-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stocktake-service/internal/model"
)

type UseCase interface {
	// AddStock returns nil, nil when the product does not exist.
	AddStock(ctx context.Context, input *dto.AddStockInput) (*model.ReplenishmentEvent, error)
	ListReplenishments(ctx context.Context, filters *dto.ReplenishmentFilters) ([]model.ReplenishmentEvent, error)
}
