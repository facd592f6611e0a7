package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/fekuna/omnipos-stocktake-service/internal/idgen"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/product"
	"github.com/fekuna/omnipos-stocktake-service/internal/product/dto"
	"github.com/fekuna/omnipos-stocktake-service/internal/state"
	"github.com/fekuna/omnipos-stocktake-service/internal/store"
	"github.com/fekuna/omnipos-stocktake-service/internal/validate"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type productUseCase struct {
	state  *state.AppState
	ids    idgen.Generator
	logger logger.ZapLogger
}

func NewProductUseCase(st *state.AppState, ids idgen.Generator, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		state:  st,
		ids:    ids,
		logger: log,
	}
}

func (uc *productUseCase) AddProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Company = strings.TrimSpace(input.Company)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if err := validatePrices(input.WholesalePrice, input.RetailPrice); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uc.ids.NewID()
	}

	p := model.Product{
		ID:             id,
		Name:           input.Name,
		Company:        input.Company,
		WholesalePrice: input.WholesalePrice,
		RetailPrice:    input.RetailPrice,
		CurrentStock:   input.CurrentStock,
	}

	err := uc.state.Update(ctx, func(d *state.Data) ([]store.Collection, error) {
		if d.FindProduct(id) >= 0 {
			return nil, model.NewValidationError("id", "unique", "product id already exists")
		}
		d.Products = append(d.Products, p)
		return []store.Collection{store.Products}, nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product added", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return &p, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Company = strings.TrimSpace(input.Company)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if err := validatePrices(input.WholesalePrice, input.RetailPrice); err != nil {
		return nil, err
	}

	var (
		updated model.Product
		found   bool
	)
	err := uc.state.Update(ctx, func(d *state.Data) ([]store.Collection, error) {
		idx := d.FindProduct(input.ID)
		if idx < 0 {
			return nil, nil
		}
		found = true
		d.Products[idx] = model.Product{
			ID:             input.ID,
			Name:           input.Name,
			Company:        input.Company,
			WholesalePrice: input.WholesalePrice,
			RetailPrice:    input.RetailPrice,
			CurrentStock:   input.CurrentStock,
		}
		updated = d.Products[idx]
		return []store.Collection{store.Products}, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil // Unknown id is a no-op
	}
	return &updated, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := uc.state.Update(ctx, func(d *state.Data) ([]store.Collection, error) {
		idx := d.FindProduct(id)
		if idx < 0 {
			return nil, nil
		}
		d.Products = slices.Delete(d.Products, idx, idx+1)
		deleted = true
		return []store.Collection{store.Products}, nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		uc.logger.Info("product deleted", zap.String("product_id", id))
	}
	return deleted, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var (
		p     model.Product
		found bool
	)
	uc.state.View(func(d *state.Data) {
		if idx := d.FindProduct(id); idx >= 0 {
			p = d.Products[idx]
			found = true
		}
	})
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	query := ""
	if filters != nil {
		query = strings.ToLower(strings.TrimSpace(filters.SearchQuery))
	}

	products := []model.Product{}
	uc.state.View(func(d *state.Data) {
		for _, p := range d.Products {
			if query == "" ||
				strings.Contains(strings.ToLower(p.Name), query) ||
				strings.Contains(strings.ToLower(p.Company), query) {
				products = append(products, p)
			}
		}
	})
	return products, nil
}

func validatePrices(wholesale, retail decimal.Decimal) error {
	if wholesale.IsNegative() {
		return model.NewValidationError("wholesalePrice", "gte=0", "")
	}
	if retail.IsNegative() {
		return model.NewValidationError("retailPrice", "gte=0", "")
	}
	return nil
}
