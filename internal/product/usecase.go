package product

import (
	"context"

	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/product/dto"
)

type UseCase interface {
	AddProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
}
