package dto

import "github.com/fekuna/omnipos-stocktake-service/internal/model"

// ProductResponse is a catalog entry plus its derived stock status.
type ProductResponse struct {
	model.Product
	StockValue  string `json:"stockValue"`
	LowStock    bool   `json:"lowStock"`
	StockStatus string `json:"stockStatus"`
}

func NewProductResponse(p *model.Product) *ProductResponse {
	return &ProductResponse{
		Product:     *p,
		StockValue:  p.StockValue().String(),
		LowStock:    p.LowStock(),
		StockStatus: p.StockStatus(),
	}
}

func NewProductResponses(products []model.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}
