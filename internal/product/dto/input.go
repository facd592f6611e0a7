package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	ID             string          `json:"id"` // Optional, generated when blank
	Name           string          `json:"name" validate:"required"`
	Company        string          `json:"company" validate:"required"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	RetailPrice    decimal.Decimal `json:"retailPrice"`
	CurrentStock   int             `json:"currentStock" validate:"gte=0"`
}

type UpdateProductInput struct {
	ID             string          `json:"id" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Company        string          `json:"company" validate:"required"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	RetailPrice    decimal.Decimal `json:"retailPrice"`
	CurrentStock   int             `json:"currentStock" validate:"gte=0"`
}
