package model

import "github.com/shopspring/decimal"

type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Company        string          `json:"company"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	RetailPrice    decimal.Decimal `json:"retailPrice"`
	CurrentStock   int             `json:"currentStock"`
}

// StockValue is the retail value of the units on hand.
func (p Product) StockValue() decimal.Decimal {
	return p.RetailPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

// Margin is the per-unit profit.
func (p Product) Margin() decimal.Decimal {
	return p.RetailPrice.Sub(p.WholesalePrice)
}

// LowStockThreshold is the stock level below which a product needs reordering.
const LowStockThreshold = 10

const (
	StatusLowStock = "Low Stock"
	StatusInStock  = "In Stock"
)

func (p Product) LowStock() bool {
	return p.CurrentStock < LowStockThreshold
}

func (p Product) StockStatus() string {
	if p.LowStock() {
		return StatusLowStock
	}
	return StatusInStock
}
