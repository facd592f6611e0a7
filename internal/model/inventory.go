package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReplenishmentEvent records stock added by a purchase or delivery.
// ProductName is copied at creation time so the entry stays readable
// after the product is deleted.
type ReplenishmentEvent struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
}

// SaleItem is one line of a reconciliation. SoldQuantity is negative when
// the physical count exceeds the recorded stock.
type SaleItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	SystemStock  int             `json:"systemStock"`
	ActualStock  int             `json:"actualStock"`
	SoldQuantity int             `json:"soldQuantity"`
	Revenue      decimal.Decimal `json:"revenue"`
	Profit       decimal.Decimal `json:"profit"`
}

// Reconciliation is the unsaved projection of a physical count.
type Reconciliation struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
	Items        []SaleItem      `json:"items"`
}

type MonthEndReport struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
	Details     []SaleItem      `json:"details"`
}

// SumItems returns the exact revenue and profit totals of items.
func SumItems(items []SaleItem) (revenue, profit decimal.Decimal) {
	revenue, profit = decimal.Zero, decimal.Zero
	for _, item := range items {
		revenue = revenue.Add(item.Revenue)
		profit = profit.Add(item.Profit)
	}
	return revenue, profit
}

// TotalsMatch reports whether the stored totals equal the sums over Details.
func (r MonthEndReport) TotalsMatch() bool {
	revenue, profit := SumItems(r.Details)
	return r.TotalSales.Equal(revenue) && r.TotalProfit.Equal(profit)
}

// Item returns the detail line for productID, if present.
func (r MonthEndReport) Item(productID string) (SaleItem, bool) {
	for _, item := range r.Details {
		if item.ProductID == productID {
			return item, true
		}
	}
	return SaleItem{}, false
}
