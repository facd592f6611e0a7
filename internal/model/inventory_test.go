package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthEndReportTotalsMatch(t *testing.T) {
	details := []SaleItem{
		{ProductID: "a", Revenue: decimal.RequireFromString("150"), Profit: decimal.RequireFromString("60")},
		{ProductID: "b", Revenue: decimal.RequireFromString("0.1"), Profit: decimal.RequireFromString("0.2")},
		{ProductID: "c", Revenue: decimal.RequireFromString("-20"), Profit: decimal.RequireFromString("-5")},
	}

	report := MonthEndReport{
		TotalSales:  decimal.RequireFromString("130.1"),
		TotalProfit: decimal.RequireFromString("55.2"),
		Details:     details,
	}
	assert.True(t, report.TotalsMatch())

	report.TotalSales = decimal.RequireFromString("130.10000001")
	assert.False(t, report.TotalsMatch())
}

func TestMonthEndReportItem(t *testing.T) {
	report := MonthEndReport{Details: []SaleItem{{ProductID: "a", ActualStock: 3}}}

	item, ok := report.Item("a")
	require.True(t, ok)
	assert.Equal(t, 3, item.ActualStock)

	_, ok = report.Item("missing")
	assert.False(t, ok)
}

func TestProductValues(t *testing.T) {
	p := Product{
		WholesalePrice: decimal.NewFromInt(6),
		RetailPrice:    decimal.NewFromInt(10),
		CurrentStock:   50,
	}
	assert.True(t, p.StockValue().Equal(decimal.NewFromInt(500)))
	assert.True(t, p.Margin().Equal(decimal.NewFromInt(4)))
}

func TestProductJSONKeepsExactPrices(t *testing.T) {
	p := Product{ID: "p1", RetailPrice: decimal.RequireFromString("19.99")}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded Product
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, decoded.RetailPrice.Equal(p.RetailPrice))
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("add product: %w", NewValidationError("name", "required", ""))

	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(errors.New("boom")))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, "required", ve.Constraint)
	assert.Contains(t, err.Error(), "validation failed on name (required)")
}
