package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func tricky() model.Product {
	return model.Product{
		ID:             "p1",
		Name:           "Seed \"Gold\", 5kg\nbag",
		Company:        "Agro, Inc.",
		WholesalePrice: decimal.RequireFromString("1.005"),
		RetailPrice:    decimal.RequireFromString("2.5"),
		CurrentStock:   3,
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []model.Product{tricky()}, ProductColumns))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"Product Name", "Company", "Wholesale Price", "Retail Price", "Current Stock", "Stock Value (Retail)", "Stock Status"}, rows[0])
	assert.Equal(t, tricky().Name, rows[1][0])
	assert.Equal(t, "Agro, Inc.", rows[1][1])
	assert.Equal(t, "1.01", rows[1][2])
	assert.Equal(t, "2.50", rows[1][3])
	assert.Equal(t, "3", rows[1][4])
	assert.Equal(t, "7.50", rows[1][5])
	assert.Equal(t, "Low Stock", rows[1][6])
}

func TestWriteNoData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteCSV(&buf, []model.Product{}, ProductColumns), ErrNoData)
	assert.ErrorIs(t, WriteXLSX(&buf, nil, ProductColumns), ErrNoData)
	assert.Zero(t, buf.Len())

	_, _, err := Render(FormatCSV, []model.SaleItem(nil), SaleItemColumns)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestWriteXLSXReadBack(t *testing.T) {
	items := []model.SaleItem{
		{ProductName: "Product A", SystemStock: 50, ActualStock: 35, SoldQuantity: 15, Revenue: decimal.NewFromInt(150), Profit: decimal.NewFromInt(60)},
		{ProductName: "Product B", SystemStock: 5, ActualStock: 5},
	}

	data, contentType, err := Render(FormatXLSX, items, SaleItemColumns)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeXLSX, contentType)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Product Name", "System Stock", "Actual Stock", "Sold Quantity", "Revenue", "Profit"}, rows[0])
	assert.Equal(t, []string{"Product A", "50", "35", "15", "150.00", "60.00"}, rows[1])
	assert.Equal(t, []string{"Product B", "5", "5", "0", "0.00", "0.00"}, rows[2])
}

func TestReplenishmentColumns(t *testing.T) {
	events := []model.ReplenishmentEvent{{
		ID: "e1", Date: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
		ProductID: "B", ProductName: "Product B", Quantity: 20,
	}}

	data, contentType, err := Render("", events, ReplenishmentColumns)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeCSV, contentType)
	assert.Equal(t, "Date,Product ID,Product Name,Quantity Added\n2026-10-01 09:30:00,B,Product B,20\n", string(data))
}

func TestFileNames(t *testing.T) {
	day := time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "inventory_2026-09-30.csv", InventoryFileName(day, "csv"))
	assert.Equal(t, "purchases_2026-09-30.xlsx", PurchasesFileName(day, "XLSX"))
	assert.Equal(t, "report_2026-09-30.csv", ReportFileName(day, ""))
	assert.Equal(t, "report_draft.csv", DraftFileName("csv"))
}
