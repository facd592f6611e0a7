package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

var ProductColumns = []Column[model.Product]{
	{Header: "Product Name", Accessor: func(p model.Product) string { return p.Name }},
	{Header: "Company", Accessor: func(p model.Product) string { return p.Company }},
	{Header: "Wholesale Price", Accessor: func(p model.Product) string { return money(p.WholesalePrice) }},
	{Header: "Retail Price", Accessor: func(p model.Product) string { return money(p.RetailPrice) }},
	{Header: "Current Stock", Accessor: func(p model.Product) string { return strconv.Itoa(p.CurrentStock) }},
	{Header: "Stock Value (Retail)", Accessor: func(p model.Product) string { return money(p.StockValue()) }},
	{Header: "Stock Status", Accessor: func(p model.Product) string { return p.StockStatus() }},
}

var ReplenishmentColumns = []Column[model.ReplenishmentEvent]{
	{Header: "Date", Accessor: func(e model.ReplenishmentEvent) string { return e.Date.Format(time.DateTime) }},
	{Header: "Product ID", Accessor: func(e model.ReplenishmentEvent) string { return e.ProductID }},
	{Header: "Product Name", Accessor: func(e model.ReplenishmentEvent) string { return e.ProductName }},
	{Header: "Quantity Added", Accessor: func(e model.ReplenishmentEvent) string { return strconv.Itoa(e.Quantity) }},
}

var SaleItemColumns = []Column[model.SaleItem]{
	{Header: "Product Name", Accessor: func(s model.SaleItem) string { return s.ProductName }},
	{Header: "System Stock", Accessor: func(s model.SaleItem) string { return strconv.Itoa(s.SystemStock) }},
	{Header: "Actual Stock", Accessor: func(s model.SaleItem) string { return strconv.Itoa(s.ActualStock) }},
	{Header: "Sold Quantity", Accessor: func(s model.SaleItem) string { return strconv.Itoa(s.SoldQuantity) }},
	{Header: "Revenue", Accessor: func(s model.SaleItem) string { return money(s.Revenue) }},
	{Header: "Profit", Accessor: func(s model.SaleItem) string { return money(s.Profit) }},
}

func InventoryFileName(now time.Time, format string) string {
	return "inventory_" + now.Format(dateLayout) + "." + ext(format)
}

func PurchasesFileName(now time.Time, format string) string {
	return "purchases_" + now.Format(dateLayout) + "." + ext(format)
}

func ReportFileName(reportDate time.Time, format string) string {
	return "report_" + reportDate.Format(dateLayout) + "." + ext(format)
}

func DraftFileName(format string) string {
	return "report_draft." + ext(format)
}

func ext(format string) string {
	if strings.EqualFold(format, FormatXLSX) {
		return FormatXLSX
	}
	return FormatCSV
}
