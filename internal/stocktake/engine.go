package stocktake

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/shopspring/decimal"
)

// CountPolicy decides what happens to a count that is not a whole number.
type CountPolicy string

const (
	// RejectInvalid fails the reconciliation with a ValidationError.
	RejectInvalid CountPolicy = "reject"
	// CoerceInvalid reads the leading integer of the text ("12abc" is 12)
	// and falls back to 0 when there is none.
	CoerceInvalid CountPolicy = "coerce"
)

func ParseCountPolicy(s string) (CountPolicy, error) {
	switch p := CountPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case RejectInvalid, CoerceInvalid:
		return p, nil
	case "":
		return RejectInvalid, nil
	default:
		return "", fmt.Errorf("unknown count policy %q", s)
	}
}

// Engine turns a catalog snapshot and a set of physical counts into a
// priced sales breakdown. It never touches stored state.
type Engine struct {
	policy CountPolicy
}

func NewEngine(policy CountPolicy) *Engine {
	if policy == "" {
		policy = RejectInvalid
	}
	return &Engine{policy: policy}
}

func (e *Engine) Policy() CountPolicy {
	return e.policy
}

// Reconcile prices one SaleItem per product, in catalog order. A product
// without a count (absent or blank) keeps its system stock. Counts for ids
// not in the catalog are ignored.
func (e *Engine) Reconcile(products []model.Product, counts map[string]string) (model.Reconciliation, error) {
	items := make([]model.SaleItem, 0, len(products))

	for _, p := range products {
		actual, err := e.resolveActual(p, counts)
		if err != nil {
			return model.Reconciliation{}, err
		}

		items = append(items, priceItem(p, actual))
	}

	revenue, profit := model.SumItems(items)
	return model.Reconciliation{
		TotalRevenue: revenue,
		TotalProfit:  profit,
		Items:        items,
	}, nil
}

// Reprice rebuilds reviewed items against the catalog. Only ActualStock is
// taken from each item; system stock, name and prices come from the
// product. Items whose product is no longer in the catalog are dropped.
func (e *Engine) Reprice(products []model.Product, items []model.SaleItem) []model.SaleItem {
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]model.SaleItem, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		out = append(out, priceItem(p, item.ActualStock))
	}
	return out
}

func priceItem(p model.Product, actual int) model.SaleItem {
	sold := p.CurrentStock - actual
	qty := decimal.NewFromInt(int64(sold))

	return model.SaleItem{
		ProductID:    p.ID,
		ProductName:  p.Name,
		SystemStock:  p.CurrentStock,
		ActualStock:  actual,
		SoldQuantity: sold,
		Revenue:      qty.Mul(p.RetailPrice),
		Profit:       qty.Mul(p.Margin()),
	}
}

func (e *Engine) resolveActual(p model.Product, counts map[string]string) (int, error) {
	raw, ok := counts[p.ID]
	text := strings.TrimSpace(raw)
	if !ok || text == "" {
		return p.CurrentStock, nil
	}

	parsed, err := strconv.Atoi(text)
	if err != nil {
		if e.policy != CoerceInvalid {
			return 0, model.NewValidationError("counts."+p.ID, "integer",
				fmt.Sprintf("%q is not a whole number", raw))
		}
		parsed = leadingInt(text)
	}
	return max(0, parsed), nil
}

// leadingInt parses an optional sign followed by digits at the start of s.
func leadingInt(s string) int {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// ValidateItems checks the lines handed to a finalization.
func ValidateItems(items []model.SaleItem) error {
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		field := fmt.Sprintf("details[%d]", i)
		if item.ProductID == "" {
			return model.NewValidationError(field+".productId", "required", "")
		}
		if _, dup := seen[item.ProductID]; dup {
			return model.NewValidationError(field+".productId", "unique", item.ProductID)
		}
		seen[item.ProductID] = struct{}{}

		if item.ActualStock < 0 {
			return model.NewValidationError(field+".actualStock", "gte=0", "")
		}
		if item.SoldQuantity != item.SystemStock-item.ActualStock {
			return model.NewValidationError(field+".soldQuantity", "eq=systemStock-actualStock", "")
		}
	}
	return nil
}

// Finalize wraps items into an archived report. Totals are summed from the
// details so they always agree with them.
func (e *Engine) Finalize(items []model.SaleItem, id string, now time.Time) model.MonthEndReport {
	details := slices.Clone(items)
	if details == nil {
		details = []model.SaleItem{}
	}
	revenue, profit := model.SumItems(details)
	return model.MonthEndReport{
		ID:          id,
		Date:        now,
		TotalSales:  revenue,
		TotalProfit: profit,
		Details:     details,
	}
}
