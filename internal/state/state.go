package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/model"
	"github.com/fekuna/omnipos-stocktake-service/internal/store"
	"go.uber.org/zap"
)

// ErrPersistence wraps every failure to write state to the store.
var ErrPersistence = errors.New("persistence failed")

// Data is the catalog, replenishment log and report archive. The log and
// the archive are kept newest first.
type Data struct {
	Products       []model.Product
	Replenishments []model.ReplenishmentEvent
	Reports        []model.MonthEndReport
}

// Clone deep-copies d so a mutation can be discarded if persisting it fails.
func (d *Data) Clone() *Data {
	reports := make([]model.MonthEndReport, len(d.Reports))
	for i, r := range d.Reports {
		r.Details = slices.Clone(r.Details)
		reports[i] = r
	}
	return &Data{
		Products:       slices.Clone(d.Products),
		Replenishments: slices.Clone(d.Replenishments),
		Reports:        reports,
	}
}

// FindProduct returns the index of the product with id, or -1.
func (d *Data) FindProduct(id string) int {
	return slices.IndexFunc(d.Products, func(p model.Product) bool { return p.ID == id })
}

// AppState owns the authoritative in-memory copy of all collections.
// Every read and write is serialized; writes are persisted before they
// become visible.
type AppState struct {
	mu     sync.Mutex
	data   *Data
	store  store.Store
	logger logger.ZapLogger
}

// Load reads all collections from st. Missing collections start empty.
func Load(ctx context.Context, st store.Store, log logger.ZapLogger) (*AppState, error) {
	data := &Data{}

	if err := readCollection(ctx, st, store.Products, &data.Products); err != nil {
		return nil, err
	}
	if err := readCollection(ctx, st, store.Replenishments, &data.Replenishments); err != nil {
		return nil, err
	}
	if err := readCollection(ctx, st, store.Reports, &data.Reports); err != nil {
		return nil, err
	}

	for _, r := range data.Reports {
		if !r.TotalsMatch() {
			log.Warn("stored report totals do not match its details", zap.String("report_id", r.ID))
		}
	}

	log.Info("state loaded",
		zap.Int("products", len(data.Products)),
		zap.Int("replenishments", len(data.Replenishments)),
		zap.Int("reports", len(data.Reports)),
	)

	return &AppState{data: data, store: st, logger: log}, nil
}

// View runs fn against the current data. fn must not retain or modify it.
func (s *AppState) View(fn func(d *Data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// Update applies fn to a copy of the data. fn returns the collections it
// changed; those are written in one store call and the copy replaces the
// current data only if that write succeeds. Returning an error or no
// collections leaves everything untouched.
func (s *AppState) Update(ctx context.Context, fn func(d *Data) ([]store.Collection, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	dirty, err := fn(next)
	if err != nil {
		return err
	}
	if len(dirty) == 0 {
		return nil
	}

	entries := make([]store.Entry, 0, len(dirty))
	for _, c := range dirty {
		entry, err := encode(next, c)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	if err := s.store.WriteAll(ctx, entries...); err != nil {
		s.logger.Error("failed to persist state", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.data = next
	return nil
}

func readCollection[T any](ctx context.Context, st store.Store, c store.Collection, dest *[]T) error {
	raw, err := st.Read(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		*dest = []T{}
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", c, err)
	}
	return nil
}

func encode(d *Data, c store.Collection) (store.Entry, error) {
	var v any
	switch c {
	case store.Products:
		v = d.Products
	case store.Replenishments:
		v = d.Replenishments
	case store.Reports:
		v = d.Reports
	default:
		return store.Entry{}, fmt.Errorf("unknown collection %q", c)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return store.Entry{}, fmt.Errorf("failed to encode %s: %w", c, err)
	}
	return store.Entry{Collection: c, Data: raw}, nil
}
