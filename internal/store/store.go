package store

import (
	"context"
	"errors"
)

// Collection names one of the three persisted record sequences.
type Collection string

const (
	Products       Collection = "products"
	Replenishments Collection = "purchases"
	Reports        Collection = "reports"
)

// Collections lists every collection in a fixed order.
var Collections = []Collection{Products, Replenishments, Reports}

// Key is the storage key of c under prefix, e.g. "gg_products".
func (c Collection) Key(prefix string) string {
	return prefix + string(c)
}

// Entry is one collection's serialized record sequence.
type Entry struct {
	Collection Collection
	Data       []byte
}

var ErrUnknownBackend = errors.New("unknown store backend")

// Store persists serialized collections. Read returns nil data for a
// collection that was never written. WriteAll applies every entry or none.
type Store interface {
	Read(ctx context.Context, c Collection) ([]byte, error)
	WriteAll(ctx context.Context, entries ...Entry) error
	Close() error
}
