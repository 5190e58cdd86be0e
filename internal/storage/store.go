package storage

import (
	"context"
	"errors"
)

// Collection names, one per entity type
const (
	OrdersCollection    = "pharmacy_orders"
	InventoryCollection = "pharmacy_inventory"
)

// ErrNotFound is returned when a document id does not exist in a collection
var ErrNotFound = errors.New("document not found")

// Store is a document-oriented key-value store keyed by collection and id.
// The ledgers are written against this interface only, so swapping the
// in-memory map for a persistent backend requires no change to ledger logic.
// List returns documents in insertion order.
type Store interface {
	Get(ctx context.Context, collection, id string) ([]byte, error)
	List(ctx context.Context, collection string) ([][]byte, error)
	Put(ctx context.Context, collection, id string, doc []byte) error
	Delete(ctx context.Context, collection, id string) error
	Close() error
}
