package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hemant18-09/pharmacy/internal/domain"
	"github.com/hemant18-09/pharmacy/internal/storage"
)

// InventoryRepository defines the interface for inventory persistence
type InventoryRepository interface {
	Save(ctx context.Context, item *domain.InventoryItem) error
	FindByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	List(ctx context.Context) ([]*domain.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

type storeInventoryRepository struct {
	store storage.Store
}

// NewInventoryRepository creates an inventory repository backed by the given store
func NewInventoryRepository(store storage.Store) InventoryRepository {
	return &storeInventoryRepository{store: store}
}

func (r *storeInventoryRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	doc, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory item: %w", err)
	}
	return r.store.Put(ctx, storage.InventoryCollection, item.ID, doc)
}

func (r *storeInventoryRepository) FindByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	doc, err := r.store.Get(ctx, storage.InventoryCollection, id)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	var item domain.InventoryItem
	if err := json.Unmarshal(doc, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inventory item: %w", err)
	}
	return &item, nil
}

func (r *storeInventoryRepository) List(ctx context.Context) ([]*domain.InventoryItem, error) {
	docs, err := r.store.List(ctx, storage.InventoryCollection)
	if err != nil {
		return nil, err
	}
	items := make([]*domain.InventoryItem, 0, len(docs))
	for _, doc := range docs {
		var item domain.InventoryItem
		if err := json.Unmarshal(doc, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal inventory item: %w", err)
		}
		items = append(items, &item)
	}
	return items, nil
}

func (r *storeInventoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, storage.InventoryCollection, id); err != nil {
		if err == storage.ErrNotFound {
			return domain.ErrItemNotFound
		}
		return err
	}
	return nil
}
