package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hemant18-09/pharmacy/internal/domain"
	"github.com/hemant18-09/pharmacy/internal/storage"
)

// OrderRepository defines the interface for order persistence.
// Orders are never deleted; the ledger retains them for history.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
}

type storeOrderRepository struct {
	store storage.Store
}

// NewOrderRepository creates an order repository backed by the given store
func NewOrderRepository(store storage.Store) OrderRepository {
	return &storeOrderRepository{store: store}
}

func (r *storeOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}
	return r.store.Put(ctx, storage.OrdersCollection, order.ID, doc)
}

func (r *storeOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	doc, err := r.store.Get(ctx, storage.OrdersCollection, id)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	var order domain.Order
	if err := json.Unmarshal(doc, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return &order, nil
}

func (r *storeOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	docs, err := r.store.List(ctx, storage.OrdersCollection)
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(docs))
	for _, doc := range docs {
		var order domain.Order
		if err := json.Unmarshal(doc, &order); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order: %w", err)
		}
		orders = append(orders, &order)
	}
	return orders, nil
}
