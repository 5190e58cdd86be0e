package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hemant18-09/pharmacy/internal/domain"
	"github.com/hemant18-09/pharmacy/internal/events"
	"github.com/hemant18-09/pharmacy/internal/repository"

	"go.uber.org/zap"
)

// expiryDateLayouts are the accepted input formats for expiry dates
var expiryDateLayouts = []string{time.RFC3339, "2006-01-02"}

// AddItemParams carries the fields for a new inventory batch
type AddItemParams struct {
	DrugName    string
	Strength    string
	Quantity    int
	BatchNumber string
	ExpiryDate  string
	Threshold   int
}

// ItemStatus pairs an inventory item with its derived flags, computed at
// read time from the service clock. The flags are never persisted.
type ItemStatus struct {
	Item           *domain.InventoryItem
	IsLowStock     bool
	IsExpiringSoon bool
}

// InventoryService is the stock ledger: the sole writer of quantity.
// Quantity writes are serialized per item id, so concurrent updates to the
// same item cannot silently lose a write.
type InventoryService struct {
	repo      repository.InventoryRepository
	publisher events.EventPublisher
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewInventoryService creates a new stock ledger service
func NewInventoryService(repo repository.InventoryRepository, publisher events.EventPublisher, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// WithClock overrides the service clock; used by tests
func (s *InventoryService) WithClock(now func() time.Time) *InventoryService {
	s.now = now
	return s
}

func (s *InventoryService) itemLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *InventoryService) status(item *domain.InventoryItem) *ItemStatus {
	return &ItemStatus{
		Item:           item,
		IsLowStock:     item.IsLowStock(),
		IsExpiringSoon: item.IsExpiringSoon(s.now().UTC()),
	}
}

// List returns the full inventory sorted by expiry date ascending
// (soonest first), with derived flags computed at call time.
func (s *InventoryService) List(ctx context.Context) ([]*ItemStatus, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ExpiryDate.Before(items[j].ExpiryDate)
	})

	out := make([]*ItemStatus, 0, len(items))
	for _, item := range items {
		out = append(out, s.status(item))
	}
	return out, nil
}

// Get returns one item with derived flags
func (s *InventoryService) Get(ctx context.Context, id string) (*ItemStatus, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.status(item), nil
}

// Add creates a new inventory batch. Batches of the same drug are never
// merged; each batch number is its own record.
func (s *InventoryService) Add(ctx context.Context, params AddItemParams) (*ItemStatus, error) {
	if strings.TrimSpace(params.DrugName) == "" {
		return nil, domain.ErrMissingField("drug_name")
	}
	if strings.TrimSpace(params.Strength) == "" {
		return nil, domain.ErrMissingField("strength")
	}
	if strings.TrimSpace(params.BatchNumber) == "" {
		return nil, domain.ErrMissingField("batch_number")
	}
	if params.Quantity < 0 {
		return nil, domain.ErrInvalidField("quantity", "must not be negative")
	}
	if params.Threshold < 0 {
		return nil, domain.ErrInvalidField("threshold", "must not be negative")
	}

	expiry, err := parseExpiryDate(params.ExpiryDate)
	if err != nil {
		return nil, domain.ErrInvalidField("expiry_date", "unparsable date")
	}

	item := domain.NewInventoryItem(
		params.DrugName,
		params.Strength,
		params.Quantity,
		params.BatchNumber,
		expiry,
		params.Threshold,
	)

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	event := events.InventoryItemAddedEvent{
		ItemID:      item.ID,
		DrugName:    item.DrugName,
		Strength:    item.Strength,
		BatchNumber: item.BatchNumber,
		Quantity:    item.Quantity,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish item added event",
			zap.String("item_id", item.ID), zap.Error(err))
	}

	s.logger.Info("Inventory item added",
		zap.String("item_id", item.ID),
		zap.String("drug_name", item.DrugName),
		zap.String("batch_number", item.BatchNumber),
	)
	return s.status(item), nil
}

// SetQuantity overwrites an item's stock count with an absolute value.
// The write is serialized per item id.
func (s *InventoryService) SetQuantity(ctx context.Context, id string, quantity int) (*ItemStatus, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidField("quantity", "must not be negative")
	}

	lock := s.itemLock(id)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := item.Quantity
	if err := item.SetQuantity(quantity); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publishStockChange(ctx, item, previous)
	return s.status(item), nil
}

// AdjustQuantity applies a delta to an item's stock count under the same
// per-item lock, refusing adjustments that would go below zero.
func (s *InventoryService) AdjustQuantity(ctx context.Context, id string, delta int) (*ItemStatus, error) {
	lock := s.itemLock(id)
	lock.Lock()
	defer lock.Unlock()

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := item.Quantity
	if err := item.AdjustQuantity(delta); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publishStockChange(ctx, item, previous)
	return s.status(item), nil
}

// Delete removes an item permanently. Deleting an unknown or
// already-deleted id surfaces the not-found error.
func (s *InventoryService) Delete(ctx context.Context, id string) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	event := events.InventoryItemDeletedEvent{
		ItemID:     item.ID,
		DrugName:   item.DrugName,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish item deleted event",
			zap.String("item_id", item.ID), zap.Error(err))
	}

	s.logger.Info("Inventory item deleted", zap.String("item_id", id))
	return nil
}

func (s *InventoryService) publishStockChange(ctx context.Context, item *domain.InventoryItem, previous int) {
	event := events.StockLevelChangedEvent{
		ItemID:           item.ID,
		DrugName:         item.DrugName,
		PreviousQuantity: previous,
		NewQuantity:      item.Quantity,
		LowStock:         item.IsLowStock(),
		OccurredAt:       s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish stock change event",
			zap.String("item_id", item.ID), zap.Error(err))
	}
}

func parseExpiryDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range expiryDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
