package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hemant18-09/pharmacy/internal/domain"
	"github.com/hemant18-09/pharmacy/internal/events"
	"github.com/hemant18-09/pharmacy/internal/repository"
	"github.com/hemant18-09/pharmacy/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInventoryService(t *testing.T) (*InventoryService, *events.InMemoryEventPublisher) {
	t.Helper()
	store := storage.NewMemoryStore()
	repo := repository.NewInventoryRepository(store)
	publisher := events.NewEventPublisher(zap.NewNop())
	svc := NewInventoryService(repo, publisher, zap.NewNop()).WithClock(func() time.Time { return fixedNow })
	return svc, publisher
}

func addTestItem(t *testing.T, svc *InventoryService, drugName string, quantity int, expiry time.Time) *ItemStatus {
	t.Helper()
	status, err := svc.Add(context.Background(), AddItemParams{
		DrugName:    drugName,
		Strength:    "500mg",
		Quantity:    quantity,
		ExpiryDate:  expiry.Format(time.RFC3339),
		BatchNumber: "BATCH-001",
		Threshold:   10,
	})
	require.NoError(t, err)
	return status
}

func TestAdd_Success(t *testing.T) {
	svc, publisher := newInventoryService(t)

	status, err := svc.Add(context.Background(), AddItemParams{
		DrugName:    "Metformin",
		Strength:    "850mg",
		Quantity:    120,
		ExpiryDate:  "2026-11-30",
		BatchNumber: "MET-8812",
		Threshold:   25,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, status.Item.ID)
	assert.Equal(t, 120, status.Item.Quantity)
	assert.Equal(t, 2026, status.Item.ExpiryDate.Year())
	assert.False(t, status.IsLowStock)
	assert.False(t, status.IsExpiringSoon)

	published := publisher.Events()
	require.Len(t, published, 1)
	added, ok := published[0].(events.InventoryItemAddedEvent)
	require.True(t, ok)
	assert.Equal(t, status.Item.ID, added.ItemID)
}

func TestAdd_Error_Validation(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		params AddItemParams
		field  string
	}{
		{"missing drug name", AddItemParams{Strength: "500mg", Quantity: 10, ExpiryDate: "2027-01-01", BatchNumber: "B1", Threshold: 5}, "drug_name"},
		{"negative quantity", AddItemParams{DrugName: "Ibuprofen", Strength: "400mg", Quantity: -1, ExpiryDate: "2027-01-01", BatchNumber: "B1", Threshold: 5}, "quantity"},
		{"bad expiry date", AddItemParams{DrugName: "Ibuprofen", Strength: "400mg", Quantity: 10, ExpiryDate: "next spring", BatchNumber: "B1", Threshold: 5}, "expiry_date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tc.params)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestList_SortedByExpiryWithFlags(t *testing.T) {
	svc, _ := newInventoryService(t)

	addTestItem(t, svc, "Azithromycin", 50, fixedNow.AddDate(1, 0, 0))
	addTestItem(t, svc, "Cetirizine", 5, fixedNow.AddDate(0, 0, 10))
	addTestItem(t, svc, "Paracetamol", 200, fixedNow.AddDate(0, 2, 0))

	items, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Cetirizine", items[0].Item.DrugName)
	assert.Equal(t, "Paracetamol", items[1].Item.DrugName)
	assert.Equal(t, "Azithromycin", items[2].Item.DrugName)

	assert.True(t, items[0].IsLowStock)
	assert.True(t, items[0].IsExpiringSoon)
	assert.False(t, items[1].IsLowStock)
	assert.False(t, items[1].IsExpiringSoon)
}

func TestSetQuantity_Success(t *testing.T) {
	svc, publisher := newInventoryService(t)
	item := addTestItem(t, svc, "Amlodipine", 80, fixedNow.AddDate(1, 0, 0))

	status, err := svc.SetQuantity(context.Background(), item.Item.ID, 8)

	require.NoError(t, err)
	assert.Equal(t, 8, status.Item.Quantity)
	assert.True(t, status.IsLowStock)

	var change events.StockLevelChangedEvent
	for _, event := range publisher.Events() {
		if e, ok := event.(events.StockLevelChangedEvent); ok {
			change = e
		}
	}
	assert.Equal(t, 80, change.PreviousQuantity)
	assert.Equal(t, 8, change.NewQuantity)
	assert.True(t, change.LowStock)
}

func TestSetQuantity_Error_Negative(t *testing.T) {
	svc, _ := newInventoryService(t)
	item := addTestItem(t, svc, "Amlodipine", 80, fixedNow.AddDate(1, 0, 0))

	_, err := svc.SetQuantity(context.Background(), item.Item.ID, -3)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	// rejected write leaves the stored quantity alone
	status, err := svc.Get(context.Background(), item.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, status.Item.Quantity)
}

func TestSetQuantity_Error_NotFound(t *testing.T) {
	svc, _ := newInventoryService(t)

	_, err := svc.SetQuantity(context.Background(), "no-such-item", 10)
	assert.Equal(t, domain.ErrItemNotFound, err)
}

func TestAdjustQuantity_ConcurrentDeltasSum(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()
	item := addTestItem(t, svc, "Insulin Glargine", 1000, fixedNow.AddDate(1, 0, 0))

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AdjustQuantity(ctx, item.Item.ID, -5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	status, err := svc.Get(ctx, item.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000-workers*5, status.Item.Quantity)
}

func TestAdjustQuantity_Error_BelowZero(t *testing.T) {
	svc, _ := newInventoryService(t)
	item := addTestItem(t, svc, "Warfarin", 4, fixedNow.AddDate(1, 0, 0))

	_, err := svc.AdjustQuantity(context.Background(), item.Item.ID, -10)
	assert.Equal(t, domain.ErrInsufficientStock, err)

	status, err := svc.Get(context.Background(), item.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, status.Item.Quantity)
}

func TestDelete_Success_ThenNotFound(t *testing.T) {
	svc, publisher := newInventoryService(t)
	ctx := context.Background()
	item := addTestItem(t, svc, "Losartan", 60, fixedNow.AddDate(1, 0, 0))

	require.NoError(t, svc.Delete(ctx, item.Item.ID))

	_, err := svc.Get(ctx, item.Item.ID)
	assert.Equal(t, domain.ErrItemNotFound, err)

	// repeating the delete surfaces the missing item
	err = svc.Delete(ctx, item.Item.ID)
	assert.Equal(t, domain.ErrItemNotFound, err)

	var deleted bool
	for _, event := range publisher.Events() {
		if _, ok := event.(events.InventoryItemDeletedEvent); ok {
			deleted = true
		}
	}
	assert.True(t, deleted)
}
