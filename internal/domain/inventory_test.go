package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestItem(quantity, threshold int, expiry time.Time) *InventoryItem {
	return NewInventoryItem("Paracetamol", "650mg", quantity, "BATCH-042", expiry, threshold)
}

func TestNewInventoryItem(t *testing.T) {
	expiry := testNow.AddDate(1, 0, 0)
	item := newTestItem(120, 20, expiry)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Paracetamol", item.DrugName)
	assert.Equal(t, "650mg", item.Strength)
	assert.Equal(t, 120, item.Quantity)
	assert.Equal(t, "BATCH-042", item.BatchNumber)
	assert.Equal(t, expiry, item.ExpiryDate)
	assert.Equal(t, 20, item.Threshold)
}

func TestIsLowStock(t *testing.T) {
	item := newTestItem(5, 10, testNow.AddDate(1, 0, 0))
	assert.True(t, item.IsLowStock())

	// boundary: at threshold still counts as low
	item.Quantity = 10
	assert.True(t, item.IsLowStock())

	item.Quantity = 11
	assert.False(t, item.IsLowStock())
}

func TestIsExpiringSoon(t *testing.T) {
	item := newTestItem(50, 10, testNow.Add(10*24*time.Hour))
	assert.True(t, item.IsExpiringSoon(testNow))

	item.ExpiryDate = testNow.Add(45 * 24 * time.Hour)
	assert.False(t, item.IsExpiringSoon(testNow))

	// already expired batches stay flagged
	item.ExpiryDate = testNow.Add(-24 * time.Hour)
	assert.True(t, item.IsExpiringSoon(testNow))
}

func TestIsExpiringSoon_DeterministicForSameInputs(t *testing.T) {
	item := newTestItem(50, 10, testNow.Add(10*24*time.Hour))

	first := item.IsExpiringSoon(testNow)
	second := item.IsExpiringSoon(testNow)

	assert.Equal(t, first, second)
}

func TestSetQuantity_Success(t *testing.T) {
	item := newTestItem(5, 10, testNow.AddDate(1, 0, 0))

	err := item.SetQuantity(20)

	assert.NoError(t, err)
	assert.Equal(t, 20, item.Quantity)
	assert.False(t, item.IsLowStock())
}

func TestSetQuantity_Error_Negative(t *testing.T) {
	item := newTestItem(5, 10, testNow.AddDate(1, 0, 0))

	err := item.SetQuantity(-3)

	assert.Error(t, err)
	assert.Equal(t, ErrNegativeQuantity, err)
	assert.Equal(t, 5, item.Quantity)
}

func TestAdjustQuantity_Success(t *testing.T) {
	item := newTestItem(10, 5, testNow.AddDate(1, 0, 0))

	err := item.AdjustQuantity(-4)

	assert.NoError(t, err)
	assert.Equal(t, 6, item.Quantity)
}

func TestAdjustQuantity_Error_BelowZero(t *testing.T) {
	item := newTestItem(10, 5, testNow.AddDate(1, 0, 0))

	err := item.AdjustQuantity(-11)

	assert.Error(t, err)
	assert.Equal(t, ErrInsufficientStock, err)
	assert.Equal(t, 10, item.Quantity)
}
