package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExpiryWindowDays is the lookahead window for the expiring-soon flag
const ExpiryWindowDays = 30

// InventoryItem is a single stock-keeping row in the pharmacy inventory.
// Each batch is a distinct record; batches of the same drug are never merged.
type InventoryItem struct {
	ID          string    `json:"id"`
	DrugName    string    `json:"drug_name"`
	Strength    string    `json:"strength"`
	Quantity    int       `json:"quantity"`
	ExpiryDate  time.Time `json:"expiry_date"`
	BatchNumber string    `json:"batch_number"`
	Threshold   int       `json:"threshold"`
}

// NewInventoryItem creates a new inventory item
func NewInventoryItem(drugName, strength string, quantity int, batchNumber string, expiry time.Time, threshold int) *InventoryItem {
	return &InventoryItem{
		ID:          uuid.New().String(),
		DrugName:    drugName,
		Strength:    strength,
		Quantity:    quantity,
		ExpiryDate:  expiry,
		BatchNumber: batchNumber,
		Threshold:   threshold,
	}
}

// IsLowStock reports whether the quantity is at or below the configured
// threshold. Never persisted, always recomputed.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.Threshold
}

// IsExpiringSoon reports whether the batch expires within the lookahead
// window of now. Already-expired batches are also flagged.
func (i *InventoryItem) IsExpiringSoon(now time.Time) bool {
	return i.ExpiryDate.Before(now.Add(ExpiryWindowDays * 24 * time.Hour))
}

// SetQuantity overwrites the stock count with an absolute value
func (i *InventoryItem) SetQuantity(quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	i.Quantity = quantity
	return nil
}

// AdjustQuantity applies a delta to the stock count, refusing any
// adjustment that would take the quantity below zero.
func (i *InventoryItem) AdjustQuantity(delta int) error {
	newQuantity := i.Quantity + delta
	if newQuantity < 0 {
		return ErrInsufficientStock
	}
	i.Quantity = newQuantity
	return nil
}
