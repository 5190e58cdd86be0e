package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}

// Order lifecycle events
type OrderCreatedEvent struct {
	OrderID         string    `json:"order_id"`
	PatientName     string    `json:"patient_name"`
	MedicationCount int       `json:"medication_count"`
	DeliveryMode    string    `json:"delivery_mode"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type OrderStatusChangedEvent struct {
	OrderID        string    `json:"order_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// OrderReadyEvent signals collaborators (notification senders) that a
// prescription is ready for pickup / delivery.
type OrderReadyEvent struct {
	OrderID          string    `json:"order_id"`
	PatientName      string    `json:"patient_name"`
	PatientContactID string    `json:"patient_contact_id"`
	DeliveryMode     string    `json:"delivery_mode"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Inventory events
type InventoryItemAddedEvent struct {
	ItemID      string    `json:"item_id"`
	DrugName    string    `json:"drug_name"`
	Strength    string    `json:"strength"`
	BatchNumber string    `json:"batch_number"`
	Quantity    int       `json:"quantity"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type InventoryItemDeletedEvent struct {
	ItemID     string    `json:"item_id"`
	DrugName   string    `json:"drug_name"`
	OccurredAt time.Time `json:"occurred_at"`
}

type StockLevelChangedEvent struct {
	ItemID           string    `json:"item_id"`
	DrugName         string    `json:"drug_name"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	LowStock         bool      `json:"low_stock"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// InMemoryEventPublisher collects events locally; used as the fallback
// when no broker is reachable and as a capture point in tests.
type InMemoryEventPublisher struct {
	mu     sync.Mutex
	logger *zap.Logger
	events []interface{}
}

func NewEventPublisher(logger *zap.Logger) *InMemoryEventPublisher {
	return &InMemoryEventPublisher{
		logger: logger,
		events: make([]interface{}, 0),
	}
}

func (p *InMemoryEventPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.logger.Debug("Event published (in-memory)", zap.Any("event", event))
	return nil
}

// Events returns a snapshot of the published events
func (p *InMemoryEventPublisher) Events() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]interface{}, len(p.events))
	copy(out, p.events)
	return out
}
