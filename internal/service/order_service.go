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

// CreateOrderParams carries the intake fields for a new prescription order
type CreateOrderParams struct {
	PatientName          string
	PatientAge           int
	PatientGender        string
	PatientContactID     string
	DoctorName           string
	DoctorRegistrationID string
	Medications          []domain.Medication
	DeliveryMode         domain.DeliveryMode
}

// OrderService is the order ledger: it owns order records and is the sole
// writer of order status. Transitions are serialized per order id.
type OrderService struct {
	repo      repository.OrderRepository
	publisher events.EventPublisher
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOrderService creates a new order ledger service
func NewOrderService(repo repository.OrderRepository, publisher events.EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// WithClock overrides the service clock; used by tests
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

func (s *OrderService) orderLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// Create persists a new order in status NEW and announces it
func (s *OrderService) Create(ctx context.Context, params CreateOrderParams) (*domain.Order, error) {
	if strings.TrimSpace(params.PatientName) == "" {
		return nil, domain.ErrMissingField("patient_name")
	}
	if strings.TrimSpace(params.DoctorName) == "" {
		return nil, domain.ErrMissingField("doctor_name")
	}
	if len(params.Medications) == 0 {
		return nil, domain.ErrMissingField("medications")
	}
	for _, med := range params.Medications {
		if strings.TrimSpace(med.DrugName) == "" {
			return nil, domain.ErrMissingField("drug_name")
		}
	}

	order := domain.NewOrder(
		domain.PatientInfo{
			Name:      params.PatientName,
			Age:       params.PatientAge,
			Gender:    params.PatientGender,
			ContactID: params.PatientContactID,
		},
		domain.DoctorInfo{
			Name:           params.DoctorName,
			RegistrationID: params.DoctorRegistrationID,
		},
		params.Medications,
		params.DeliveryMode,
		s.now().UTC(),
	)

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	event := events.OrderCreatedEvent{
		OrderID:         order.ID,
		PatientName:     order.Patient.Name,
		MedicationCount: len(order.Medications),
		DeliveryMode:    string(order.DeliveryMode),
		OccurredAt:      order.Timestamps.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish order created event",
			zap.String("order_id", order.ID), zap.Error(err))
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Int("medications", len(order.Medications)),
	)
	return order, nil
}

// List returns orders in creation order. A non-nil status restricts the
// result to that status; no match yields an empty slice, never an error.
func (s *OrderService) List(ctx context.Context, status *domain.Status) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamps.CreatedAt.Before(orders[j].Timestamps.CreatedAt)
	})

	if status == nil {
		return orders, nil
	}
	filtered := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == *status {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}

// Get returns the full order record including medication lines
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateStatus advances an order through its lifecycle. The returned flag
// reports whether anything changed; re-applying the stored status is a
// no-op success. Transitions for the same order never run concurrently.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, target domain.Status) (*domain.Order, bool, error) {
	lock := s.orderLock(id)
	lock.Lock()
	defer lock.Unlock()

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	previous := order.Status
	now := s.now().UTC()
	changed, err := order.Transition(target, now)
	if err != nil {
		s.logger.Warn("Rejected status transition",
			zap.String("order_id", id),
			zap.String("from", string(previous)),
			zap.String("to", string(target)),
		)
		// The untouched order rides along so callers can report the
		// stored status the transition was rejected against.
		return order, false, err
	}
	if !changed {
		return order, false, nil
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, false, err
	}

	event := events.OrderStatusChangedEvent{
		OrderID:        order.ID,
		PreviousStatus: string(previous),
		NewStatus:      string(order.Status),
		OccurredAt:     now,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish status change event",
			zap.String("order_id", order.ID), zap.Error(err))
	}

	// Stock is NOT decremented here: medication lines carry no link to
	// inventory batches, so there is nothing unambiguous to decrement.
	// Collaborators that need fulfillment side effects subscribe to the
	// status change event instead.
	if order.Status == domain.StatusReady {
		ready := events.OrderReadyEvent{
			OrderID:          order.ID,
			PatientName:      order.Patient.Name,
			PatientContactID: order.Patient.ContactID,
			DeliveryMode:     string(order.DeliveryMode),
			OccurredAt:       now,
		}
		if err := s.publisher.Publish(ctx, ready); err != nil {
			s.logger.Error("Failed to publish order ready event",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(order.Status)),
	)
	return order, true, nil
}
