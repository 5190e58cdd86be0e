package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a prescription order.
// Maps 1-to-1 with the UI status chips.
type Status string

const (
	StatusNew       Status = "NEW"       // Default – just arrived
	StatusAccepted  Status = "ACCEPTED"  // Pharmacist acknowledged
	StatusPreparing Status = "PREPARING" // Being prepared
	StatusReady     Status = "READY"     // Ready for handoff
	StatusPickedUp  Status = "PICKED_UP" // Patient collected from store
	StatusDelivered Status = "DELIVERED" // Home-delivery complete
	StatusRejected  Status = "REJECTED"  // Order cancelled by pharmacy
)

// AllStatuses lists every valid status value.
var AllStatuses = []Status{
	StatusNew,
	StatusAccepted,
	StatusPreparing,
	StatusReady,
	StatusPickedUp,
	StatusDelivered,
	StatusRejected,
}

// statusSuccessors defines the permitted edges of the status graph.
// Terminal states have no entry.
var statusSuccessors = map[Status][]Status{
	StatusNew:       {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusPreparing, StatusReady, StatusRejected},
	StatusPreparing: {StatusReady},
	StatusReady:     {StatusPickedUp, StatusDelivered},
}

// statusColors maps each status to its UI chip colour hint.
var statusColors = map[Status]string{
	StatusNew:       "teal",
	StatusAccepted:  "blue",
	StatusPreparing: "amber",
	StatusReady:     "green",
	StatusDelivered: "green",
	StatusPickedUp:  "gray",
	StatusRejected:  "red",
}

// ParseStatus converts a raw string into a Status
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status: %q", s)
}

// IsTerminal reports whether the status has no outgoing transitions
func (s Status) IsTerminal() bool {
	return len(statusSuccessors[s]) == 0
}

// CanTransitionTo reports whether target is a permitted successor of s
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range statusSuccessors[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Color returns the UI chip colour hint for the status
func (s Status) Color() string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "gray"
}

// DeliveryMode is how the fulfilled order reaches the patient
type DeliveryMode string

const (
	DeliveryModeHome   DeliveryMode = "HOME_DELIVERY"
	DeliveryModePickup DeliveryMode = "STORE_PICKUP"
)

// ParseDeliveryMode converts a raw string into a DeliveryMode,
// defaulting to store pickup when empty.
func ParseDeliveryMode(s string) (DeliveryMode, error) {
	mode := DeliveryMode(strings.ToUpper(strings.TrimSpace(s)))
	switch mode {
	case "":
		return DeliveryModePickup, nil
	case DeliveryModeHome, DeliveryModePickup:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown delivery mode: %q", s)
	}
}

// PatientInfo is a lightweight patient snapshot stored on every order
type PatientInfo struct {
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	ContactID string `json:"contact_id"`
}

// DoctorInfo is the prescribing doctor snapshot
type DoctorInfo struct {
	Name           string `json:"name"`
	RegistrationID string `json:"registration_id"`
}

// Medication is a single line-item in a prescription
type Medication struct {
	DrugName     string `json:"drug_name"`
	Strength     string `json:"strength"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

// OrderTimestamps holds the lifecycle timestamps, populated as the order progresses
type OrderTimestamps struct {
	CreatedAt   time.Time  `json:"created_at"`
	AcceptedAt  *time.Time `json:"accepted_at"`
	ReadyAt     *time.Time `json:"ready_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Order represents a single prescription sent to the pharmacy.
// Prescription content is immutable after intake; only status and
// its derived timestamps ever change.
type Order struct {
	ID           string          `json:"id"`
	Patient      PatientInfo     `json:"patient_info"`
	Doctor       DoctorInfo      `json:"doctor_info"`
	Medications  []Medication    `json:"medications"`
	Status       Status          `json:"status"`
	DeliveryMode DeliveryMode    `json:"delivery_mode"`
	Timestamps   OrderTimestamps `json:"timestamps"`
}

// Domain errors
var (
	ErrOrderNotFound     = &DomainError{Message: "order not found"}
	ErrInvalidTransition = &DomainError{Message: "status transition not allowed"}
	ErrItemNotFound      = &DomainError{Message: "inventory item not found"}
	ErrNegativeQuantity  = &DomainError{Message: "quantity cannot be negative"}
	ErrInsufficientStock = &DomainError{Message: "insufficient stock available"}
)

// DomainError represents a domain-level error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewOrderID generates a prescription order id in the RX-XXXXXXXX form
func NewOrderID() string {
	return "RX-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// NewOrder creates a new order in status NEW
func NewOrder(patient PatientInfo, doctor DoctorInfo, medications []Medication, mode DeliveryMode, now time.Time) *Order {
	return &Order{
		ID:           NewOrderID(),
		Patient:      patient,
		Doctor:       doctor,
		Medications:  medications,
		Status:       StatusNew,
		DeliveryMode: mode,
		Timestamps:   OrderTimestamps{CreatedAt: now},
	}
}

// Transition advances the order to target, stamping lifecycle timestamps.
// Re-applying the current status is a no-op success so client retries stay
// safe; the returned flag reports whether anything changed.
func (o *Order) Transition(target Status, now time.Time) (bool, error) {
	if target == o.Status {
		return false, nil
	}
	if !o.Status.CanTransitionTo(target) {
		return false, ErrInvalidTransition
	}

	o.Status = target

	switch target {
	case StatusAccepted:
		if o.Timestamps.AcceptedAt == nil {
			t := now
			o.Timestamps.AcceptedAt = &t
		}
	case StatusReady:
		if o.Timestamps.ReadyAt == nil {
			t := now
			o.Timestamps.ReadyAt = &t
		}
	case StatusDelivered, StatusPickedUp:
		if o.Timestamps.CompletedAt == nil {
			t := now
			o.Timestamps.CompletedAt = &t
		}
	}

	return true, nil
}
