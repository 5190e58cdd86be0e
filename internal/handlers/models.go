package handlers

import (
	"time"

	"github.com/hemant18-09/pharmacy/internal/domain"
	"github.com/hemant18-09/pharmacy/internal/service"
)

// CreateOrderRequest is the intake payload for a new prescription order
// @Description Request to register a new prescription order
type CreateOrderRequest struct {
	PatientName          string              `json:"patient_name" binding:"required" example:"Priya Patel"`
	PatientAge           int                 `json:"patient_age" example:"41"`
	PatientGender        string              `json:"patient_gender" example:"Female"`
	PatientContactID     string              `json:"patient_contact_id" example:"PAT-1002"`
	DoctorName           string              `json:"doctor_name" binding:"required" example:"Dr. Meena Iyer"`
	DoctorRegistrationID string              `json:"doctor_registration_id" example:"MCI-78432"`
	Medications          []MedicationRequest `json:"medications" binding:"required"`
	DeliveryMode         string              `json:"delivery_mode" example:"HOME_DELIVERY"`
}

// MedicationRequest is one prescribed line on an intake payload
type MedicationRequest struct {
	DrugName     string `json:"drug_name" binding:"required" example:"Amoxicillin"`
	Strength     string `json:"strength" example:"500mg"`
	Frequency    string `json:"frequency" example:"1-0-1"`
	Duration     string `json:"duration" example:"5 Days"`
	Instructions string `json:"instructions" example:"After food"`
}

// UpdateStatusRequest carries the target lifecycle status
// @Description Request to advance an order through its lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"ACCEPTED"`
}

// OrderSummaryResponse is the list-view projection of an order
// @Description Order summary row for the queue view
type OrderSummaryResponse struct {
	ID              string `json:"id" example:"RX-4F2A9C1B"`
	PatientName     string `json:"patient_name" example:"Priya Patel"`
	DoctorName      string `json:"doctor_name" example:"Dr. Meena Iyer"`
	Status          string `json:"status" example:"NEW"`
	ColorCode       string `json:"color_code" example:"teal"`
	DeliveryMode    string `json:"delivery_mode" example:"STORE_PICKUP"`
	MedicationCount int    `json:"medication_count" example:"2"`
	CreatedAt       string `json:"created_at" example:"2025-06-15T10:30:00Z"`
}

// MedicationResponse is one prescribed line on an order detail
type MedicationResponse struct {
	DrugName     string `json:"drug_name" example:"Amoxicillin"`
	Strength     string `json:"strength" example:"500mg"`
	Frequency    string `json:"frequency" example:"1-0-1"`
	Duration     string `json:"duration" example:"5 Days"`
	Instructions string `json:"instructions" example:"After food"`
}

// OrderDetailResponse is the full order record
// @Description Full order record including medication lines and timestamps
type OrderDetailResponse struct {
	ID           string               `json:"id" example:"RX-4F2A9C1B"`
	Status       string               `json:"status" example:"ACCEPTED"`
	ColorCode    string               `json:"color_code" example:"blue"`
	Patient      PatientResponse      `json:"patient_info"`
	Doctor       DoctorResponse       `json:"doctor_info"`
	Medications  []MedicationResponse `json:"medications"`
	DeliveryMode string               `json:"delivery_mode" example:"STORE_PICKUP"`
	CreatedAt    string               `json:"created_at" example:"2025-06-15T10:30:00Z"`
	AcceptedAt   *string              `json:"accepted_at,omitempty" example:"2025-06-15T10:45:00Z"`
	ReadyAt      *string              `json:"ready_at,omitempty" example:"2025-06-15T11:20:00Z"`
	CompletedAt  *string              `json:"completed_at,omitempty" example:"2025-06-15T15:05:00Z"`
}

// PatientResponse identifies the patient on an order
type PatientResponse struct {
	Name      string `json:"name" example:"Priya Patel"`
	Age       int    `json:"age" example:"41"`
	Gender    string `json:"gender" example:"Female"`
	ContactID string `json:"contact_id" example:"PAT-1002"`
}

// DoctorResponse identifies the prescriber on an order
type DoctorResponse struct {
	Name           string `json:"name" example:"Dr. Meena Iyer"`
	RegistrationID string `json:"registration_id" example:"MCI-78432"`
}

// UpdateStatusResponse reports the outcome of a status change
// @Description Outcome of a status update; changed is false for a repeated target
type UpdateStatusResponse struct {
	ID        string `json:"id" example:"RX-4F2A9C1B"`
	Status    string `json:"status" example:"ACCEPTED"`
	ColorCode string `json:"color_code" example:"blue"`
	Changed   bool   `json:"changed" example:"true"`
}

// AddItemRequest is the payload for registering an inventory batch
// @Description Request to add a new medicine batch to the inventory
type AddItemRequest struct {
	DrugName    string `json:"drug_name" binding:"required" example:"Metformin"`
	Strength    string `json:"strength" binding:"required" example:"850mg"`
	Quantity    int    `json:"quantity" example:"120"`
	ExpiryDate  string `json:"expiry_date" binding:"required" example:"2026-11-30"`
	BatchNumber string `json:"batch_number" binding:"required" example:"MET-8812"`
	Threshold   int    `json:"threshold" example:"25"`
}

// UpdateStockRequest sets an absolute stock count for an item
// @Description Request to overwrite an item's stock count
type UpdateStockRequest struct {
	ItemID   string `json:"item_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Quantity int    `json:"quantity" example:"80"`
}

// AdjustStockRequest applies a delta to an item's stock count
// @Description Request to adjust an item's stock count by a signed delta
type AdjustStockRequest struct {
	ItemID string `json:"item_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Delta  int    `json:"delta" binding:"required" example:"-5"`
}

// InventoryItemResponse is one inventory batch with its derived flags
// @Description Inventory batch with low-stock and expiring-soon flags
type InventoryItemResponse struct {
	ID             string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	DrugName       string `json:"drug_name" example:"Metformin"`
	Strength       string `json:"strength" example:"850mg"`
	Quantity       int    `json:"quantity" example:"120"`
	ExpiryDate     string `json:"expiry_date" example:"2026-11-30T00:00:00Z"`
	BatchNumber    string `json:"batch_number" example:"MET-8812"`
	Threshold      int    `json:"threshold" example:"25"`
	IsLowStock     bool   `json:"is_low_stock" example:"false"`
	IsExpiringSoon bool   `json:"is_expiring_soon" example:"false"`
}

// SuccessResponse represents a success response
// @Description Success response with message
type SuccessResponse struct {
	Message string `json:"message" example:"item deleted successfully"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toOrderSummary(order *domain.Order) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:              order.ID,
		PatientName:     order.Patient.Name,
		DoctorName:      order.Doctor.Name,
		Status:          string(order.Status),
		ColorCode:       order.Status.Color(),
		DeliveryMode:    string(order.DeliveryMode),
		MedicationCount: len(order.Medications),
		CreatedAt:       formatTime(order.Timestamps.CreatedAt),
	}
}

func toOrderDetail(order *domain.Order) OrderDetailResponse {
	medications := make([]MedicationResponse, 0, len(order.Medications))
	for _, med := range order.Medications {
		medications = append(medications, MedicationResponse{
			DrugName:     med.DrugName,
			Strength:     med.Strength,
			Frequency:    med.Frequency,
			Duration:     med.Duration,
			Instructions: med.Instructions,
		})
	}
	return OrderDetailResponse{
		ID:        order.ID,
		Status:    string(order.Status),
		ColorCode: order.Status.Color(),
		Patient: PatientResponse{
			Name:      order.Patient.Name,
			Age:       order.Patient.Age,
			Gender:    order.Patient.Gender,
			ContactID: order.Patient.ContactID,
		},
		Doctor: DoctorResponse{
			Name:           order.Doctor.Name,
			RegistrationID: order.Doctor.RegistrationID,
		},
		Medications:  medications,
		DeliveryMode: string(order.DeliveryMode),
		CreatedAt:    formatTime(order.Timestamps.CreatedAt),
		AcceptedAt:   formatTimePtr(order.Timestamps.AcceptedAt),
		ReadyAt:      formatTimePtr(order.Timestamps.ReadyAt),
		CompletedAt:  formatTimePtr(order.Timestamps.CompletedAt),
	}
}

func toInventoryItem(status *service.ItemStatus) InventoryItemResponse {
	item := status.Item
	return InventoryItemResponse{
		ID:             item.ID,
		DrugName:       item.DrugName,
		Strength:       item.Strength,
		Quantity:       item.Quantity,
		ExpiryDate:     formatTime(item.ExpiryDate),
		BatchNumber:    item.BatchNumber,
		Threshold:      item.Threshold,
		IsLowStock:     status.IsLowStock,
		IsExpiringSoon: status.IsExpiringSoon,
	}
}
