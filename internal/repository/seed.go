package repository

import (
	"context"
	"time"

	"github.com/hemant18-09/pharmacy/internal/domain"

	"go.uber.org/zap"
)

// Seed loads a small demo dataset into empty ledgers. It is meant for
// the in-memory store so the dashboard has something to show on a
// fresh start; ledgers that already hold data are left alone.
func Seed(ctx context.Context, orders OrderRepository, inventory InventoryRepository, logger *zap.Logger) error {
	existing, err := orders.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now().UTC()

	seedOrders := []struct {
		patient     domain.PatientInfo
		doctor      domain.DoctorInfo
		medications []domain.Medication
		mode        domain.DeliveryMode
		createdAt   time.Time
		path        []domain.Status
	}{
		{
			patient: domain.PatientInfo{Name: "Priya Patel", Age: 41, Gender: "Female", ContactID: "PAT-1002"},
			doctor:  domain.DoctorInfo{Name: "Dr. Meena Iyer", RegistrationID: "MCI-78432"},
			medications: []domain.Medication{
				{DrugName: "Amoxicillin", Strength: "500mg", Frequency: "1-0-1", Duration: "5 Days", Instructions: "After food"},
				{DrugName: "Pantoprazole", Strength: "40mg", Frequency: "1-0-0", Duration: "5 Days", Instructions: "Before breakfast"},
			},
			mode:      domain.DeliveryModePickup,
			createdAt: now.Add(-30 * time.Minute),
		},
		{
			patient: domain.PatientInfo{Name: "Ravi Kumar", Age: 57, Gender: "Male", ContactID: "PAT-1003"},
			doctor:  domain.DoctorInfo{Name: "Dr. Anil Shah", RegistrationID: "MCI-51209"},
			medications: []domain.Medication{
				{DrugName: "Metformin", Strength: "850mg", Frequency: "1-0-1", Duration: "30 Days", Instructions: "With meals"},
			},
			mode:      domain.DeliveryModeHome,
			createdAt: now.Add(-3 * time.Hour),
			path:      []domain.Status{domain.StatusAccepted, domain.StatusPreparing},
		},
		{
			patient: domain.PatientInfo{Name: "Sunita Rao", Age: 34, Gender: "Female", ContactID: "PAT-1004"},
			doctor:  domain.DoctorInfo{Name: "Dr. Meena Iyer", RegistrationID: "MCI-78432"},
			medications: []domain.Medication{
				{DrugName: "Cetirizine", Strength: "10mg", Frequency: "0-0-1", Duration: "7 Days", Instructions: "At night"},
				{DrugName: "Paracetamol", Strength: "650mg", Frequency: "1-1-1", Duration: "3 Days", Instructions: "If fever persists"},
			},
			mode:      domain.DeliveryModePickup,
			createdAt: now.AddDate(0, 0, -1),
			path:      []domain.Status{domain.StatusAccepted, domain.StatusPreparing, domain.StatusReady, domain.StatusPickedUp},
		},
		{
			patient: domain.PatientInfo{Name: "Arjun Mehta", Age: 29, Gender: "Male", ContactID: "PAT-1005"},
			doctor:  domain.DoctorInfo{Name: "Dr. Anil Shah", RegistrationID: "MCI-51209"},
			medications: []domain.Medication{
				{DrugName: "Paracetamol", Strength: "650mg", Frequency: "1-1-1", Duration: "3 Days", Instructions: "After food"},
			},
			mode:      domain.DeliveryModeHome,
			createdAt: now.AddDate(0, 0, -2),
			path:      []domain.Status{domain.StatusAccepted, domain.StatusPreparing, domain.StatusReady, domain.StatusDelivered},
		},
	}

	for _, seed := range seedOrders {
		order := domain.NewOrder(seed.patient, seed.doctor, seed.medications, seed.mode, seed.createdAt)
		at := seed.createdAt
		for _, step := range seed.path {
			at = at.Add(15 * time.Minute)
			if _, err := order.Transition(step, at); err != nil {
				return err
			}
		}
		if err := orders.Save(ctx, order); err != nil {
			return err
		}
	}

	seedItems := []*domain.InventoryItem{
		domain.NewInventoryItem("Paracetamol", "650mg", 240, "PCM-2201", now.AddDate(1, 2, 0), 50),
		domain.NewInventoryItem("Amoxicillin", "500mg", 32, "AMX-0917", now.AddDate(0, 6, 0), 40),
		domain.NewInventoryItem("Metformin", "850mg", 180, "MET-8812", now.AddDate(0, 0, 20), 25),
		domain.NewInventoryItem("Cetirizine", "10mg", 96, "CTZ-4410", now.AddDate(2, 0, 0), 20),
		domain.NewInventoryItem("Pantoprazole", "40mg", 14, "PAN-3307", now.AddDate(0, 9, 0), 15),
	}
	for _, item := range seedItems {
		if err := inventory.Save(ctx, item); err != nil {
			return err
		}
	}

	logger.Info("Seeded demo data",
		zap.Int("orders", len(seedOrders)),
		zap.Int("inventory_items", len(seedItems)),
	)
	return nil
}
