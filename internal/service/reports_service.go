package service

import (
	"context"
	"sort"
	"time"

	"github.com/hemant18-09/pharmacy/internal/domain"
	"github.com/hemant18-09/pharmacy/internal/repository"

	"go.uber.org/zap"
)

// DailySummaryRow is one per-day bucket for the orders-per-day chart
type DailySummaryRow struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	TotalOrders int    `json:"total_orders"`
	Delivered   int    `json:"delivered"`
	New         int    `json:"new"`
}

// TopMedicineRow is one entry in the most-dispensed ranking
type TopMedicineRow struct {
	DrugName string `json:"drug_name"`
	Count    int    `json:"count"`
	Rank     int    `json:"rank"`
}

// DashboardStats are the metric cards on the pharmacy dashboard
type DashboardStats struct {
	NewPrescriptionsToday int `json:"new_prescriptions_today"`
	OrdersInProgress      int `json:"orders_in_progress"`
	OrdersDeliveredToday  int `json:"orders_delivered_today"`
	LowStockAlerts        int `json:"low_stock_alerts"`
}

// ReportsService computes read-only summaries from ledger snapshots.
// It never writes to either ledger.
type ReportsService struct {
	orders    repository.OrderRepository
	inventory repository.InventoryRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportsService creates a new reporting aggregator
func NewReportsService(orders repository.OrderRepository, inventory repository.InventoryRepository, logger *zap.Logger) *ReportsService {
	return &ReportsService{
		orders:    orders,
		inventory: inventory,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the service clock; used by tests
func (s *ReportsService) WithClock(now func() time.Time) *ReportsService {
	s.now = now
	return s
}

// DailySummary buckets orders by creation date over the trailing days
// window, oldest bucket first.
func (s *ReportsService) DailySummary(ctx context.Context, days int) ([]DailySummaryRow, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rows := make([]DailySummaryRow, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -(days - 1 - i))
		key := day.Format("2006-01-02")
		rows[i] = DailySummaryRow{
			Date:  key,
			Label: day.Format("Jan 02"),
		}
		index[key] = i
	}

	for _, order := range orders {
		key := order.Timestamps.CreatedAt.UTC().Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			continue
		}
		rows[i].TotalOrders++
		switch order.Status {
		case domain.StatusDelivered, domain.StatusPickedUp:
			rows[i].Delivered++
		case domain.StatusNew:
			rows[i].New++
		}
	}

	return rows, nil
}

// TopMedicines ranks drug names by how often they appear on completed
// (DELIVERED / PICKED_UP) orders, descending.
func (s *ReportsService) TopMedicines(ctx context.Context, limit int) ([]TopMedicineRow, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, order := range orders {
		if order.Status != domain.StatusDelivered && order.Status != domain.StatusPickedUp {
			continue
		}
		for _, med := range order.Medications {
			counts[med.DrugName]++
		}
	}

	ranked := make([]TopMedicineRow, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, TopMedicineRow{DrugName: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].DrugName < ranked[j].DrugName
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// Stats computes the dashboard metric cards
func (s *ReportsService) Stats(ctx context.Context) (*DashboardStats, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats := &DashboardStats{}
	for _, order := range orders {
		switch order.Status {
		case domain.StatusNew:
			if !order.Timestamps.CreatedAt.UTC().Before(todayStart) {
				stats.NewPrescriptionsToday++
			}
		case domain.StatusAccepted, domain.StatusPreparing:
			stats.OrdersInProgress++
		case domain.StatusDelivered, domain.StatusPickedUp:
			if order.Timestamps.CompletedAt != nil && !order.Timestamps.CompletedAt.UTC().Before(todayStart) {
				stats.OrdersDeliveredToday++
			}
		}
	}

	items, err := s.inventory.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.IsLowStock() {
			stats.LowStockAlerts++
		}
	}

	return stats, nil
}
