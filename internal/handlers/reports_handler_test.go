package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hemant18-09/pharmacy/internal/cache"
	"github.com/hemant18-09/pharmacy/internal/domain"
	"github.com/hemant18-09/pharmacy/internal/events"
	"github.com/hemant18-09/pharmacy/internal/repository"
	"github.com/hemant18-09/pharmacy/internal/service"
	"github.com/hemant18-09/pharmacy/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reportsHandlerFixture struct {
	router    *gin.Engine
	orders    *service.OrderService
	inventory *service.InventoryService
	cache     cache.Cache
}

func newReportsHandlerFixture(t *testing.T) *reportsHandlerFixture {
	return newReportsHandlerFixtureWithCache(t, cache.NewInMemoryCache(zap.NewNop()))
}

func newReportsHandlerFixtureWithCache(t *testing.T, reportCache cache.Cache) *reportsHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	orderRepo := repository.NewOrderRepository(store)
	inventoryRepo := repository.NewInventoryRepository(store)
	clock := func() time.Time { return handlerNow }

	var publisher events.EventPublisher = events.NewEventPublisher(zap.NewNop())
	if reportCache != nil {
		publisher = events.NewCacheInvalidatingPublisher(publisher, reportCache, ReportCacheKeyPrefix+"*", zap.NewNop())
	}

	orders := service.NewOrderService(orderRepo, publisher, zap.NewNop()).WithClock(clock)
	inventory := service.NewInventoryService(inventoryRepo, publisher, zap.NewNop()).WithClock(clock)
	reports := service.NewReportsService(orderRepo, inventoryRepo, zap.NewNop()).WithClock(clock)

	handler := NewReportsHandler(reports, reportCache, 5*time.Minute, zap.NewNop())

	router := gin.New()
	router.GET("/pharmacy/reports/daily-summary", handler.DailySummary)
	router.GET("/pharmacy/reports/top-medicines", handler.TopMedicines)
	router.GET("/pharmacy/stats", handler.Stats)

	return &reportsHandlerFixture{router: router, orders: orders, inventory: inventory, cache: reportCache}
}

func (f *reportsHandlerFixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *reportsHandlerFixture) seedDeliveredOrder(t *testing.T, drugName string) {
	t.Helper()
	ctx := context.Background()
	order, err := f.orders.Create(ctx, service.CreateOrderParams{
		PatientName: "Ravi Kumar",
		DoctorName:  "Dr. Shah",
		Medications: []domain.Medication{{DrugName: drugName, Strength: "10mg"}},
	})
	require.NoError(t, err)
	for _, step := range []domain.Status{domain.StatusAccepted, domain.StatusPreparing, domain.StatusReady, domain.StatusDelivered} {
		_, _, err := f.orders.UpdateStatus(ctx, order.ID, step)
		require.NoError(t, err)
	}
}

func TestDailySummary_DefaultWindow(t *testing.T) {
	f := newReportsHandlerFixture(t)
	f.seedDeliveredOrder(t, "Paracetamol")

	w := f.get("/pharmacy/reports/daily-summary")

	assert.Equal(t, http.StatusOK, w.Code)
	var rows []service.DailySummaryRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 7)
	last := rows[6]
	assert.Equal(t, "2025-06-15", last.Date)
	assert.Equal(t, "Jun 15", last.Label)
	assert.Equal(t, 1, last.TotalOrders)
	assert.Equal(t, 1, last.Delivered)
}

func TestDailySummary_Returns400_BadDays(t *testing.T) {
	f := newReportsHandlerFixture(t)

	for _, query := range []string{"?days=0", "?days=-3", "?days=banana", "?days=365"} {
		w := f.get("/pharmacy/reports/daily-summary" + query)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestTopMedicines_RankedResponse(t *testing.T) {
	f := newReportsHandlerFixture(t)
	f.seedDeliveredOrder(t, "Paracetamol")
	f.seedDeliveredOrder(t, "Paracetamol")
	f.seedDeliveredOrder(t, "Cetirizine")

	w := f.get("/pharmacy/reports/top-medicines?limit=1")

	assert.Equal(t, http.StatusOK, w.Code)
	var rows []service.TopMedicineRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, service.TopMedicineRow{DrugName: "Paracetamol", Count: 2, Rank: 1}, rows[0])
}

func TestStats_Cards(t *testing.T) {
	f := newReportsHandlerFixture(t)
	ctx := context.Background()
	f.seedDeliveredOrder(t, "Paracetamol")
	_, err := f.orders.Create(ctx, service.CreateOrderParams{
		PatientName: "Priya Patel",
		DoctorName:  "Dr. Iyer",
		Medications: []domain.Medication{{DrugName: "Cetirizine"}},
	})
	require.NoError(t, err)
	_, err = f.inventory.Add(ctx, service.AddItemParams{
		DrugName:    "Amoxicillin",
		Strength:    "500mg",
		Quantity:    3,
		ExpiryDate:  "2027-01-01",
		BatchNumber: "AMX-1",
		Threshold:   10,
	})
	require.NoError(t, err)

	w := f.get("/pharmacy/stats")

	assert.Equal(t, http.StatusOK, w.Code)
	var stats service.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.NewPrescriptionsToday)
	assert.Equal(t, 1, stats.OrdersDeliveredToday)
	assert.Equal(t, 1, stats.LowStockAlerts)
}

func TestStats_ServedFromCacheBetweenReads(t *testing.T) {
	f := newReportsHandlerFixture(t)
	f.seedDeliveredOrder(t, "Paracetamol")

	first := f.get("/pharmacy/stats")
	require.Equal(t, http.StatusOK, first.Code)

	// poke the cache directly: a second read must come from it, not the ledger
	doctored := service.DashboardStats{NewPrescriptionsToday: 42}
	require.NoError(t, cache.SetJSON(context.Background(), f.cache, ReportCacheKeyPrefix+"stats", doctored, 5*time.Minute))

	second := f.get("/pharmacy/stats")
	require.Equal(t, http.StatusOK, second.Code)
	var stats service.DashboardStats
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &stats))
	assert.Equal(t, 42, stats.NewPrescriptionsToday)
}

func TestStats_RefreshedAfterStatusChange(t *testing.T) {
	f := newReportsHandlerFixture(t)
	ctx := context.Background()
	order, err := f.orders.Create(ctx, service.CreateOrderParams{
		PatientName: "Ravi Kumar",
		DoctorName:  "Dr. Shah",
		Medications: []domain.Medication{{DrugName: "Paracetamol"}},
	})
	require.NoError(t, err)

	first := f.get("/pharmacy/stats")
	require.Equal(t, http.StatusOK, first.Code)
	var stats service.DashboardStats
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.NewPrescriptionsToday)
	assert.Equal(t, 0, stats.OrdersInProgress)

	// the write drops the cached response, so the next read sees it
	_, _, err = f.orders.UpdateStatus(ctx, order.ID, domain.StatusAccepted)
	require.NoError(t, err)

	second := f.get("/pharmacy/stats")
	require.Equal(t, http.StatusOK, second.Code)
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.NewPrescriptionsToday)
	assert.Equal(t, 1, stats.OrdersInProgress)
}

func TestDailySummary_RefreshedAfterWrite(t *testing.T) {
	f := newReportsHandlerFixture(t)

	first := f.get("/pharmacy/reports/daily-summary")
	require.Equal(t, http.StatusOK, first.Code)
	var rows []service.DailySummaryRow
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &rows))
	require.Len(t, rows, 7)
	assert.Equal(t, 0, rows[6].TotalOrders)

	f.seedDeliveredOrder(t, "Paracetamol")

	second := f.get("/pharmacy/reports/daily-summary")
	require.Equal(t, http.StatusOK, second.Code)
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &rows))
	assert.Equal(t, 1, rows[6].TotalOrders)
	assert.Equal(t, 1, rows[6].Delivered)
}

func TestReports_CacheDisabled(t *testing.T) {
	f := newReportsHandlerFixtureWithCache(t, nil)
	f.seedDeliveredOrder(t, "Paracetamol")

	for _, path := range []string{"/pharmacy/reports/daily-summary", "/pharmacy/reports/top-medicines", "/pharmacy/stats"} {
		w := f.get(path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	// without a cache every read reflects the ledger directly
	f.seedDeliveredOrder(t, "Ibuprofen")
	w := f.get("/pharmacy/stats")
	require.Equal(t, http.StatusOK, w.Code)
	var stats service.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.OrdersDeliveredToday)
}
