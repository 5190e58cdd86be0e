package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hemant18-09/pharmacy/internal/cache"
	"github.com/hemant18-09/pharmacy/internal/service"
	"github.com/hemant18-09/pharmacy/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultSummaryDays  = 7
	maxSummaryDays      = 90
	defaultTopMedicines = 10
)

// ReportCacheKeyPrefix prefixes every cached report response. Write
// paths invalidate the whole prefix.
const ReportCacheKeyPrefix = "pharmacy:reports:"

// ReportsHandler serves the reporting endpoints. Report responses are
// cached briefly; the cache is a read-through layer, never a source of
// truth, and may be nil when caching is disabled.
type ReportsHandler struct {
	reports  *service.ReportsService
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(reports *service.ReportsService, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{
		reports:  reports,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// DailySummary handles GET /pharmacy/reports/daily-summary
// @Summary      Orders per day
// @Description  Returns one bucket per day over the trailing window, oldest first. Days without orders appear as zero rows.
// @Tags         reports
// @Produce      json
// @Param        days  query     int  false  "Window size in days (1-90)"  default(7)
// @Success      200   {array}   service.DailySummaryRow
// @Failure      400   {object}  errors.StandardError  "Invalid days value"
// @Router       /pharmacy/reports/daily-summary [get]
func (h *ReportsHandler) DailySummary(c *gin.Context) {
	days, err := intQuery(c, "days", defaultSummaryDays)
	if err != nil || days < 1 || days > maxSummaryDays {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("days must be between 1 and 90", "days"))
		return
	}

	cacheKey := fmt.Sprintf(ReportCacheKeyPrefix+"daily-summary:%d", days)
	var rows []service.DailySummaryRow
	if h.cacheGet(c, cacheKey, &rows) {
		c.JSON(http.StatusOK, rows)
		return
	}

	rows, err = h.reports.DailySummary(c.Request.Context(), days)
	if err != nil {
		h.logger.Error("Daily summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("internal server error", err))
		return
	}

	h.cachePut(c, cacheKey, rows)
	c.JSON(http.StatusOK, rows)
}

// TopMedicines handles GET /pharmacy/reports/top-medicines
// @Summary      Most dispensed medicines
// @Description  Ranks drug names by how often they appear on completed orders, descending. Ties break alphabetically.
// @Tags         reports
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries"  default(10)
// @Success      200    {array}   service.TopMedicineRow
// @Failure      400    {object}  errors.StandardError  "Invalid limit value"
// @Router       /pharmacy/reports/top-medicines [get]
func (h *ReportsHandler) TopMedicines(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultTopMedicines)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, errors.NewValidationError("limit must be a positive integer", "limit"))
		return
	}

	cacheKey := fmt.Sprintf(ReportCacheKeyPrefix+"top-medicines:%d", limit)
	var rows []service.TopMedicineRow
	if h.cacheGet(c, cacheKey, &rows) {
		c.JSON(http.StatusOK, rows)
		return
	}

	rows, err = h.reports.TopMedicines(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Top medicines failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("internal server error", err))
		return
	}

	h.cachePut(c, cacheKey, rows)
	c.JSON(http.StatusOK, rows)
}

// Stats handles GET /pharmacy/stats
// @Summary      Dashboard metric cards
// @Description  Returns the four dashboard counters: new prescriptions today, orders in progress, orders delivered today and low stock alerts.
// @Tags         reports
// @Produce      json
// @Success      200  {object}  service.DashboardStats
// @Router       /pharmacy/stats [get]
func (h *ReportsHandler) Stats(c *gin.Context) {
	const cacheKey = ReportCacheKeyPrefix + "stats"
	var stats *service.DashboardStats
	if h.cacheGet(c, cacheKey, &stats) && stats != nil {
		c.JSON(http.StatusOK, stats)
		return
	}

	stats, err := h.reports.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Dashboard stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("internal server error", err))
		return
	}

	h.cachePut(c, cacheKey, stats)
	c.JSON(http.StatusOK, stats)
}

func (h *ReportsHandler) cacheGet(c *gin.Context, key string, dest interface{}) bool {
	if h.cache == nil {
		return false
	}
	return cache.GetJSON(c.Request.Context(), h.cache, key, dest) == nil
}

func (h *ReportsHandler) cachePut(c *gin.Context, key string, value interface{}) {
	if h.cache == nil {
		return
	}
	if err := cache.SetJSON(c.Request.Context(), h.cache, key, value, h.cacheTTL); err != nil {
		h.logger.Warn("Failed to cache report response", zap.String("key", key), zap.Error(err))
	}
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
