package handlers

import (
	"strconv"
	"time"

	"storepanel/internal/services"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	metricsService *services.MetricsService
}

func NewMetricsHandler(metricsService *services.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService}
}

// parseDateRange reads optional startDate/endDate query parameters.
// Both must be present to form a range; the end date is extended to the
// end of its day so the range is inclusive.
func parseDateRange(c *gin.Context) (*services.DateRange, bool) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		return nil, true
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, false
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, false
	}

	end = end.Add(24*time.Hour - time.Nanosecond)
	return &services.DateRange{Start: start, End: end}, true
}

// GetSalesMetrics returns sales totals, the per-day series and top products
func (h *MetricsHandler) GetSalesMetrics(c *gin.Context) {
	dateRange, ok := parseDateRange(c)
	if !ok {
		c.JSON(400, gin.H{"error": "Dates must use the YYYY-MM-DD format", "code": "VALIDATION_ERROR"})
		return
	}

	metrics, err := h.metricsService.GetSalesMetrics(dateRange)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, metrics)
}

// GetStockMetrics returns product counts, low-stock products and stock by category
func (h *MetricsHandler) GetStockMetrics(c *gin.Context) {
	metrics, err := h.metricsService.GetStockMetrics()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, metrics)
}

// GetProductPerformance returns per-product sales aggregation
func (h *MetricsHandler) GetProductPerformance(c *gin.Context) {
	dateRange, ok := parseDateRange(c)
	if !ok {
		c.JSON(400, gin.H{"error": "Dates must use the YYYY-MM-DD format", "code": "VALIDATION_ERROR"})
		return
	}

	performance, err := h.metricsService.GetProductPerformance(c.Param("id"), dateRange)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, performance)
}

// CreateSampleData seeds synthetic sales rows for demonstration
func (h *MetricsHandler) CreateSampleData(c *gin.Context) {
	count := 20
	if v := c.Query("count"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 1000 {
			c.JSON(400, gin.H{"error": "count must be between 1 and 1000", "code": "VALIDATION_ERROR"})
			return
		}
		count = parsed
	}

	rows, err := h.metricsService.CreateSampleSalesData(count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, gin.H{"message": "Sample sales data created", "count": len(rows)})
}
