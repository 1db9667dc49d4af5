package services

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"storepanel/internal/models"

	"gorm.io/gorm"
)

// UnknownProductLabel is used when a sales row's product no longer
// exists. Sales keep a weak reference to products, so this is a normal
// state, not an error.
const UnknownProductLabel = "Unknown Product"

type MetricsService struct {
	db *gorm.DB
}

func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{db: db}
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

type SalesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type TopProduct struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	TotalSales  float64 `json:"total_sales"`
	Quantity    int     `json:"quantity"`
}

type SalesMetrics struct {
	TotalSales    float64      `json:"total_sales"`
	SalesByPeriod []SalesPoint `json:"sales_by_period"`
	TopProducts   []TopProduct `json:"top_products"`
}

type CategoryStock struct {
	Category     string `json:"category"`
	TotalStock   int    `json:"total_stock"`
	ProductCount int    `json:"product_count"`
}

type StockMetrics struct {
	TotalProducts    int64            `json:"total_products"`
	LowStockProducts []models.Product `json:"low_stock_products"`
	StockByCategory  []CategoryStock  `json:"stock_by_category"`
}

type ProductPerformance struct {
	ProductID         string       `json:"product_id"`
	ProductName       string       `json:"product_name"`
	TotalSales        float64      `json:"total_sales"`
	TotalQuantity     int          `json:"total_quantity"`
	AverageOrderValue float64      `json:"average_order_value"`
	SalesByPeriod     []SalesPoint `json:"sales_by_period"`
}

// GetSalesMetrics aggregates sales totals, a per-day series and the top
// five products, optionally restricted to an inclusive date range.
// Aggregation happens in memory so the result is identical across
// database backends, with explicit tie-breaks for determinism.
func (s *MetricsService) GetSalesMetrics(dateRange *DateRange) (*SalesMetrics, error) {
	rows, err := s.loadSales(dateRange, "")
	if err != nil {
		return nil, err
	}

	var totalSales float64
	byDay := make(map[string]float64)
	type productTotals struct {
		sales    float64
		quantity int
	}
	byProduct := make(map[string]*productTotals)

	for _, row := range rows {
		totalSales += row.TotalAmount
		byDay[dayKey(row.SaleDate)] += row.TotalAmount

		productID := ""
		if row.ProductID != nil {
			productID = *row.ProductID
		}
		totals := byProduct[productID]
		if totals == nil {
			totals = &productTotals{}
			byProduct[productID] = totals
		}
		totals.sales += row.TotalAmount
		totals.quantity += row.Quantity
	}

	top := make([]TopProduct, 0, len(byProduct))
	for id, totals := range byProduct {
		top = append(top, TopProduct{
			ProductID:  id,
			TotalSales: totals.sales,
			Quantity:   totals.quantity,
		})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].TotalSales != top[j].TotalSales {
			return top[i].TotalSales > top[j].TotalSales
		}
		return top[i].ProductID < top[j].ProductID
	})
	if len(top) > 5 {
		top = top[:5]
	}

	names, err := s.productNames(top)
	if err != nil {
		return nil, err
	}
	for i := range top {
		name, ok := names[top[i].ProductID]
		if !ok {
			name = UnknownProductLabel
		}
		top[i].ProductName = name
	}

	return &SalesMetrics{
		TotalSales:    totalSales,
		SalesByPeriod: sortedSeries(byDay),
		TopProducts:   top,
	}, nil
}

// GetStockMetrics reports the product count, the ten lowest-stock
// products below their thresholds, and per-category stock totals.
func (s *MetricsService) GetStockMetrics() (*StockMetrics, error) {
	var products []models.Product
	if err := s.db.Find(&products).Error; err != nil {
		return nil, storageError(err)
	}

	var low []models.Product
	byCategory := make(map[string]*CategoryStock)
	for _, p := range products {
		if p.Stock < p.EffectiveLowStockThreshold() {
			low = append(low, p)
		}
		cs := byCategory[p.Category]
		if cs == nil {
			cs = &CategoryStock{Category: p.Category}
			byCategory[p.Category] = cs
		}
		cs.TotalStock += p.Stock
		cs.ProductCount++
	}

	sort.Slice(low, func(i, j int) bool {
		if low[i].Stock != low[j].Stock {
			return low[i].Stock < low[j].Stock
		}
		return low[i].ID < low[j].ID
	})
	if len(low) > 10 {
		low = low[:10]
	}

	categories := make([]CategoryStock, 0, len(byCategory))
	for _, cs := range byCategory {
		categories = append(categories, *cs)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].TotalStock != categories[j].TotalStock {
			return categories[i].TotalStock > categories[j].TotalStock
		}
		return categories[i].Category < categories[j].Category
	})

	return &StockMetrics{
		TotalProducts:    int64(len(products)),
		LowStockProducts: low,
		StockByCategory:  categories,
	}, nil
}

// GetProductPerformance aggregates sales for a single product.
func (s *MetricsService) GetProductPerformance(productID string, dateRange *DateRange) (*ProductPerformance, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError(err)
	}

	rows, err := s.loadSales(dateRange, productID)
	if err != nil {
		return nil, err
	}

	var totalSales float64
	var totalQuantity int
	byDay := make(map[string]float64)
	for _, row := range rows {
		totalSales += row.TotalAmount
		totalQuantity += row.Quantity
		byDay[dayKey(row.SaleDate)] += row.TotalAmount
	}

	averageOrderValue := 0.0
	if totalQuantity > 0 {
		averageOrderValue = totalSales / float64(totalQuantity)
	}

	return &ProductPerformance{
		ProductID:         product.ID,
		ProductName:       product.Name,
		TotalSales:        totalSales,
		TotalQuantity:     totalQuantity,
		AverageOrderValue: averageOrderValue,
		SalesByPeriod:     sortedSeries(byDay),
	}, nil
}

// CreateSampleSalesData generates count synthetic sales rows for
// demonstration purposes: a random product, a quantity between 1 and 5
// and a sale date within the trailing 30 days.
func (s *MetricsService) CreateSampleSalesData(count int) ([]models.SalesData, error) {
	if count <= 0 {
		count = 20
	}

	var products []models.Product
	if err := s.db.Find(&products).Error; err != nil {
		return nil, storageError(err)
	}
	if len(products) == 0 {
		return nil, newValidationError("No products available to generate sales data for")
	}

	now := time.Now()
	rows := make([]models.SalesData, 0, count)
	for i := 0; i < count; i++ {
		product := products[rand.Intn(len(products))]
		quantity := rand.Intn(5) + 1
		saleDate := now.AddDate(0, 0, -rand.Intn(30))

		productID := product.ID
		rows = append(rows, models.SalesData{
			ProductID:   &productID,
			Quantity:    quantity,
			UnitPrice:   product.Price,
			TotalAmount: product.Price * float64(quantity),
			SaleDate:    saleDate,
		})
	}

	if err := s.db.Create(&rows).Error; err != nil {
		return nil, storageError(err)
	}
	return rows, nil
}

func (s *MetricsService) loadSales(dateRange *DateRange, productID string) ([]models.SalesData, error) {
	query := s.db.Model(&models.SalesData{})
	if dateRange != nil {
		query = query.Where("sale_date >= ? AND sale_date <= ?", dateRange.Start, dateRange.End)
	}
	if productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	var rows []models.SalesData
	if err := query.Find(&rows).Error; err != nil {
		return nil, storageError(err)
	}
	return rows, nil
}

func (s *MetricsService) productNames(top []TopProduct) (map[string]string, error) {
	ids := make([]string, 0, len(top))
	for _, t := range top {
		if t.ProductID != "" {
			ids = append(ids, t.ProductID)
		}
	}
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var products []models.Product
	if err := s.db.Select("id", "name").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, storageError(err)
	}
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names, nil
}

// dayKey buckets a sale timestamp by its UTC calendar day.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func sortedSeries(byDay map[string]float64) []SalesPoint {
	series := make([]SalesPoint, 0, len(byDay))
	for date, value := range byDay {
		series = append(series, SalesPoint{Date: date, Value: value})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}
