package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"storepanel/internal/config"
	"storepanel/internal/models"
	"storepanel/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB initializes a test database
func setupTestDB(t *testing.T) (*gorm.DB, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type: "sqlite",
			SQLite: config.SQLiteConfig{
				Path: filepath.Join(t.TempDir(), "storepanel_test.db"),
			},
		},
		JWT: config.JWTConfig{
			Secret:    "test-secret-key-for-testing-only",
			ExpiresIn: "168h",
			Issuer:    "storepanel-test",
		},
		Security: config.SecurityConfig{
			BcryptCost: 10,
		},
	}

	db, err := models.OpenDB(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db, cfg
}

// setupTestRouter creates a test router with routes
func setupTestRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, db, cfg)
	return r
}

// createTestAdmin creates an admin user and returns it
func createTestAdmin(t *testing.T, db *gorm.DB, cfg *config.Config, email, password string, role models.Role) *models.AdminUser {
	t.Helper()

	authService := services.NewAuthService(db, cfg)
	adminService := services.NewAdminService(db, authService)

	count, err := adminService.CountAdmins()
	require.NoError(t, err)

	var actingUser *models.AdminUser
	if count > 0 {
		// Acting user must be a super admin once the store is non-empty
		var superAdmin models.AdminUser
		require.NoError(t, db.First(&superAdmin, "role = ?", models.RoleSuperAdmin).Error)
		actingUser = &superAdmin
	}

	user, err := adminService.CreateAdmin(services.CreateAdminInput{
		Email:    email,
		Password: password,
		Name:     "Test User",
		Role:     role,
	}, actingUser)
	require.NoError(t, err)
	return user
}

// loginToken logs a user in and returns the session token
func loginToken(t *testing.T, db *gorm.DB, cfg *config.Config, email, password string) string {
	t.Helper()

	authService := services.NewAuthService(db, cfg)
	token, _, err := authService.Login(email, password)
	require.NoError(t, err)
	return token
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRoutes(t *testing.T) {
	db, cfg := setupTestDB(t)
	router := setupTestRouter(db, cfg)

	createTestAdmin(t, db, cfg, "owner@example.com", "Sup3rSecret!", "")

	t.Run("GET /api/health - public", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("POST /api/auth/login - success sets cookie", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/auth/login", "", map[string]string{
			"email":    "owner@example.com",
			"password": "Sup3rSecret!",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotEmpty(t, response["token"])

		user := response["user"].(map[string]interface{})
		assert.Equal(t, "owner@example.com", user["email"])
		assert.NotContains(t, user, "passwordHash")

		var sessionCookie *http.Cookie
		for _, cookie := range w.Result().Cookies() {
			if cookie.Name == "admin-token" {
				sessionCookie = cookie
			}
		}
		require.NotNil(t, sessionCookie)
		assert.True(t, sessionCookie.HttpOnly)
		assert.Equal(t, "/", sessionCookie.Path)
		assert.InDelta(t, int(7*24*time.Hour.Seconds()), sessionCookie.MaxAge, 1)
	})

	t.Run("POST /api/auth/login - invalid credentials", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/auth/login", "", map[string]string{
			"email":    "owner@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		unknown := doJSON(router, "POST", "/api/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "Sup3rSecret!",
		})
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.JSONEq(t, w.Body.String(), unknown.Body.String())
	})

	t.Run("GET /api/auth/me - bearer token", func(t *testing.T) {
		token := loginToken(t, db, cfg, "owner@example.com", "Sup3rSecret!")
		w := doJSON(router, "GET", "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var user models.AdminUser
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, "owner@example.com", user.Email)
	})

	t.Run("GET /api/auth/me - cookie", func(t *testing.T) {
		token := loginToken(t, db, cfg, "owner@example.com", "Sup3rSecret!")
		req, _ := http.NewRequest("GET", "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "admin-token", Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GET /api/auth/me - no token", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /api/auth/me - garbage token", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/auth/me", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("PATCH /api/auth/password then login with new password", func(t *testing.T) {
		token := loginToken(t, db, cfg, "owner@example.com", "Sup3rSecret!")
		w := doJSON(router, "PATCH", "/api/auth/password", token, map[string]string{
			"current_password": "Sup3rSecret!",
			"new_password":     "An0ther#Pass",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		login := doJSON(router, "POST", "/api/auth/login", "", map[string]string{
			"email":    "owner@example.com",
			"password": "An0ther#Pass",
		})
		assert.Equal(t, http.StatusOK, login.Code)
	})
}

func TestAdminRoutes(t *testing.T) {
	db, cfg := setupTestDB(t)
	router := setupTestRouter(db, cfg)

	t.Run("POST /api/admins - bootstrap without session", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/admins", "", map[string]string{
			"email":    "owner@example.com",
			"password": "Sup3rSecret!",
			"name":     "Owner",
			"role":     "admin",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var user models.AdminUser
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, models.RoleSuperAdmin, user.Role)
	})

	t.Run("POST /api/admins - no session after bootstrap", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/admins", "", map[string]string{
			"email":    "second@example.com",
			"password": "S3cond#Pass",
			"name":     "Second",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	superToken := loginToken(t, db, cfg, "owner@example.com", "Sup3rSecret!")

	t.Run("POST /api/admins - super admin creates an admin", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/admins", superToken, map[string]string{
			"email":    "staff@example.com",
			"password": "St4ff#Pass",
			"name":     "Staff",
			"role":     "admin",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var user models.AdminUser
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, models.RoleAdmin, user.Role)
	})

	staffToken := loginToken(t, db, cfg, "staff@example.com", "St4ff#Pass")

	t.Run("POST /api/admins - admin role is forbidden", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/admins", staffToken, map[string]string{
			"email":    "third@example.com",
			"password": "Th1rd#Pass",
			"name":     "Third",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST /api/admins - duplicate email", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/admins", superToken, map[string]string{
			"email":    "staff@example.com",
			"password": "St4ff#Pass",
			"name":     "Dup",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("GET /api/admins - super admin", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/admins", superToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string][]models.AdminUser
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response["admins"], 2)
	})

	t.Run("GET /api/admins - admin role is forbidden", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/admins", staffToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("DELETE /api/admins/:id - self-deletion is rejected", func(t *testing.T) {
		var owner models.AdminUser
		require.NoError(t, db.First(&owner, "email = ?", "owner@example.com").Error)

		w := doJSON(router, "DELETE", "/api/admins/"+owner.ID, superToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DELETE /api/admins/:id - unknown id", func(t *testing.T) {
		w := doJSON(router, "DELETE", "/api/admins/no-such-id", superToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DELETE /api/admins/:id - success, session dies with the account", func(t *testing.T) {
		var staff models.AdminUser
		require.NoError(t, db.First(&staff, "email = ?", "staff@example.com").Error)

		w := doJSON(router, "DELETE", "/api/admins/"+staff.ID, superToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		me := doJSON(router, "GET", "/api/auth/me", staffToken, nil)
		assert.Equal(t, http.StatusUnauthorized, me.Code)
	})
}

func TestProductAndMetricsRoutes(t *testing.T) {
	db, cfg := setupTestDB(t)
	router := setupTestRouter(db, cfg)

	createTestAdmin(t, db, cfg, "owner@example.com", "Sup3rSecret!", "")
	superToken := loginToken(t, db, cfg, "owner@example.com", "Sup3rSecret!")

	createTestAdmin(t, db, cfg, "staff@example.com", "St4ff#Pass", models.RoleAdmin)
	staffToken := loginToken(t, db, cfg, "staff@example.com", "St4ff#Pass")

	var productID string

	t.Run("POST /api/products - create", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/products", staffToken, map[string]interface{}{
			"name":        "Wireless Headphones",
			"description": "Noise-cancelling",
			"price":       199.99,
			"cost_price":  120.0,
			"stock":       5,
			"category":    "Electronics",
			"status":      "active",
			"images": []map[string]interface{}{
				{"url": "https://example.com/headphones.jpg", "is_primary": true},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var product models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 10, product.LowStockThreshold)
		require.Len(t, product.Images, 1)
		productID = product.ID
	})

	t.Run("GET /api/products - requires auth", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/products", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /api/products - list with filters", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/products?category=Electronics&status=active", staffToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list services.ProductList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Equal(t, int64(1), list.Total)
		require.Len(t, list.Products, 1)
		assert.Equal(t, "Wireless Headphones", list.Products[0].Name)
	})

	t.Run("GET /api/products/:id - not found", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/products/no-such-id", staffToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /api/metrics/stock - low stock flagged", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/metrics/stock", staffToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var metrics services.StockMetrics
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metrics))
		assert.Equal(t, int64(1), metrics.TotalProducts)
		require.Len(t, metrics.LowStockProducts, 1)
		assert.Equal(t, productID, metrics.LowStockProducts[0].ID)
	})

	t.Run("POST /api/metrics/sample-data - admin role is forbidden", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/metrics/sample-data", staffToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST /api/metrics/sample-data - super admin seeds rows", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/metrics/sample-data?count=10", superToken, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var count int64
		require.NoError(t, db.Model(&models.SalesData{}).Count(&count).Error)
		assert.Equal(t, int64(10), count)
	})

	t.Run("GET /api/metrics/sales - aggregates seeded rows", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/metrics/sales", staffToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var metrics services.SalesMetrics
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metrics))
		assert.Greater(t, metrics.TotalSales, 0.0)
		require.Len(t, metrics.TopProducts, 1)
		assert.Equal(t, "Wireless Headphones", metrics.TopProducts[0].ProductName)
	})

	t.Run("GET /api/metrics/sales - bad date range", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/metrics/sales?startDate=bogus&endDate=2024-03-01", staffToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GET /api/metrics/products/:id", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/metrics/products/"+productID, staffToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var performance services.ProductPerformance
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &performance))
		assert.Equal(t, productID, performance.ProductID)
		assert.Greater(t, performance.AverageOrderValue, 0.0)
	})

	t.Run("DELETE /api/products/:id - sales survive with cleared reference", func(t *testing.T) {
		w := doJSON(router, "DELETE", "/api/products/"+productID, staffToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var salesCount int64
		require.NoError(t, db.Model(&models.SalesData{}).Count(&salesCount).Error)
		assert.Equal(t, int64(10), salesCount)

		var orphaned int64
		require.NoError(t, db.Model(&models.SalesData{}).Where("product_id IS NULL").Count(&orphaned).Error)
		assert.Equal(t, int64(10), orphaned)

		metricsRes := doJSON(router, "GET", "/api/metrics/sales", staffToken, nil)
		require.Equal(t, http.StatusOK, metricsRes.Code)

		var metrics services.SalesMetrics
		require.NoError(t, json.Unmarshal(metricsRes.Body.Bytes(), &metrics))
		require.Len(t, metrics.TopProducts, 1)
		assert.Equal(t, services.UnknownProductLabel, metrics.TopProducts[0].ProductName)
	})
}
