package handler

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"catalog-service/internal/middleware"
	"catalog-service/internal/model"
	"catalog-service/pkg/config"
	"catalog-service/pkg/database"
	"catalog-service/pkg/jwtutil"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testToken string

func TestMain(m *testing.M) {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	jwtutil.Initialize(&cfg.JWT)
	prometheus.InitMetrics(cfg)

	testToken, err = jwtutil.GenerateToken(1, "tester@example.com", "admin")
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

var testDBCounter int64

// setupTestDB opens a fresh in-memory database, runs migrations and installs
// it as the handlers' database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.Set(db)
	return db
}

// newTestRouter builds an Echo instance with the API routes registered the
// same way the server does.
func newTestRouter() *echo.Echo {
	e := echo.New()

	e.POST("/api/auth/login", Login)

	componentAPI := e.Group("/api/components", middleware.AuthMiddleware)
	componentAPI.GET("", ListComponents)
	componentAPI.GET("/:id", GetComponent)
	componentAPI.POST("", CreateComponent)
	componentAPI.PUT("/:id", UpdateComponent)
	componentAPI.DELETE("/:id", DeleteComponent)
	componentAPI.POST("/:id/duplicate", DuplicateComponent)
	componentAPI.PUT("/:id/status", UpdateComponentStatus)
	componentAPI.GET("/:id/variants", ListComponentVariants)
	componentAPI.POST("/:id/variants", CreateVariant)
	componentAPI.POST("/:id/pictures", UploadComponentPicture)
	componentAPI.POST("/:id/keywords", AttachKeywords)
	componentAPI.DELETE("/:id/keywords/:keywordID", DetachKeyword)

	variantAPI := e.Group("/api/variants", middleware.AuthMiddleware)
	variantAPI.PUT("/:id", UpdateVariant)
	variantAPI.DELETE("/:id", DeleteVariant)
	variantAPI.POST("/:id/pictures", UploadVariantPicture)

	pictureAPI := e.Group("/api/pictures", middleware.AuthMiddleware)
	pictureAPI.PUT("/:id", UpdatePicture)
	pictureAPI.PUT("/:id/primary", SetPrimaryPicture)
	pictureAPI.DELETE("/:id", DeletePicture)

	supplierAPI := e.Group("/api/suppliers", middleware.AuthMiddleware)
	supplierAPI.GET("", ListSuppliers)
	supplierAPI.GET("/:id", GetSupplier)
	supplierAPI.POST("", CreateSupplier)
	supplierAPI.PUT("/:id", UpdateSupplier)
	supplierAPI.DELETE("/:id", DeleteSupplier)
	supplierAPI.POST("/bulk-delete", BulkDeleteSuppliers)

	brandAPI := e.Group("/api/brands", middleware.AuthMiddleware)
	brandAPI.GET("", ListBrands)
	brandAPI.POST("", CreateBrand)
	brandAPI.PUT("/:id", UpdateBrand)
	brandAPI.DELETE("/:id", DeleteBrand)

	categoryAPI := e.Group("/api/categories", middleware.AuthMiddleware)
	categoryAPI.GET("", ListCategories)
	categoryAPI.POST("", CreateCategory)
	categoryAPI.DELETE("/:id", DeleteCategory)

	colorAPI := e.Group("/api/colors", middleware.AuthMiddleware)
	colorAPI.GET("", ListColors)
	colorAPI.POST("", CreateColor)
	colorAPI.DELETE("/:id", DeleteColor)

	keywordAPI := e.Group("/api/keyword", middleware.AuthMiddleware)
	keywordAPI.GET("/search", SearchKeywords)

	analyticsAPI := e.Group("/api/analytics", middleware.AuthMiddleware)
	analyticsAPI.GET("/core-metrics", GetCoreMetrics)
	analyticsAPI.GET("/quality-score", GetQualityScore)
	analyticsAPI.GET("/metafield-analysis", GetMetafieldAnalysis)

	cacheAPI := e.Group("/api/cache", middleware.AuthMiddleware)
	cacheAPI.POST("/warm", WarmCache)
	cacheAPI.POST("/clear", ClearCache)

	return e
}

// doRequest sends an authenticated JSON request through the router.
func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// createTestSupplier inserts a supplier directly for test setup.
func createTestSupplier(t *testing.T, db *gorm.DB, name, code string) *model.Supplier {
	t.Helper()
	supplier := &model.Supplier{
		Name:         name,
		SupplierCode: strings.ToUpper(code),
		IsActive:     true,
	}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

// createTestComponent inserts a component directly for test setup.
func createTestComponent(t *testing.T, db *gorm.DB, supplierID uint, productNumber, name string) *model.Component {
	t.Helper()
	component := &model.Component{
		ProductNumber: productNumber,
		Name:          name,
		SupplierID:    supplierID,
		ProtoStatus:   model.StatusPending,
		SMSStatus:     model.StatusPending,
		PPSStatus:     model.StatusPending,
	}
	require.NoError(t, db.Create(component).Error)
	return component
}

// createTestColor inserts a color directly for test setup.
func createTestColor(t *testing.T, db *gorm.DB, name, hex string) *model.Color {
	t.Helper()
	color := &model.Color{Name: name, HexCode: hex}
	require.NoError(t, db.Create(color).Error)
	return color
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "unexpected status, body: %s", rec.Body.String())
}
