package main

import (
	"net/http"

	"catalog-service/internal/analytics"
	"catalog-service/internal/handler"
	mid "catalog-service/internal/middleware"
	"catalog-service/pkg/config"
	"catalog-service/pkg/database"
	"catalog-service/pkg/jwtutil"
	"catalog-service/pkg/logger"
	"catalog-service/pkg/shopify"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (reads .env if present)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting catalog-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	err = database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := handler.EnsureAdminUser(&appConfig.Admin); err != nil {
		log.Fatal("Failed to seed admin account", zap.Error(err))
	}

	// Picture upload directories
	if err := handler.InitPictures(&appConfig.Uploads); err != nil {
		log.Fatal("Failed to prepare upload directories", zap.Error(err))
	}

	// Shopify client and analytics service
	shop := shopify.NewClient(&appConfig.Shopify, log)
	if !shop.Configured() {
		log.Warn("Shopify credentials not configured, store metrics will be unavailable")
	}
	cache := analytics.NewCache(appConfig.Cache.TTL)
	handler.InitAnalytics(analytics.NewService(shop, cache, log, appConfig.Shopify.ProductSample))

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware(log))

	// Routes
	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Uploaded pictures are served statically
	e.Static("/uploads", appConfig.Uploads.Dir)

	// Authentication
	e.POST("/api/auth/login", handler.Login)

	// Component API routes - Apply auth middleware to validate JWT
	componentAPI := e.Group("/api/components", mid.AuthMiddleware)
	componentAPI.GET("", handler.ListComponents)
	componentAPI.GET("/:id", handler.GetComponent)
	componentAPI.POST("", handler.CreateComponent)
	componentAPI.PUT("/:id", handler.UpdateComponent)
	componentAPI.DELETE("/:id", handler.DeleteComponent)
	componentAPI.POST("/:id/duplicate", handler.DuplicateComponent)
	componentAPI.PUT("/:id/status", handler.UpdateComponentStatus)
	componentAPI.GET("/:id/variants", handler.ListComponentVariants)
	componentAPI.POST("/:id/variants", handler.CreateVariant)
	componentAPI.POST("/:id/pictures", handler.UploadComponentPicture)
	componentAPI.POST("/:id/keywords", handler.AttachKeywords)
	componentAPI.DELETE("/:id/keywords/:keywordID", handler.DetachKeyword)

	// Variant API routes
	variantAPI := e.Group("/api/variants", mid.AuthMiddleware)
	variantAPI.PUT("/:id", handler.UpdateVariant)
	variantAPI.DELETE("/:id", handler.DeleteVariant)
	variantAPI.POST("/:id/pictures", handler.UploadVariantPicture)

	// Picture API routes
	pictureAPI := e.Group("/api/pictures", mid.AuthMiddleware)
	pictureAPI.PUT("/:id", handler.UpdatePicture)
	pictureAPI.PUT("/:id/primary", handler.SetPrimaryPicture)
	pictureAPI.DELETE("/:id", handler.DeletePicture)

	// Supplier API routes
	supplierAPI := e.Group("/api/suppliers", mid.AuthMiddleware)
	supplierAPI.GET("", handler.ListSuppliers)
	supplierAPI.GET("/:id", handler.GetSupplier)
	supplierAPI.POST("", handler.CreateSupplier)
	supplierAPI.PUT("/:id", handler.UpdateSupplier)
	supplierAPI.DELETE("/:id", handler.DeleteSupplier)
	supplierAPI.POST("/bulk-delete", handler.BulkDeleteSuppliers)

	// Brand API routes
	brandAPI := e.Group("/api/brands", mid.AuthMiddleware)
	brandAPI.GET("", handler.ListBrands)
	brandAPI.GET("/:id", handler.GetBrand)
	brandAPI.POST("", handler.CreateBrand)
	brandAPI.PUT("/:id", handler.UpdateBrand)
	brandAPI.DELETE("/:id", handler.DeleteBrand)

	// Category API routes
	categoryAPI := e.Group("/api/categories", mid.AuthMiddleware)
	categoryAPI.GET("", handler.ListCategories)
	categoryAPI.GET("/:id", handler.GetCategory)
	categoryAPI.POST("", handler.CreateCategory)
	categoryAPI.PUT("/:id", handler.UpdateCategory)
	categoryAPI.DELETE("/:id", handler.DeleteCategory)

	// Color API routes
	colorAPI := e.Group("/api/colors", mid.AuthMiddleware)
	colorAPI.GET("", handler.ListColors)
	colorAPI.POST("", handler.CreateColor)
	colorAPI.DELETE("/:id", handler.DeleteColor)

	// Keyword autocomplete
	keywordAPI := e.Group("/api/keyword", mid.AuthMiddleware)
	keywordAPI.GET("/search", handler.SearchKeywords)

	// Analytics dashboard
	analyticsAPI := e.Group("/api/analytics", mid.AuthMiddleware)
	analyticsAPI.GET("/core-metrics", handler.GetCoreMetrics)
	analyticsAPI.GET("/quality-score", handler.GetQualityScore)
	analyticsAPI.GET("/metafield-analysis", handler.GetMetafieldAnalysis)

	cacheAPI := e.Group("/api/cache", mid.AuthMiddleware)
	cacheAPI.POST("/warm", handler.WarmCache)
	cacheAPI.POST("/clear", handler.ClearCache)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
