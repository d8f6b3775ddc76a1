package handler

import (
	"net/http"

	"catalog-service/internal/analytics"
	"catalog-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var analyticsService *analytics.Service

// InitAnalytics wires the analytics service used by the dashboard endpoints.
func InitAnalytics(svc *analytics.Service) {
	analyticsService = svc
}

// GetCoreMetrics serves the catalog/store counting dashboard panel
func GetCoreMetrics(c echo.Context) error {
	return serveMetric(c, analytics.MetricCoreMetrics)
}

// GetQualityScore serves the data completeness dashboard panel
func GetQualityScore(c echo.Context) error {
	return serveMetric(c, analytics.MetricQualityScore)
}

// GetMetafieldAnalysis serves the Shopify metafield coverage panel
func GetMetafieldAnalysis(c echo.Context) error {
	return serveMetric(c, analytics.MetricMetafieldAnalysis)
}

func serveMetric(c echo.Context, metric string) error {
	log := logger.FromContext(c)

	result, err := analyticsService.Get(metric)
	if err != nil {
		log.Error("Failed to compute analytics metric",
			zap.String("metric", metric),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute " + metric})
	}

	log.Info("Analytics metric served",
		zap.String("metric", metric),
		zap.Bool("cached", result.Cached))
	return c.JSON(http.StatusOK, result)
}

// WarmCache recomputes every metric into the cache
func WarmCache(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Warming analytics cache")

	results := analyticsService.Warm()

	status := http.StatusOK
	for _, outcome := range results {
		if outcome != "ok" {
			status = http.StatusMultiStatus
			break
		}
	}
	return c.JSON(status, echo.Map{"results": results})
}

// ClearCache drops all cached metrics
func ClearCache(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Clearing analytics cache")

	analyticsService.ClearCache()
	return c.JSON(http.StatusOK, echo.Map{"message": "Analytics cache cleared"})
}
