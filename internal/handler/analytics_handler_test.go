package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"catalog-service/internal/analytics"
	"catalog-service/internal/model"
	"catalog-service/pkg/config"
	"catalog-service/pkg/shopify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupAnalytics installs a fresh analytics service without Shopify access.
func setupAnalytics(ttl time.Duration) {
	shop := shopify.NewClient(&config.ShopifyConfig{}, zap.NewNop())
	InitAnalytics(analytics.NewService(shop, analytics.NewCache(ttl), zap.NewNop(), 50))
}

func seedAnalyticsCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	supplier := createTestSupplier(t, db, "Acme", "ACME")

	approved := createTestComponent(t, db, supplier.ID, "CMP-0001", "Hoodie")
	approved.Description = "Heavy fleece hoodie"
	approved.ProtoStatus = model.StatusOK
	require.NoError(t, db.Save(approved).Error)

	createTestComponent(t, db, supplier.ID, "CMP-0002", "Parka")
}

func TestCoreMetricsEndpoint(t *testing.T) {
	db := setupTestDB(t)
	e := newTestRouter()
	setupAnalytics(time.Minute)
	seedAnalyticsCatalog(t, db)

	rec := doRequest(e, http.MethodGet, "/api/analytics/core-metrics", "")
	assertStatus(t, rec, http.StatusOK)

	var result struct {
		Metric string                 `json:"metric"`
		Cached bool                   `json:"cached"`
		Data   map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, "core-metrics", result.Metric)
	assert.False(t, result.Cached)
	assert.Equal(t, float64(2), result.Data["components"])
	assert.Equal(t, float64(1), result.Data["suppliers"])
	assert.Equal(t, false, result.Data["shopify_available"])

	pipeline := result.Data["approval_pipeline"].(map[string]interface{})
	assert.Equal(t, float64(1), pipeline["none"])
	assert.Equal(t, float64(1), pipeline["proto"])

	// Second call is served from cache.
	rec = doRequest(e, http.MethodGet, "/api/analytics/core-metrics", "")
	assertStatus(t, rec, http.StatusOK)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Cached)
}

func TestQualityScoreEndpoint(t *testing.T) {
	db := setupTestDB(t)
	e := newTestRouter()
	setupAnalytics(time.Minute)
	seedAnalyticsCatalog(t, db)

	rec := doRequest(e, http.MethodGet, "/api/analytics/quality-score", "")
	assertStatus(t, rec, http.StatusOK)

	var result struct {
		Data analytics.QualityReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, 2, result.Data.ComponentCount)
	assert.Greater(t, result.Data.AverageScore, 0.0)
	require.Len(t, result.Data.WorstComponents, 2)
	// The bare component scores below the described, approved one.
	assert.Equal(t, "CMP-0002", result.Data.WorstComponents[0].ProductNumber)
}

func TestMetafieldAnalysisWithoutShopify(t *testing.T) {
	setupTestDB(t)
	e := newTestRouter()
	setupAnalytics(time.Minute)

	rec := doRequest(e, http.MethodGet, "/api/analytics/metafield-analysis", "")
	assertStatus(t, rec, http.StatusOK)

	var result struct {
		Data analytics.MetafieldAnalysis `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Data.ShopifyAvailable)
	assert.Empty(t, result.Data.Fields)
}

func TestCacheWarmAndClear(t *testing.T) {
	db := setupTestDB(t)
	e := newTestRouter()
	setupAnalytics(time.Minute)
	seedAnalyticsCatalog(t, db)

	t.Run("Warm", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/cache/warm", "")
		assertStatus(t, rec, http.StatusOK)

		var resp struct {
			Results map[string]string `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Results, len(analytics.MetricNames))
		for _, metric := range analytics.MetricNames {
			assert.Equal(t, "ok", resp.Results[metric])
		}
	})

	t.Run("WarmedMetricsServeFromCache", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/analytics/quality-score", "")
		assertStatus(t, rec, http.StatusOK)

		var result struct {
			Cached bool `json:"cached"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Cached)
	})

	t.Run("Clear", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/cache/clear", "")
		assertStatus(t, rec, http.StatusOK)

		rec = doRequest(e, http.MethodGet, "/api/analytics/quality-score", "")
		assertStatus(t, rec, http.StatusOK)

		var result struct {
			Cached bool `json:"cached"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Cached)
	})
}
