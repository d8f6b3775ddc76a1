// Package analytics computes the dashboard metrics: catalog core metrics,
// per-component quality scores and Shopify metafield coverage. Computed
// payloads are cached with a TTL and can be warmed or cleared explicitly.
package analytics

import (
	"sort"
	"time"

	"catalog-service/internal/model"
	"catalog-service/pkg/database"
	"catalog-service/pkg/shopify"
	"catalog-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// metafieldSampleCap bounds how many products get their metafields fetched,
// since each one is a separate Admin API round trip.
const metafieldSampleCap = 25

// worstComponentsCap bounds the per-component listing in the quality report.
const worstComponentsCap = 20

// Service computes and caches analytics payloads.
type Service struct {
	Shop          *shopify.Client
	Cache         *Cache
	Logger        *zap.Logger
	ProductSample int
}

// NewService wires the analytics service.
func NewService(shop *shopify.Client, cache *Cache, logger *zap.Logger, productSample int) *Service {
	return &Service{
		Shop:          shop,
		Cache:         cache,
		Logger:        logger,
		ProductSample: productSample,
	}
}

// Result wraps a metric payload with cache metadata for the API response.
type Result struct {
	Metric     string      `json:"metric"`
	Cached     bool        `json:"cached"`
	ComputedAt time.Time   `json:"computed_at"`
	Data       interface{} `json:"data"`
}

// CoreMetrics is the catalog-wide counting payload.
type CoreMetrics struct {
	Components       int64            `json:"components"`
	Variants         int64            `json:"variants"`
	Pictures         int64            `json:"pictures"`
	Suppliers        int64            `json:"suppliers"`
	Brands           int64            `json:"brands"`
	Categories       int64            `json:"categories"`
	Keywords         int64            `json:"keywords"`
	ApprovalPipeline map[string]int64 `json:"approval_pipeline"`
	ShopifyAvailable bool             `json:"shopify_available"`
	ShopifyProducts  int              `json:"shopify_products"`
}

// QualityReport summarizes data completeness across the catalog.
type QualityReport struct {
	ComponentCount   int              `json:"component_count"`
	AverageScore     float64          `json:"average_score"`
	Distribution     map[string]int   `json:"distribution"`
	WorstComponents  []ComponentScore `json:"worst_components"`
	ShopifyAvailable bool             `json:"shopify_available"`
	SyncedSKUs       int              `json:"synced_skus"`
	TotalSKUs        int              `json:"total_skus"`
}

// MetafieldCoverage is the per-key aggregation of the metafield analysis.
type MetafieldCoverage struct {
	Namespace   string  `json:"namespace"`
	Key         string  `json:"key"`
	Present     int     `json:"present"`
	Empty       int     `json:"empty"`
	CoveragePct float64 `json:"coverage_pct"`
}

// MetafieldAnalysis reports metafield coverage over a sample of store products.
type MetafieldAnalysis struct {
	ShopifyAvailable bool                `json:"shopify_available"`
	SampledProducts  int                 `json:"sampled_products"`
	Fields           []MetafieldCoverage `json:"fields"`
}

// Get returns the metric payload, serving from cache when fresh.
func (s *Service) Get(metric string) (*Result, error) {
	if entry, ok := s.Cache.Get(metric); ok {
		prometheus.RecordCacheHit(metric)
		return &Result{Metric: metric, Cached: true, ComputedAt: entry.ComputedAt, Data: entry.Payload}, nil
	}
	prometheus.RecordCacheMiss(metric)

	payload, err := s.compute(metric)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(metric, payload)
	return &Result{Metric: metric, Cached: false, ComputedAt: time.Now(), Data: payload}, nil
}

// Warm computes every metric into the cache and reports per-metric outcome.
// A failing metric does not stop the others.
func (s *Service) Warm() map[string]string {
	results := make(map[string]string, len(MetricNames))
	for _, metric := range MetricNames {
		payload, err := s.compute(metric)
		if err != nil {
			s.Logger.Error("Cache warm failed for metric",
				zap.String("metric", metric),
				zap.Error(err))
			results[metric] = "error: " + err.Error()
			continue
		}
		s.Cache.Set(metric, payload)
		results[metric] = "ok"
	}
	return results
}

// ClearCache drops all cached metrics.
func (s *Service) ClearCache() {
	s.Cache.Clear()
}

func (s *Service) compute(metric string) (interface{}, error) {
	switch metric {
	case MetricCoreMetrics:
		return s.computeCoreMetrics()
	case MetricQualityScore:
		return s.computeQualityReport()
	case MetricMetafieldAnalysis:
		return s.computeMetafieldAnalysis()
	default:
		return nil, &UnknownMetricError{Metric: metric}
	}
}

// UnknownMetricError is returned for metric names outside MetricNames.
type UnknownMetricError struct {
	Metric string
}

func (e *UnknownMetricError) Error() string {
	return "unknown analytics metric: " + e.Metric
}

func (s *Service) computeCoreMetrics() (*CoreMetrics, error) {
	db := database.GetDB()
	defer prometheus.TrackDBOperation("analytics_core_metrics")(time.Now())

	m := &CoreMetrics{ApprovalPipeline: make(map[string]int64)}

	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&model.Component{}, &m.Components},
		{&model.Variant{}, &m.Variants},
		{&model.Picture{}, &m.Pictures},
		{&model.Supplier{}, &m.Suppliers},
		{&model.Brand{}, &m.Brands},
		{&model.Category{}, &m.Categories},
		{&model.Keyword{}, &m.Keywords},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	if err := s.countApprovalPipeline(db, m.ApprovalPipeline); err != nil {
		return nil, err
	}

	// Shopify counts are best effort: the dashboard still renders the
	// catalog numbers when the store is unreachable.
	if s.Shop.Configured() {
		count, err := s.Shop.CountProducts()
		if err != nil {
			s.Logger.Warn("Shopify product count unavailable", zap.Error(err))
		} else {
			m.ShopifyAvailable = true
			m.ShopifyProducts = count
		}
	}

	return m, nil
}

// countApprovalPipeline buckets components by the furthest checkpoint they
// have passed.
func (s *Service) countApprovalPipeline(db *gorm.DB, pipeline map[string]int64) error {
	type row struct {
		ProtoStatus string
		SMSStatus   string
		PPSStatus   string
	}
	var rows []row
	if err := db.Model(&model.Component{}).
		Select("proto_status", "sms_status", "pps_status").
		Find(&rows).Error; err != nil {
		return err
	}

	for _, stage := range []string{"none", model.StageProto, model.StageSMS, model.StagePPS} {
		pipeline[stage] = 0
	}
	for _, r := range rows {
		c := model.Component{ProtoStatus: r.ProtoStatus, SMSStatus: r.SMSStatus, PPSStatus: r.PPSStatus}
		pipeline[c.ApprovalStage()]++
	}
	return nil
}

func (s *Service) computeQualityReport() (*QualityReport, error) {
	db := database.GetDB()
	defer prometheus.TrackDBOperation("analytics_quality_score")(time.Now())

	var components []model.Component
	if err := db.
		Preload("Keywords").
		Preload("Variants").
		Preload("Variants.Pictures").
		Preload("Pictures").
		Find(&components).Error; err != nil {
		return nil, err
	}

	report := &QualityReport{
		ComponentCount: len(components),
		Distribution: map[string]int{
			BucketPoor: 0, BucketFair: 0, BucketGood: 0, BucketExcellent: 0,
		},
	}

	scores := make([]ComponentScore, 0, len(components))
	total := 0
	catalogSKUs := make(map[string]struct{})
	for i := range components {
		c := &components[i]
		score := ScoreComponent(c)
		total += score
		report.Distribution[Bucket(score)]++
		scores = append(scores, ComponentScore{
			ComponentID:   c.ID,
			ProductNumber: c.ProductNumber,
			Score:         score,
			Bucket:        Bucket(score),
		})
		for _, v := range c.Variants {
			catalogSKUs[v.SKU] = struct{}{}
		}
	}
	if len(components) > 0 {
		report.AverageScore = float64(total) / float64(len(components))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score < scores[j].Score
		}
		return scores[i].ProductNumber < scores[j].ProductNumber
	})
	if len(scores) > worstComponentsCap {
		scores = scores[:worstComponentsCap]
	}
	report.WorstComponents = scores
	report.TotalSKUs = len(catalogSKUs)

	// SKU sync coverage against the store, best effort.
	if s.Shop.Configured() && len(catalogSKUs) > 0 {
		products, err := s.Shop.ListProducts(s.ProductSample)
		if err != nil {
			s.Logger.Warn("Shopify products unavailable for quality report", zap.Error(err))
		} else {
			report.ShopifyAvailable = true
			storeSKUs := make(map[string]struct{})
			for _, p := range products {
				for _, v := range p.Variants {
					if v.SKU != "" {
						storeSKUs[v.SKU] = struct{}{}
					}
				}
			}
			for sku := range catalogSKUs {
				if _, ok := storeSKUs[sku]; ok {
					report.SyncedSKUs++
				}
			}
		}
	}

	return report, nil
}

func (s *Service) computeMetafieldAnalysis() (*MetafieldAnalysis, error) {
	analysis := &MetafieldAnalysis{Fields: []MetafieldCoverage{}}
	if !s.Shop.Configured() {
		return analysis, nil
	}

	products, err := s.Shop.ListProducts(s.ProductSample)
	if err != nil {
		return nil, err
	}
	if len(products) > metafieldSampleCap {
		products = products[:metafieldSampleCap]
	}
	analysis.ShopifyAvailable = true
	analysis.SampledProducts = len(products)
	if len(products) == 0 {
		return analysis, nil
	}

	type agg struct {
		present int
		empty   int
	}
	byKey := make(map[string]*agg)
	order := []string{}
	for _, p := range products {
		metafields, err := s.Shop.ListMetafields(p.ID)
		if err != nil {
			s.Logger.Warn("Skipping product with unreadable metafields",
				zap.Int64("product_id", p.ID),
				zap.Error(err))
			continue
		}
		for _, mf := range metafields {
			key := mf.Namespace + "." + mf.Key
			a, ok := byKey[key]
			if !ok {
				a = &agg{}
				byKey[key] = a
				order = append(order, key)
			}
			if mf.Value == "" {
				a.empty++
			} else {
				a.present++
			}
		}
	}

	sort.Strings(order)
	for _, key := range order {
		a := byKey[key]
		ns, k := splitMetafieldKey(key)
		analysis.Fields = append(analysis.Fields, MetafieldCoverage{
			Namespace:   ns,
			Key:         k,
			Present:     a.present,
			Empty:       a.empty,
			CoveragePct: 100 * float64(a.present) / float64(len(products)),
		})
	}
	return analysis, nil
}

func splitMetafieldKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:]
		}
	}
	return "", key
}
