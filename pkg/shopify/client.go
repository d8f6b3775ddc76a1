// Package shopify is a minimal Shopify Admin REST API client covering the
// resources the analytics dashboard reads: products and their metafields.
package shopify

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"catalog-service/pkg/config"
	"catalog-service/prometheus"

	"go.uber.org/zap"
)

// Client represents an authenticated Shopify Admin API client
type Client struct {
	StoreDomain string
	AccessToken string
	APIVersion  string
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// Product is the subset of the Shopify product resource the analytics
// module consumes.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Status      string    `json:"status"`
	Tags        string    `json:"tags"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
}

// Variant is a Shopify product variant.
type Variant struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	SKU   string `json:"sku"`
	Price string `json:"price"`
}

// Image is a Shopify product image.
type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

// Metafield is a Shopify metafield attached to a product.
type Metafield struct {
	ID        int64  `json:"id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

// ErrorResponse represents a Shopify API error payload
type ErrorResponse struct {
	Errors interface{} `json:"errors"`
}

// NewClient creates a new Shopify client from configuration.
func NewClient(cfg *config.ShopifyConfig, logger *zap.Logger) *Client {
	return &Client{
		StoreDomain: cfg.StoreDomain,
		AccessToken: cfg.AccessToken,
		APIVersion:  cfg.APIVersion,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		Logger:      logger,
	}
}

// Configured reports whether store credentials are present. The analytics
// endpoints degrade to DB-only payloads when they are not.
func (c *Client) Configured() bool {
	return c.StoreDomain != "" && c.AccessToken != ""
}

// CountProducts returns the total product count in the store.
func (c *Client) CountProducts() (int, error) {
	body, err := c.get("products", "/products/count.json", nil)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		c.Logger.Error("Failed to parse product count response", zap.Error(err))
		return 0, err
	}
	return resp.Count, nil
}

// ListProducts fetches up to limit products with the fields the analytics
// module needs. Shopify caps page size at 250.
func (c *Client) ListProducts(limit int) ([]Product, error) {
	if limit <= 0 || limit > 250 {
		limit = 250
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", "id,title,body_html,vendor,product_type,status,tags,variants,images")

	body, err := c.get("products", "/products.json", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		c.Logger.Error("Failed to parse products response", zap.Error(err))
		return nil, err
	}
	return resp.Products, nil
}

// ListMetafields fetches all metafields of a product.
func (c *Client) ListMetafields(productID int64) ([]Metafield, error) {
	path := fmt.Sprintf("/products/%d/metafields.json", productID)
	body, err := c.get("metafields", path, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Metafields []Metafield `json:"metafields"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		c.Logger.Error("Failed to parse metafields response", zap.Error(err))
		return nil, err
	}
	return resp.Metafields, nil
}

// get performs an authenticated GET against the Admin API and returns the
// raw response body.
func (c *Client) get(resource, path string, params url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("https://%s/admin/api/%s%s", c.StoreDomain, c.APIVersion, path)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	c.Logger.Info("Making Shopify API call",
		zap.String("resource", resource),
		zap.String("path", path))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		c.Logger.Error("Failed to create Shopify request", zap.Error(err))
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	prometheus.ShopifyRequestDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	if err != nil {
		prometheus.ShopifyErrorsCounter.Inc()
		c.Logger.Error("Shopify request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Logger.Error("Failed to read Shopify response", zap.Error(err))
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		prometheus.ShopifyErrorsCounter.Inc()
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			c.Logger.Error("Shopify request returned error status",
				zap.Int("status_code", resp.StatusCode),
				zap.String("response", string(body)))
			return nil, fmt.Errorf("shopify request failed: %d %s", resp.StatusCode, string(body))
		}
		c.Logger.Error("Shopify API error",
			zap.Int("status_code", resp.StatusCode),
			zap.Any("errors", errorResp.Errors))
		return nil, fmt.Errorf("shopify request failed: %d %v", resp.StatusCode, errorResp.Errors)
	}

	c.Logger.Info("Shopify API call successful",
		zap.String("resource", resource),
		zap.Int("status", resp.StatusCode))
	return body, nil
}
