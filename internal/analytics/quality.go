package analytics

import (
	"catalog-service/internal/model"
)

// Quality buckets.
const (
	BucketPoor      = "poor"
	BucketFair      = "fair"
	BucketGood      = "good"
	BucketExcellent = "excellent"
)

// ComponentScore is the data-completeness score of one component.
type ComponentScore struct {
	ComponentID   uint   `json:"component_id"`
	ProductNumber string `json:"product_number"`
	Score         int    `json:"score"`
	Bucket        string `json:"bucket"`
}

// ScoreComponent rates how complete a component record is on a 0-100 scale.
// Weights: description 20, pictures 20, keywords 15, brand 10, category 10,
// variants 15, approval progress 10.
func ScoreComponent(c *model.Component) int {
	score := 0

	if c.Description != "" {
		score += 20
	}

	pictures := len(c.Pictures)
	for _, v := range c.Variants {
		pictures += len(v.Pictures)
	}
	switch {
	case pictures >= 3:
		score += 20
	case pictures >= 1:
		score += 10
	}

	switch {
	case len(c.Keywords) >= 3:
		score += 15
	case len(c.Keywords) >= 1:
		score += 7
	}

	if c.BrandID != nil {
		score += 10
	}
	if c.CategoryID != nil {
		score += 10
	}
	if len(c.Variants) >= 1 {
		score += 15
	}

	switch c.ApprovalStage() {
	case model.StagePPS:
		score += 10
	case model.StageSMS:
		score += 7
	case model.StageProto:
		score += 4
	}

	return score
}

// Bucket maps a score to its quality bucket.
func Bucket(score int) string {
	switch {
	case score >= 90:
		return BucketExcellent
	case score >= 70:
		return BucketGood
	case score >= 40:
		return BucketFair
	default:
		return BucketPoor
	}
}
