package handler

import (
	"net/http"
	"strconv"

	"catalog-service/internal/keyword"
	"catalog-service/internal/model"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// KeywordSearchResponse is the autocomplete payload
type KeywordSearchResponse struct {
	Keywords   []keyword.Match `json:"keywords"`
	ExactMatch bool            `json:"exact_match"`
}

// AttachKeywordsRequest carries keyword names to attach to a component
type AttachKeywordsRequest struct {
	Keywords []string `json:"keywords" validate:"required,min=1"`
}

// SearchKeywords serves the autocomplete dropdown
func SearchKeywords(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.KeywordSearchCounter.Inc()

	q := keyword.Normalize(c.QueryParam("q"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	if q == "" {
		return c.JSON(http.StatusOK, KeywordSearchResponse{Keywords: []keyword.Match{}})
	}

	// Names are stored lowercase, so a lowercase LIKE is case-insensitive.
	var candidates []model.Keyword
	if err := database.GetDB().
		Where("name LIKE ?", "%"+q+"%").
		Order("usage_count DESC").
		Find(&candidates).Error; err != nil {
		log.Error("Keyword search failed", zap.String("q", q), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Keyword search failed"})
	}

	matches, exact := keyword.Rank(candidates, q, limit)
	log.Info("Keyword search completed",
		zap.String("q", q),
		zap.Int("matches", len(matches)),
		zap.Bool("exact_match", exact))
	return c.JSON(http.StatusOK, KeywordSearchResponse{Keywords: matches, ExactMatch: exact})
}

// AttachKeywords attaches keywords to a component, creating missing ones and
// bumping usage counts.
func AttachKeywords(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req AttachKeywordsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var component model.Component
	if err := db.Preload("Keywords").First(&component, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Component not found"})
	}

	attached := make(map[string]bool, len(component.Keywords))
	for _, kw := range component.Keywords {
		attached[kw.Name] = true
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, raw := range req.Keywords {
			name := keyword.Normalize(raw)
			if name == "" || attached[name] {
				continue
			}

			var kw model.Keyword
			if err := tx.Where("name = ?", name).First(&kw).Error; err != nil {
				kw = model.Keyword{Name: name}
				if err := tx.Create(&kw).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(&component).Association("Keywords").Append(&kw); err != nil {
				return err
			}
			if err := tx.Model(&model.Keyword{}).Where("id = ?", kw.ID).
				Update("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
				return err
			}
			attached[name] = true
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to attach keywords", zap.String("component_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to attach keywords"})
	}

	var keywords []model.Keyword
	if err := db.Model(&component).Association("Keywords").Find(&keywords); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load keywords"})
	}

	log.Info("Keywords attached", zap.Uint("component_id", component.ID), zap.Int("count", len(keywords)))
	return c.JSON(http.StatusOK, echo.Map{"keywords": keywords})
}

// DetachKeyword removes a keyword from a component and decrements its usage
func DetachKeyword(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	keywordID := c.Param("keywordID")

	db := database.GetDB()
	var component model.Component
	if err := db.First(&component, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Component not found"})
	}

	var kw model.Keyword
	if err := db.First(&kw, keywordID).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Keyword not found"})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&component).Association("Keywords").Delete(&kw); err != nil {
			return err
		}
		return tx.Model(&model.Keyword{}).
			Where("id = ? AND usage_count > 0", kw.ID).
			Update("usage_count", gorm.Expr("usage_count - 1")).Error
	})
	if err != nil {
		log.Error("Failed to detach keyword",
			zap.String("component_id", id),
			zap.String("keyword_id", keywordID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to detach keyword"})
	}

	log.Info("Keyword detached",
		zap.Uint("component_id", component.ID),
		zap.Uint("keyword_id", kw.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Keyword detached successfully"})
}
