package handler

import (
	"net/http"
	"sort"
	"time"

	"catalog-service/internal/model"
	"catalog-service/internal/sku"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// VariantRequest defines the structure for variant creation/update requests
type VariantRequest struct {
	ColorID  uint `json:"color_id" validate:"required"`
	IsActive bool `json:"is_active"`
}

// ComponentVariantsResponse is the payload the detail page loads: the color
// variants plus the component-level gallery images.
type ComponentVariantsResponse struct {
	Variants        []model.Variant `json:"variants"`
	ComponentImages []model.Picture `json:"component_images"`
}

// ListComponentVariants returns a component's variants and gallery pictures
func ListComponentVariants(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	db := database.GetDB()
	var component model.Component
	if err := db.First(&component, id).Error; err != nil {
		log.Warn("Component not found", zap.String("component_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Component not found"})
	}

	var variants []model.Variant
	if err := db.
		Preload("Color").
		Preload("Pictures").
		Where("component_id = ?", component.ID).
		Order("id").
		Find(&variants).Error; err != nil {
		log.Error("Failed to list variants", zap.String("component_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve variants"})
	}
	if variants == nil {
		variants = []model.Variant{}
	}

	var images []model.Picture
	if err := db.
		Where("component_id = ? AND variant_id IS NULL", component.ID).
		Find(&images).Error; err != nil {
		log.Error("Failed to list component images", zap.String("component_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve component images"})
	}
	if images == nil {
		images = []model.Picture{}
	}
	// Primary first, then gallery order.
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].IsPrimary != images[j].IsPrimary {
			return images[i].IsPrimary
		}
		return images[i].SortOrder < images[j].SortOrder
	})

	return c.JSON(http.StatusOK, ComponentVariantsResponse{
		Variants:        variants,
		ComponentImages: images,
	})
}

// CreateVariant adds a color variant to a component with a generated SKU
func CreateVariant(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordVariantOperation("create")

	var req VariantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var component model.Component
	if err := db.Preload("Supplier").First(&component, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Component not found"})
	}

	var color model.Color
	if err := db.First(&color, req.ColorID).Error; err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Color not found"})
	}

	supplierCode := ""
	if component.Supplier != nil {
		supplierCode = component.Supplier.SupplierCode
	}
	generated := sku.Generate(supplierCode, component.ProductNumber, color.Name)

	var count int64
	db.Model(&model.Variant{}).Where("sku = ?", generated).Count(&count)
	if count > 0 {
		log.Warn("Variant with this SKU already exists", zap.String("sku", generated))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Variant with this SKU already exists"})
	}

	variant := model.Variant{
		ComponentID: component.ID,
		ColorID:     req.ColorID,
		SKU:         generated,
		IsActive:    req.IsActive,
	}

	defer prometheus.TrackDBOperation("variant_create")(time.Now())
	if err := db.Create(&variant).Error; err != nil {
		log.Error("Failed to create variant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create variant"})
	}
	variant.Color = &color

	log.Info("Variant created successfully",
		zap.Uint("variant_id", variant.ID),
		zap.Uint("component_id", component.ID),
		zap.String("sku", variant.SKU))
	return c.JSON(http.StatusCreated, variant)
}

// UpdateVariant changes a variant's color or active flag; a color change
// regenerates the SKU.
func UpdateVariant(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordVariantOperation("update")

	var req VariantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("variant_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var variant model.Variant
	if err := db.First(&variant, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Variant not found"})
	}

	if req.ColorID != variant.ColorID {
		var component model.Component
		if err := db.Preload("Supplier").First(&component, variant.ComponentID).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load component"})
		}
		var color model.Color
		if err := db.First(&color, req.ColorID).Error; err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Color not found"})
		}

		supplierCode := ""
		if component.Supplier != nil {
			supplierCode = component.Supplier.SupplierCode
		}
		generated := sku.Generate(supplierCode, component.ProductNumber, color.Name)

		var count int64
		db.Model(&model.Variant{}).Where("sku = ? AND id <> ?", generated, variant.ID).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Variant with this SKU already exists"})
		}

		oldSKU := variant.SKU
		variant.ColorID = req.ColorID
		variant.SKU = generated
		log.Info("Variant SKU regenerated",
			zap.String("variant_id", id),
			zap.String("old_sku", oldSKU),
			zap.String("new_sku", generated))
	}
	variant.IsActive = req.IsActive

	if err := db.Save(&variant).Error; err != nil {
		log.Error("Failed to update variant", zap.String("variant_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update variant"})
	}

	log.Info("Variant updated successfully", zap.Uint("variant_id", variant.ID))
	return c.JSON(http.StatusOK, variant)
}

// DeleteVariant soft deletes a variant
func DeleteVariant(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordVariantOperation("delete")

	result := database.GetDB().Delete(&model.Variant{}, id)
	if result.Error != nil {
		log.Error("Failed to delete variant", zap.String("variant_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete variant"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Variant not found"})
	}

	log.Info("Variant deleted successfully", zap.String("variant_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Variant deleted successfully"})
}
