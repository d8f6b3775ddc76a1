package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalog-service/internal/model"
	"catalog-service/internal/sku"
	"catalog-service/internal/workflow"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ComponentRequest defines the structure for component creation/update requests
type ComponentRequest struct {
	ProductNumber string `json:"product_number" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	ComponentType string `json:"component_type"`
	SupplierID    uint   `json:"supplier_id" validate:"required"`
	BrandID       *uint  `json:"brand_id"`
	CategoryID    *uint  `json:"category_id"`
}

// StatusRequest defines an approval stage transition request
type StatusRequest struct {
	Stage   string `json:"stage" validate:"required"`
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment"`
}

// ComponentListResponse is the paginated component listing payload
type ComponentListResponse struct {
	Components []model.Component `json:"components"`
	Total      int64             `json:"total"`
	Skip       int               `json:"skip"`
	Limit      int               `json:"limit"`
}

const defaultListLimit = 50

// ListComponents handles retrieving components with optional filtering and
// pagination.
func ListComponents(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()

	query := db.Model(&model.Component{})

	if q := c.QueryParam("q"); q != "" {
		// Lowering both sides keeps the match case-insensitive on Postgres,
		// whose LIKE is case-sensitive.
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(product_number) LIKE ? OR LOWER(name) LIKE ? OR LOWER(description) LIKE ?",
			like, like, like,
		)
		log.Info("Filtering components by text", zap.String("q", q))
	}
	if ct := c.QueryParam("component_type"); ct != "" {
		query = query.Where("component_type = ?", ct)
	}
	if supplierID := c.QueryParam("supplier_id"); supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if brandID := c.QueryParam("brand_id"); brandID != "" {
		query = query.Where("brand_id = ?", brandID)
	}
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	// Status filters on the furthest checkpoint passed.
	switch c.QueryParam("status") {
	case model.StagePPS:
		query = query.Where("pps_status = ?", model.StatusOK)
	case model.StageSMS:
		query = query.Where("sms_status = ? AND pps_status <> ?", model.StatusOK, model.StatusOK)
	case model.StageProto:
		query = query.Where("proto_status = ? AND sms_status <> ?", model.StatusOK, model.StatusOK)
	case "none":
		query = query.Where("proto_status <> ?", model.StatusOK)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("Failed to count components", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve components"})
	}

	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultListLimit
	}

	var components []model.Component
	result := query.
		Preload("Supplier").
		Preload("Brand").
		Preload("Category").
		Order("product_number").
		Offset(skip).
		Limit(limit).
		Find(&components)
	if result.Error != nil {
		log.Error("Failed to list components", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve components"})
	}

	log.Info("Components retrieved successfully", zap.Int("count", len(components)), zap.Int64("total", total))
	return c.JSON(http.StatusOK, ComponentListResponse{
		Components: components,
		Total:      total,
		Skip:       skip,
		Limit:      limit,
	})
}

// GetComponent handles retrieving a single component with its relations
func GetComponent(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var component model.Component
	result := database.GetDB().
		Preload("Supplier").
		Preload("Brand").
		Preload("Category").
		Preload("Keywords").
		Preload("Variants").
		Preload("Variants.Color").
		Preload("Variants.Pictures").
		Preload("Pictures").
		First(&component, id)
	if result.Error != nil {
		log.Warn("Component not found", zap.String("component_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Component not found"})
	}

	return c.JSON(http.StatusOK, component)
}

// CreateComponent handles creating a new component
func CreateComponent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordComponentOperation("create")

	var req ComponentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		log.Warn("Component validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()

	// The SKU prefix comes from the supplier, so it must exist.
	var supplier model.Supplier
	if err := db.First(&supplier, req.SupplierID).Error; err != nil {
		log.Warn("Supplier not found for component", zap.Uint("supplier_id", req.SupplierID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Supplier not found"})
	}

	var count int64
	db.Model(&model.Component{}).Where("product_number = ?", req.ProductNumber).Count(&count)
	if count > 0 {
		log.Warn("Component with this product number already exists",
			zap.String("product_number", req.ProductNumber))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Component with this product number already exists"})
	}

	component := model.Component{
		ProductNumber: req.ProductNumber,
		Name:          req.Name,
		Description:   req.Description,
		ComponentType: req.ComponentType,
		SupplierID:    req.SupplierID,
		BrandID:       req.BrandID,
		CategoryID:    req.CategoryID,
		ProtoStatus:   model.StatusPending,
		SMSStatus:     model.StatusPending,
		PPSStatus:     model.StatusPending,
	}

	defer prometheus.TrackDBOperation("component_create")(time.Now())
	if err := db.Create(&component).Error; err != nil {
		log.Error("Failed to create component",
			zap.String("product_number", req.ProductNumber),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create component"})
	}

	log.Info("Component created successfully",
		zap.Uint("component_id", component.ID),
		zap.String("product_number", component.ProductNumber))
	return c.JSON(http.StatusCreated, component)
}

// UpdateComponent handles updating an existing component
func UpdateComponent(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordComponentOperation("update")

	var req ComponentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("component_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var component model.Component
	if err := db.First(&component, id).Error; err != nil {
		log.Warn("Component not found for update", zap.String("component_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Component not found"})
	}

	if req.ProductNumber != component.ProductNumber {
		var count int64
		db.Model(&model.Component{}).
			Where("product_number = ? AND id <> ?", req.ProductNumber, component.ID).
			Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Component with this product number already exists"})
		}
	}

	if req.SupplierID != component.SupplierID {
		var supplier model.Supplier
		if err := db.First(&supplier, req.SupplierID).Error; err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Supplier not found"})
		}
	}

	component.ProductNumber = req.ProductNumber
	component.Name = req.Name
	component.Description = req.Description
	component.ComponentType = req.ComponentType
	component.SupplierID = req.SupplierID
	component.BrandID = req.BrandID
	component.CategoryID = req.CategoryID

	if err := db.Save(&component).Error; err != nil {
		log.Error("Failed to update component", zap.String("component_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update component"})
	}

	log.Info("Component updated successfully", zap.Uint("component_id", component.ID))
	return c.JSON(http.StatusOK, component)
}

// DeleteComponent soft deletes a component and its variants
func DeleteComponent(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordComponentOperation("delete")

	db := database.GetDB()
	var component model.Component
	if err := db.First(&component, id).Error; err != nil {
		log.Warn("Component not found for deletion", zap.String("component_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Component not found"})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("component_id = ?", component.ID).Delete(&model.Variant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&component).Error
	})
	if err != nil {
		log.Error("Failed to delete component", zap.String("component_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete component"})
	}

	log.Info("Component deleted successfully", zap.Uint("component_id", component.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Component deleted successfully"})
}

// DuplicateComponent creates a copy of a component with a fresh product
// number, copied keywords and variants (SKUs regenerated), and all approval
// stages reset. Pictures are not copied.
func DuplicateComponent(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordComponentOperation("duplicate")

	db := database.GetDB()
	var original model.Component
	if err := db.
		Preload("Supplier").
		Preload("Keywords").
		Preload("Variants").
		Preload("Variants.Color").
		First(&original, id).Error; err != nil {
		log.Warn("Component not found for duplication", zap.String("component_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Component not found"})
	}

	productNumber, err := nextCopyProductNumber(db, original.ProductNumber)
	if err != nil {
		log.Error("Failed to find free product number", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to duplicate component"})
	}

	duplicate := model.Component{
		ProductNumber: productNumber,
		Name:          original.Name,
		Description:   original.Description,
		ComponentType: original.ComponentType,
		SupplierID:    original.SupplierID,
		BrandID:       original.BrandID,
		CategoryID:    original.CategoryID,
	}
	workflow.Reset(&duplicate)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&duplicate).Error; err != nil {
			return err
		}

		if len(original.Keywords) > 0 {
			if err := tx.Model(&duplicate).Association("Keywords").Append(original.Keywords); err != nil {
				return err
			}
			for _, kw := range original.Keywords {
				if err := tx.Model(&model.Keyword{}).Where("id = ?", kw.ID).
					Update("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
					return err
				}
			}
		}

		supplierCode := ""
		if original.Supplier != nil {
			supplierCode = original.Supplier.SupplierCode
		}
		for _, v := range original.Variants {
			colorName := ""
			if v.Color != nil {
				colorName = v.Color.Name
			}
			variant := model.Variant{
				ComponentID: duplicate.ID,
				ColorID:     v.ColorID,
				SKU:         sku.Generate(supplierCode, productNumber, colorName),
				IsActive:    v.IsActive,
			}
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to duplicate component", zap.String("component_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to duplicate component"})
	}

	var created model.Component
	if err := db.
		Preload("Supplier").
		Preload("Keywords").
		Preload("Variants").
		Preload("Variants.Color").
		First(&created, duplicate.ID).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch duplicated component"})
	}

	log.Info("Component duplicated successfully",
		zap.Uint("source_id", original.ID),
		zap.Uint("component_id", created.ID),
		zap.String("product_number", created.ProductNumber))
	return c.JSON(http.StatusCreated, created)
}

// nextCopyProductNumber finds the first free "<orig>-COPY[n]" product number.
func nextCopyProductNumber(db *gorm.DB, original string) (string, error) {
	for i := 0; i < 100; i++ {
		candidate := original + "-COPY"
		if i > 0 {
			candidate = fmt.Sprintf("%s-COPY%d", original, i+1)
		}
		var count int64
		if err := db.Model(&model.Component{}).Where("product_number = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", errors.New("no free copy product number")
}

// UpdateComponentStatus applies an approval stage transition
func UpdateComponentStatus(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordComponentOperation("status_change")

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("component_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var component model.Component
	if err := db.First(&component, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Component not found"})
	}

	tr := workflow.Transition{Stage: req.Stage, Status: req.Status, Comment: req.Comment}
	if err := workflow.Apply(&component, tr, time.Now()); err != nil {
		if errors.Is(err, workflow.ErrStageLocked) {
			log.Warn("Approval sequence violation",
				zap.String("component_id", id),
				zap.String("stage", req.Stage),
				zap.String("status", req.Status))
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := db.Save(&component).Error; err != nil {
		log.Error("Failed to save status change", zap.String("component_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update status"})
	}

	log.Info("Component status updated",
		zap.Uint("component_id", component.ID),
		zap.String("stage", req.Stage),
		zap.String("status", req.Status))
	return c.JSON(http.StatusOK, component)
}
