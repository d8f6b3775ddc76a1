package handler

import (
	"net/http"

	"catalog-service/internal/model"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BrandRequest defines the structure for brand creation/update requests
type BrandRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ListBrands handles retrieving all brands
func ListBrands(c echo.Context) error {
	log := logger.FromContext(c)

	var brands []model.Brand
	if err := database.GetDB().Order("name").Find(&brands).Error; err != nil {
		log.Error("Failed to list brands", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve brands"})
	}
	return c.JSON(http.StatusOK, brands)
}

// GetBrand handles retrieving a single brand by ID
func GetBrand(c echo.Context) error {
	id := c.Param("id")

	var brand model.Brand
	if err := database.GetDB().First(&brand, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Brand not found"})
	}
	return c.JSON(http.StatusOK, brand)
}

// CreateBrand handles creating a new brand
func CreateBrand(c echo.Context) error {
	log := logger.FromContext(c)

	var req BrandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var count int64
	db.Model(&model.Brand{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Brand with this name already exists"})
	}

	brand := model.Brand{Name: req.Name, Description: req.Description}
	if err := db.Create(&brand).Error; err != nil {
		log.Error("Failed to create brand", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create brand"})
	}

	log.Info("Brand created successfully", zap.Uint("brand_id", brand.ID), zap.String("name", brand.Name))
	return c.JSON(http.StatusCreated, brand)
}

// UpdateBrand handles updating an existing brand
func UpdateBrand(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req BrandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var brand model.Brand
	if err := db.First(&brand, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Brand not found"})
	}

	if req.Name != brand.Name {
		var count int64
		db.Model(&model.Brand{}).Where("name = ? AND id <> ?", req.Name, brand.ID).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Brand with this name already exists"})
		}
	}

	brand.Name = req.Name
	brand.Description = req.Description
	if err := db.Save(&brand).Error; err != nil {
		log.Error("Failed to update brand", zap.String("brand_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update brand"})
	}
	return c.JSON(http.StatusOK, brand)
}

// DeleteBrand removes a brand and detaches it from components
func DeleteBrand(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	db := database.GetDB()
	var brand model.Brand
	if err := db.First(&brand, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Brand not found"})
	}

	// Components keep existing without a brand.
	if err := db.Model(&model.Component{}).Where("brand_id = ?", brand.ID).
		Update("brand_id", nil).Error; err != nil {
		log.Error("Failed to detach brand from components", zap.String("brand_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete brand"})
	}
	if err := db.Delete(&brand).Error; err != nil {
		log.Error("Failed to delete brand", zap.String("brand_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete brand"})
	}

	log.Info("Brand deleted successfully", zap.Uint("brand_id", brand.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Brand deleted successfully"})
}
