package handler

import (
	"net/http"

	"catalog-service/internal/model"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ColorRequest defines the structure for color creation requests
type ColorRequest struct {
	Name    string `json:"name" validate:"required"`
	HexCode string `json:"hex_code" validate:"omitempty,hexcolor"`
}

// ListColors handles retrieving all colors
func ListColors(c echo.Context) error {
	log := logger.FromContext(c)

	var colors []model.Color
	if err := database.GetDB().Order("name").Find(&colors).Error; err != nil {
		log.Error("Failed to list colors", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve colors"})
	}
	return c.JSON(http.StatusOK, colors)
}

// CreateColor handles creating a new color
func CreateColor(c echo.Context) error {
	log := logger.FromContext(c)

	var req ColorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var count int64
	db.Model(&model.Color{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Color with this name already exists"})
	}

	color := model.Color{Name: req.Name, HexCode: req.HexCode}
	if err := db.Create(&color).Error; err != nil {
		log.Error("Failed to create color", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create color"})
	}

	log.Info("Color created successfully", zap.Uint("color_id", color.ID), zap.String("name", color.Name))
	return c.JSON(http.StatusCreated, color)
}

// DeleteColor removes a color unless variants still use it
func DeleteColor(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	db := database.GetDB()
	var color model.Color
	if err := db.First(&color, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Color not found"})
	}

	var inUse int64
	db.Model(&model.Variant{}).Where("color_id = ?", color.ID).Count(&inUse)
	if inUse > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Color is still used by variants"})
	}

	if err := db.Delete(&color).Error; err != nil {
		log.Error("Failed to delete color", zap.String("color_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete color"})
	}

	log.Info("Color deleted successfully", zap.Uint("color_id", color.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Color deleted successfully"})
}
