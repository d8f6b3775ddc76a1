package handler

import (
	"net/http"
	"strings"
	"time"

	"catalog-service/internal/model"
	"catalog-service/pkg/database"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SupplierRequest defines the structure for supplier creation/update requests
type SupplierRequest struct {
	Name          string `json:"name" validate:"required"`
	SupplierCode  string `json:"supplier_code" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Country       string `json:"country"`
	Notes         string `json:"notes"`
	IsActive      bool   `json:"is_active"`
}

// BulkDeleteRequest carries the IDs for a bulk supplier delete
type BulkDeleteRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1"`
}

// SkippedSupplier explains why a supplier survived a bulk delete
type SkippedSupplier struct {
	ID     uint   `json:"id"`
	Reason string `json:"reason"`
}

// ListSuppliers handles retrieving all suppliers
func ListSuppliers(c echo.Context) error {
	log := logger.FromContext(c)

	db := database.GetDB().Model(&model.Supplier{})
	if isActive := c.QueryParam("is_active"); isActive != "" {
		db = db.Where("is_active = ?", isActive == "true")
	}
	if q := c.QueryParam("q"); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(supplier_code) LIKE ?", like, like)
	}

	var suppliers []model.Supplier
	if err := db.Order("name").Find(&suppliers).Error; err != nil {
		log.Error("Failed to list suppliers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve suppliers"})
	}

	log.Info("Suppliers retrieved successfully", zap.Int("count", len(suppliers)))
	return c.JSON(http.StatusOK, suppliers)
}

// GetSupplier handles retrieving a single supplier by ID
func GetSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var supplier model.Supplier
	if err := database.GetDB().First(&supplier, id).Error; err != nil {
		log.Warn("Supplier not found", zap.String("supplier_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	return c.JSON(http.StatusOK, supplier)
}

// CreateSupplier handles creating a new supplier
func CreateSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("create")

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	code := strings.ToUpper(req.SupplierCode)

	var count int64
	db.Model(&model.Supplier{}).Where("supplier_code = ?", code).Count(&count)
	if count > 0 {
		log.Warn("Supplier with this code already exists", zap.String("supplier_code", code))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Supplier with this code already exists"})
	}

	supplier := model.Supplier{
		Name:          req.Name,
		SupplierCode:  code,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Country:       req.Country,
		Notes:         req.Notes,
		IsActive:      req.IsActive,
	}

	defer prometheus.TrackDBOperation("supplier_create")(time.Now())
	if err := db.Create(&supplier).Error; err != nil {
		log.Error("Failed to create supplier", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create supplier"})
	}

	log.Info("Supplier created successfully",
		zap.Uint("supplier_id", supplier.ID),
		zap.String("supplier_code", supplier.SupplierCode))
	return c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier handles updating an existing supplier
func UpdateSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordSupplierOperation("update")

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var supplier model.Supplier
	if err := db.First(&supplier, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	code := strings.ToUpper(req.SupplierCode)
	if code != supplier.SupplierCode {
		var count int64
		db.Model(&model.Supplier{}).Where("supplier_code = ? AND id <> ?", code, supplier.ID).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Supplier with this code already exists"})
		}
	}

	supplier.Name = req.Name
	supplier.SupplierCode = code
	supplier.ContactPerson = req.ContactPerson
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.Country = req.Country
	supplier.Notes = req.Notes
	supplier.IsActive = req.IsActive

	if err := db.Save(&supplier).Error; err != nil {
		log.Error("Failed to update supplier", zap.String("supplier_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update supplier"})
	}

	log.Info("Supplier updated successfully", zap.Uint("supplier_id", supplier.ID))
	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier removes a supplier unless components still reference it
func DeleteSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordSupplierOperation("delete")

	db := database.GetDB()
	var supplier model.Supplier
	if err := db.First(&supplier, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	var inUse int64
	db.Model(&model.Component{}).Where("supplier_id = ?", supplier.ID).Count(&inUse)
	if inUse > 0 {
		log.Warn("Supplier still referenced by components",
			zap.Uint("supplier_id", supplier.ID),
			zap.Int64("components", inUse))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Supplier is still referenced by components"})
	}

	if err := db.Delete(&supplier).Error; err != nil {
		log.Error("Failed to delete supplier", zap.String("supplier_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete supplier"})
	}

	log.Info("Supplier deleted successfully", zap.Uint("supplier_id", supplier.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Supplier deleted successfully"})
}

// BulkDeleteSuppliers deletes the deletable suppliers from the given set and
// reports the ones skipped. A supplier still in use does not block deleting
// the rest.
func BulkDeleteSuppliers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("bulk_delete")

	var req BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()
	deleted := 0
	skipped := []SkippedSupplier{}

	for _, id := range req.IDs {
		var supplier model.Supplier
		if err := db.First(&supplier, id).Error; err != nil {
			skipped = append(skipped, SkippedSupplier{ID: id, Reason: "not found"})
			continue
		}

		var inUse int64
		db.Model(&model.Component{}).Where("supplier_id = ?", supplier.ID).Count(&inUse)
		if inUse > 0 {
			skipped = append(skipped, SkippedSupplier{ID: id, Reason: "referenced by components"})
			continue
		}

		if err := db.Delete(&supplier).Error; err != nil {
			log.Error("Failed to delete supplier in bulk",
				zap.Uint("supplier_id", id),
				zap.Error(err))
			skipped = append(skipped, SkippedSupplier{ID: id, Reason: "delete failed"})
			continue
		}
		deleted++
	}

	log.Info("Bulk supplier delete finished",
		zap.Int("deleted", deleted),
		zap.Int("skipped", len(skipped)))
	return c.JSON(http.StatusOK, echo.Map{
		"deleted": deleted,
		"skipped": skipped,
	})
}
