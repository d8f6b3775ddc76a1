package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"catalog-service/internal/model"
	"catalog-service/pkg/config"
	"catalog-service/pkg/database"
	"catalog-service/pkg/imageproc"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var uploads config.UploadsConfig

// InitPictures sets the upload directory configuration and ensures the
// directories exist.
func InitPictures(cfg *config.UploadsConfig) error {
	uploads = *cfg
	if err := os.MkdirAll(uploads.Dir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(uploads.Dir, "thumbs"), 0755)
}

// PictureUpdateRequest defines alt text / ordering updates
type PictureUpdateRequest struct {
	AltText   string `json:"alt_text"`
	SortOrder int    `json:"sort_order"`
}

// UploadComponentPicture adds a picture to the component-level gallery
func UploadComponentPicture(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var component model.Component
	if err := database.GetDB().First(&component, id).Error; err != nil {
		log.Warn("Component not found for picture upload", zap.String("component_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Component not found"})
	}

	return savePicture(c, component.ID, nil)
}

// UploadVariantPicture adds a picture to a variant's gallery
func UploadVariantPicture(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var variant model.Variant
	if err := database.GetDB().First(&variant, id).Error; err != nil {
		log.Warn("Variant not found for picture upload", zap.String("variant_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Variant not found"})
	}

	return savePicture(c, variant.ComponentID, &variant.ID)
}

// savePicture stores the uploaded file and its thumbnail and records the
// picture row. The first picture in a gallery becomes primary.
func savePicture(c echo.Context, componentID uint, variantID *uint) error {
	log := logger.FromContext(c)
	prometheus.RecordPictureOperation("upload")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warn("Missing file in picture upload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	if uploads.MaxFileSize > 0 && fileHeader.Size > uploads.MaxFileSize {
		log.Warn("Picture upload too large", zap.Int64("size", fileHeader.Size))
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to read upload"})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to read upload"})
	}

	info, err := imageproc.Decode(data)
	if err != nil {
		log.Warn("Rejected non-image upload", zap.String("filename", fileHeader.Filename), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is not a supported image"})
	}

	thumb, err := imageproc.Thumbnail(data)
	if err != nil {
		log.Error("Thumbnail generation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to process image"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = "." + info.Format
	}
	name := uuid.New().String()
	fileName := name + ext
	thumbName := name + ".jpg"

	if err := os.WriteFile(filepath.Join(uploads.Dir, fileName), data, 0644); err != nil {
		log.Error("Failed to store picture file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store image"})
	}
	if err := os.WriteFile(filepath.Join(uploads.Dir, "thumbs", thumbName), thumb, 0644); err != nil {
		log.Error("Failed to store thumbnail file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store image"})
	}

	db := database.GetDB()

	// First picture in the gallery becomes primary.
	var siblings int64
	galleryQuery := db.Model(&model.Picture{}).Where("component_id = ?", componentID)
	if variantID == nil {
		galleryQuery = galleryQuery.Where("variant_id IS NULL")
	} else {
		galleryQuery = galleryQuery.Where("variant_id = ?", *variantID)
	}
	galleryQuery.Count(&siblings)

	picture := model.Picture{
		ComponentID:  componentID,
		VariantID:    variantID,
		FileName:     fileName,
		URL:          "/uploads/" + fileName,
		ThumbnailURL: "/uploads/thumbs/" + thumbName,
		AltText:      c.FormValue("alt_text"),
		IsPrimary:    siblings == 0,
		SortOrder:    int(siblings),
		Width:        info.Width,
		Height:       info.Height,
		FileSize:     fileHeader.Size,
	}
	if err := db.Create(&picture).Error; err != nil {
		log.Error("Failed to record picture", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store image"})
	}

	log.Info("Picture uploaded successfully",
		zap.Uint("picture_id", picture.ID),
		zap.Uint("component_id", componentID),
		zap.Bool("is_primary", picture.IsPrimary),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height))
	return c.JSON(http.StatusCreated, picture)
}

// SetPrimaryPicture marks a picture as the primary of its gallery and clears
// the flag on its siblings.
func SetPrimaryPicture(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordPictureOperation("set_primary")

	db := database.GetDB()
	var picture model.Picture
	if err := db.First(&picture, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Picture not found"})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		siblings := tx.Model(&model.Picture{}).Where("component_id = ?", picture.ComponentID)
		if picture.VariantID == nil {
			siblings = siblings.Where("variant_id IS NULL")
		} else {
			siblings = siblings.Where("variant_id = ?", *picture.VariantID)
		}
		if err := siblings.Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&picture).Update("is_primary", true).Error
	})
	if err != nil {
		log.Error("Failed to set primary picture", zap.String("picture_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to set primary picture"})
	}

	picture.IsPrimary = true
	log.Info("Primary picture updated", zap.Uint("picture_id", picture.ID))
	return c.JSON(http.StatusOK, picture)
}

// UpdatePicture changes a picture's alt text or sort order
func UpdatePicture(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordPictureOperation("update")

	var req PictureUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	db := database.GetDB()
	var picture model.Picture
	if err := db.First(&picture, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Picture not found"})
	}

	picture.AltText = req.AltText
	picture.SortOrder = req.SortOrder
	if err := db.Save(&picture).Error; err != nil {
		log.Error("Failed to update picture", zap.String("picture_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update picture"})
	}

	return c.JSON(http.StatusOK, picture)
}

// DeletePicture removes the picture row and its files
func DeletePicture(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	prometheus.RecordPictureOperation("delete")

	db := database.GetDB()
	var picture model.Picture
	if err := db.First(&picture, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Picture not found"})
	}

	if err := db.Delete(&picture).Error; err != nil {
		log.Error("Failed to delete picture", zap.String("picture_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete picture"})
	}

	// File removal is best effort; a missing file is not an API error.
	if picture.FileName != "" {
		if err := os.Remove(filepath.Join(uploads.Dir, picture.FileName)); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to remove picture file", zap.String("file", picture.FileName), zap.Error(err))
		}
		thumb := strings.TrimSuffix(picture.FileName, filepath.Ext(picture.FileName)) + ".jpg"
		if err := os.Remove(filepath.Join(uploads.Dir, "thumbs", thumb)); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to remove thumbnail file", zap.String("file", thumb), zap.Error(err))
		}
	}

	log.Info("Picture deleted successfully", zap.Uint("picture_id", picture.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Picture deleted successfully"})
}
