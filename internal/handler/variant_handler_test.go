package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"catalog-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantLifecycle(t *testing.T) {
	db := setupTestDB(t)
	e := newTestRouter()

	supplier := createTestSupplier(t, db, "Acme", "ACME")
	component := createTestComponent(t, db, supplier.ID, "CMP-0042", "Zip Hoodie")
	green := createTestColor(t, db, "Forest Green", "#228B22")
	navy := createTestColor(t, db, "Navy Blue", "#000080")

	var variantID uint

	t.Run("Create", func(t *testing.T) {
		body := fmt.Sprintf(`{"color_id":%d,"is_active":true}`, green.ID)
		rec := doRequest(e, http.MethodPost, fmt.Sprintf("/api/components/%d/variants", component.ID), body)
		assertStatus(t, rec, http.StatusCreated)

		var variant model.Variant
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &variant))
		assert.Equal(t, "ACME-CMP0042-FORESTGREEN", variant.SKU)
		assert.True(t, variant.IsActive)
		variantID = variant.ID
	})

	t.Run("CreateSameColorConflicts", func(t *testing.T) {
		body := fmt.Sprintf(`{"color_id":%d}`, green.ID)
		rec := doRequest(e, http.MethodPost, fmt.Sprintf("/api/components/%d/variants", component.ID), body)
		assertStatus(t, rec, http.StatusConflict)
	})

	t.Run("CreateUnknownColor", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, fmt.Sprintf("/api/components/%d/variants", component.ID), `{"color_id":9999}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("ColorChangeRegeneratesSKU", func(t *testing.T) {
		body := fmt.Sprintf(`{"color_id":%d,"is_active":true}`, navy.ID)
		rec := doRequest(e, http.MethodPut, fmt.Sprintf("/api/variants/%d", variantID), body)
		assertStatus(t, rec, http.StatusOK)

		var variant model.Variant
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &variant))
		assert.Equal(t, "ACME-CMP0042-NAVYBLUE", variant.SKU)
	})

	t.Run("List", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, fmt.Sprintf("/api/components/%d/variants", component.ID), "")
		assertStatus(t, rec, http.StatusOK)

		var resp ComponentVariantsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Variants, 1)
		require.NotNil(t, resp.Variants[0].Color)
		assert.Equal(t, "Navy Blue", resp.Variants[0].Color.Name)
		assert.Empty(t, resp.ComponentImages)
	})

	t.Run("Delete", func(t *testing.T) {
		rec := doRequest(e, http.MethodDelete, fmt.Sprintf("/api/variants/%d", variantID), "")
		assertStatus(t, rec, http.StatusOK)

		rec = doRequest(e, http.MethodDelete, fmt.Sprintf("/api/variants/%d", variantID), "")
		assertStatus(t, rec, http.StatusNotFound)
	})
}

func TestListComponentVariantsSplitsGalleries(t *testing.T) {
	db := setupTestDB(t)
	e := newTestRouter()

	supplier := createTestSupplier(t, db, "Acme", "ACME")
	component := createTestComponent(t, db, supplier.ID, "CMP-0050", "Beanie")
	color := createTestColor(t, db, "Black", "#000000")

	variant := model.Variant{ComponentID: component.ID, ColorID: color.ID, SKU: "ACME-CMP0050-BLACK"}
	require.NoError(t, db.Create(&variant).Error)

	gallery := model.Picture{ComponentID: component.ID, FileName: "gallery.jpg", URL: "/uploads/gallery.jpg", SortOrder: 1}
	primary := model.Picture{ComponentID: component.ID, FileName: "front.jpg", URL: "/uploads/front.jpg", IsPrimary: true, SortOrder: 2}
	variantPic := model.Picture{ComponentID: component.ID, VariantID: &variant.ID, FileName: "black.jpg", URL: "/uploads/black.jpg"}
	require.NoError(t, db.Create(&gallery).Error)
	require.NoError(t, db.Create(&primary).Error)
	require.NoError(t, db.Create(&variantPic).Error)

	rec := doRequest(e, http.MethodGet, fmt.Sprintf("/api/components/%d/variants", component.ID), "")
	assertStatus(t, rec, http.StatusOK)

	var resp ComponentVariantsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Variant pictures stay with their variant, the rest form the component
	// gallery with the primary image first.
	require.Len(t, resp.Variants, 1)
	require.Len(t, resp.Variants[0].Pictures, 1)
	assert.Equal(t, "black.jpg", resp.Variants[0].Pictures[0].FileName)

	require.Len(t, resp.ComponentImages, 2)
	assert.Equal(t, "front.jpg", resp.ComponentImages[0].FileName)
	assert.True(t, resp.ComponentImages[0].IsPrimary)
}
