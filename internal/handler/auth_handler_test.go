package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-service/internal/model"
	"catalog-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doLogin(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	e := newTestRouter()

	user := model.User{Email: "editor@example.com", Name: "Editor", Role: "editor"}
	require.NoError(t, user.SetPassword("s3cret"))
	require.NoError(t, db.Create(&user).Error)

	t.Run("Success", func(t *testing.T) {
		rec := doLogin(e, `{"email":"editor@example.com","password":"s3cret"}`)
		assertStatus(t, rec, http.StatusOK)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "editor@example.com", resp.User.Email)
		assert.NotContains(t, rec.Body.String(), "password_hash")
	})

	t.Run("WrongPassword", func(t *testing.T) {
		rec := doLogin(e, `{"email":"editor@example.com","password":"wrong"}`)
		assertStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		rec := doLogin(e, `{"email":"nobody@example.com","password":"s3cret"}`)
		assertStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("MissingFields", func(t *testing.T) {
		rec := doLogin(e, `{"email":"editor@example.com"}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	setupTestDB(t)
	e := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/components", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEnsureAdminUser(t *testing.T) {
	db := setupTestDB(t)

	cfg := &config.AdminConfig{Email: "admin@example.com", Password: "changeme"}
	require.NoError(t, EnsureAdminUser(cfg))

	var admin model.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.Equal(t, "admin", admin.Role)
	assert.True(t, admin.CheckPassword("changeme"))

	// A second run does not create another account.
	require.NoError(t, EnsureAdminUser(cfg))
	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
