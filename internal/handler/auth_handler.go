package handler

import (
	"errors"
	"net/http"

	"catalog-service/internal/model"
	"catalog-service/pkg/config"
	"catalog-service/pkg/database"
	"catalog-service/pkg/jwtutil"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the account it belongs to.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login authenticates an operator and issues a JWT.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var user model.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		prometheus.AuthErrorsCounter.Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Login attempt for unknown account", zap.String("email", req.Email))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		log.Error("Failed to look up user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to authenticate"})
	}

	if !user.CheckPassword(req.Password) {
		prometheus.AuthErrorsCounter.Inc()
		log.Warn("Login attempt with wrong password", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		prometheus.AuthErrorsCounter.Inc()
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate token"})
	}

	log.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email))
	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// EnsureAdminUser creates the seed admin account if no user exists yet.
func EnsureAdminUser(cfg *config.AdminConfig) error {
	db := database.GetDB()

	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := model.User{
		Email: cfg.Email,
		Name:  "Administrator",
		Role:  "admin",
	}
	if err := admin.SetPassword(cfg.Password); err != nil {
		return err
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("Seeded admin account", zap.String("email", admin.Email))
	return nil
}
