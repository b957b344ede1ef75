package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

type AuthHandler struct {
	db        *gorm.DB
	log       *logrus.Logger
	jwtSecret string
}

func NewAuthHandler(db *gorm.DB, log *logrus.Logger, jwtSecret string) *AuthHandler {
	return &AuthHandler{db: db, log: log, jwtSecret: jwtSecret}
}

// Login verifies credentials and issues a 24h bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	h.log.WithField("user_id", user.ID).Info("User logged in")
	return c.JSON(http.StatusOK, LoginResponse{Token: signed, User: &user})
}

// RegisterUser creates a collector or admin account.
func (h *AuthHandler) RegisterUser(c echo.Context) error {
	var req RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		UserType:     req.Type,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	}

	h.log.WithFields(logrus.Fields{"user_id": user.ID, "type": user.UserType}).Info("User registered")
	return c.JSON(http.StatusCreated, user)
}
