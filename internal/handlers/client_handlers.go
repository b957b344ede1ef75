package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// ListClients returns all borrowers.
func (h *ClientHandler) ListClients(c echo.Context) error {
	var clients []models.Client
	if err := h.db.Order("name ASC").Find(&clients).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// GetClient returns one borrower with their credits.
func (h *ClientHandler) GetClient(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	var client models.Client
	if err := h.db.Preload("Credits").First(&client, id).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// CreateClient registers a borrower.
func (h *ClientHandler) CreateClient(c echo.Context) error {
	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client := models.Client{
		Name:     req.Name,
		Document: req.Document,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := h.db.Create(&client).Error; err != nil {
		return echo.NewHTTPError(http.StatusConflict, "document already registered")
	}
	return c.JSON(http.StatusCreated, client)
}

// UpdateClient edits a borrower's contact details.
func (h *ClientHandler) UpdateClient(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	var client models.Client
	if err := h.db.First(&client, id).Error; err != nil {
		return err
	}

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client.Name = req.Name
	client.Document = req.Document
	client.Phone = req.Phone
	client.Address = req.Address
	if err := h.db.Save(&client).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}
