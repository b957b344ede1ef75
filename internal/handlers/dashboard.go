package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/ledger"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/services"
)

// DashboardHandler serves the portfolio overview.
type DashboardHandler struct {
	svc *services.CreditService
}

func NewDashboardHandler(svc *services.CreditService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// DashboardStats aggregates the collection book at a glance.
type DashboardStats struct {
	Credits            int                         `json:"credits"`
	ByStatus           map[models.CreditStatus]int `json:"by_status"`
	OutstandingBalance int64                       `json:"outstanding_balance"`
	FinesOutstanding   int64                       `json:"fines_outstanding"`
	DueToday           int                         `json:"due_today"`
}

// Dashboard returns aggregate figures over all active credits.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	details, err := h.svc.ListCredits(c.Request().Context(), false)
	if err != nil {
		return err
	}

	today := time.Now()
	stats := DashboardStats{
		Credits:  len(details),
		ByStatus: make(map[models.CreditStatus]int),
	}
	for _, d := range details {
		stats.ByStatus[d.Status]++
		stats.OutstandingBalance += d.Summary.OutstandingBalance
		stats.FinesOutstanding += d.Summary.FinesOutstanding
		for _, inst := range d.Credit.Schedule {
			if !inst.Paid && ledger.SameDay(inst.DueDate, today) {
				stats.DueToday++
			}
		}
	}

	return c.JSON(http.StatusOK, stats)
}
