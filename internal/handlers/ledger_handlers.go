package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/services"
)

// LedgerHandler covers the append/delete operations on a credit's
// ledger entries: abonos, multas, abonos de multa and discounts. Every
// mutation returns the freshly recomputed credit view.
type LedgerHandler struct {
	svc *services.CreditService
}

func NewLedgerHandler(svc *services.CreditService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// AddPayment records an abono against the credit.
func (h *LedgerHandler) AddPayment(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	credit, err := h.svc.AddPayment(c.Request().Context(), id, services.PaymentInput{
		Amount:            req.Amount,
		Description:       req.Description,
		Date:              date,
		TargetInstallment: req.TargetInstallment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.svc.Detail(credit))
}

// DeletePayment tombstones an abono.
func (h *LedgerHandler) DeletePayment(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	paymentID, err := paramUint(c, "paymentID")
	if err != nil {
		return err
	}
	credit, err := h.svc.DeletePayment(c.Request().Context(), id, paymentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.svc.Detail(credit))
}

// AddFine records a multa.
func (h *LedgerHandler) AddFine(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	var req FineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	credit, err := h.svc.AddFine(c.Request().Context(), id, services.FineInput{
		Amount: req.Amount,
		Reason: req.Reason,
		Date:   date,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.svc.Detail(credit))
}

// DeleteFine tombstones a multa and its abonos.
func (h *LedgerHandler) DeleteFine(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	fineID, err := paramUint(c, "fineID")
	if err != nil {
		return err
	}
	credit, err := h.svc.DeleteFine(c.Request().Context(), id, fineID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.svc.Detail(credit))
}

// AddFinePayment records an abono against one multa.
func (h *LedgerHandler) AddFinePayment(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	fineID, err := paramUint(c, "fineID")
	if err != nil {
		return err
	}
	var req FinePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	credit, err := h.svc.AddFinePayment(c.Request().Context(), id, fineID, services.FinePaymentInput{
		Amount: req.Amount,
		Date:   date,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.svc.Detail(credit))
}

// DeleteFinePayment tombstones an abono de multa.
func (h *LedgerHandler) DeleteFinePayment(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	finePaymentID, err := paramUint(c, "finePaymentID")
	if err != nil {
		return err
	}
	credit, err := h.svc.DeleteFinePayment(c.Request().Context(), id, finePaymentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.svc.Detail(credit))
}

// AddDiscount records a dias or papeleria discount.
func (h *LedgerHandler) AddDiscount(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	var req DiscountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	credit, err := h.svc.AddDiscount(c.Request().Context(), id, services.DiscountInput{
		Amount:      req.Amount,
		Kind:        req.Kind,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.svc.Detail(credit))
}

// DeleteDiscount tombstones a discount.
func (h *LedgerHandler) DeleteDiscount(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	discountID, err := paramUint(c, "discountID")
	if err != nil {
		return err
	}
	credit, err := h.svc.DeleteDiscount(c.Request().Context(), id, discountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.svc.Detail(credit))
}
