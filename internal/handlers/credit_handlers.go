package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/services"
)

// CreditHandler exposes credit lifecycle and ledger operations. All
// money math lives in the service layer; handlers only translate HTTP.
type CreditHandler struct {
	svc *services.CreditService
}

func NewCreditHandler(svc *services.CreditService) *CreditHandler {
	return &CreditHandler{svc: svc}
}

func paramUint(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(v), nil
}

// CreateCredit opens a new credit and generates its schedule.
func (h *CreditHandler) CreateCredit(c echo.Context) error {
	var req CreateCreditRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}

	credit, err := h.svc.CreateCredit(c.Request().Context(), services.CreateCreditInput{
		ClientID:         req.ClientID,
		Principal:        req.Principal,
		Frequency:        req.Frequency,
		BiweeklyPair:     req.BiweeklyPair,
		StartDate:        start,
		Tag:              req.Tag,
		PaperworkFee:     req.PaperworkFee,
		InstallmentValue: req.InstallmentValue,
		InstallmentCount: req.InstallmentCount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.svc.Detail(credit))
}

// ListCredits returns the collection view. Renewed credits are hidden
// unless ?include_renewed=true.
func (h *CreditHandler) ListCredits(c echo.Context) error {
	includeRenewed := c.QueryParam("include_renewed") == "true"
	details, err := h.svc.ListCredits(c.Request().Context(), includeRenewed)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// GetCredit returns one fully annotated credit.
func (h *CreditHandler) GetCredit(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.svc.GetCredit(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// MarkInstallment toggles the manual paid flag on one cuota.
func (h *CreditHandler) MarkInstallment(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid installment number")
	}
	var req MarkInstallmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	credit, err := h.svc.SetInstallmentPaid(c.Request().Context(), id, number, req.Paid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.svc.Detail(credit))
}

// QuoteRenewal previews the renewal payout without committing.
func (h *CreditHandler) QuoteRenewal(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	var req RenewalQuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	quote, err := h.svc.QuoteRenewal(c.Request().Context(), id, req.Principal, req.PaperworkFee)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quote)
}

// RenewCredit closes the credit into a new one, deducting the payoff
// from the new disbursement.
func (h *CreditHandler) RenewCredit(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	var req RenewCreditRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}

	clientID := req.ClientID
	if clientID == 0 {
		old, err := h.svc.GetCredit(c.Request().Context(), id)
		if err != nil {
			return err
		}
		clientID = old.Credit.ClientID
	}

	credit, quote, err := h.svc.RenewCredit(c.Request().Context(), id, services.CreateCreditInput{
		ClientID:         clientID,
		Principal:        req.Principal,
		Frequency:        req.Frequency,
		BiweeklyPair:     req.BiweeklyPair,
		StartDate:        start,
		Tag:              req.Tag,
		PaperworkFee:     req.PaperworkFee,
		InstallmentValue: req.InstallmentValue,
		InstallmentCount: req.InstallmentCount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"credit": h.svc.Detail(credit),
		"quote":  quote,
	})
}
