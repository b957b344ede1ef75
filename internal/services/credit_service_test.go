package services

import (
	"testing"
	"time"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/ledger"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

// The summary must account for every loaded history, so list views and
// single-credit views report the same figures for the same credit.
func TestDetailSummaryTotals(t *testing.T) {
	start := ledger.DateOnly(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local))
	schedule, err := ledger.GenerateSchedule(start, models.FrequencyDaily, "", 3)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	c := &models.Credit{
		Frequency:        models.FrequencyDaily,
		StartDate:        start,
		InstallmentValue: 30000,
		InstallmentCount: 3,
		TotalPayable:     90000,
		Schedule:         schedule,
		Payments: []models.Payment{
			{ID: 1, Amount: 30000, Date: start},
			{ID: 2, Amount: 15000, Date: start.AddDate(0, 0, 1)},
		},
		Fines: []models.Fine{
			{ID: 1, Amount: 10000, Date: start},
		},
		FinePayments: []models.FinePayment{
			{ID: 1, FineID: 1, Amount: 4000, Date: start},
		},
		Discounts: []models.Discount{
			{ID: 1, Amount: 5000, Kind: models.DiscountKindDays, Date: start},
		},
	}
	ledger.Recompute(c, start)

	svc := &CreditService{}
	detail := svc.detail(c)

	if got := detail.Summary.CollectedTotal; got != 45000 {
		t.Errorf("CollectedTotal = %d, want 45000", got)
	}
	if got := detail.Summary.DiscountTotal; got != 5000 {
		t.Errorf("DiscountTotal = %d, want 5000", got)
	}
	if got := detail.Summary.TotalDue; got != 85000 {
		t.Errorf("TotalDue = %d, want 85000", got)
	}
	if got := detail.Summary.OutstandingBalance; got != 45000 {
		t.Errorf("OutstandingBalance = %d, want 45000", got)
	}
	if got := detail.Summary.FinesOutstanding; got != 6000 {
		t.Errorf("FinesOutstanding = %d, want 6000", got)
	}
}
