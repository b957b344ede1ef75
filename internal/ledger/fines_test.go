package ledger

import (
	"testing"
	"time"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

func TestFineSettlement(t *testing.T) {
	c := &models.Credit{
		Fines: []models.Fine{
			{ID: 7, Amount: 10000, Reason: "pago tardío", Date: date(2024, time.February, 1)},
		},
	}

	// First partial abono.
	c.FinePayments = []models.FinePayment{
		{ID: 1, FineID: 7, Amount: 4000, Date: date(2024, time.February, 3)},
	}
	SettleFines(c)
	f := c.Fines[0]
	if f.Remaining != 6000 || f.Settled || !f.PartiallyPaid {
		t.Errorf("after 4000: remaining %d settled %v partial %v", f.Remaining, f.Settled, f.PartiallyPaid)
	}

	// Second abono settles it.
	c.FinePayments = append(c.FinePayments, models.FinePayment{ID: 2, FineID: 7, Amount: 6000, Date: date(2024, time.February, 5)})
	SettleFines(c)
	f = c.Fines[0]
	if f.Remaining != 0 || !f.Settled || f.PartiallyPaid {
		t.Errorf("after 10000: remaining %d settled %v partial %v", f.Remaining, f.Settled, f.PartiallyPaid)
	}
}

func TestFinePaymentsAreTargeted(t *testing.T) {
	c := &models.Credit{
		Fines: []models.Fine{
			{ID: 1, Amount: 10000},
			{ID: 2, Amount: 5000},
		},
		FinePayments: []models.FinePayment{
			{ID: 1, FineID: 2, Amount: 5000},
		},
	}
	SettleFines(c)
	if c.Fines[0].PaidAmount != 0 {
		t.Errorf("fine 1 paid = %d, want 0", c.Fines[0].PaidAmount)
	}
	if !c.Fines[1].Settled {
		t.Error("fine 2 should be settled")
	}
}

func TestFineOverpayment(t *testing.T) {
	c := &models.Credit{
		Fines: []models.Fine{
			{ID: 1, Amount: 10000},
		},
		FinePayments: []models.FinePayment{
			{ID: 1, FineID: 1, Amount: 12000},
		},
	}
	SettleFines(c)
	f := c.Fines[0]
	if !f.Settled || f.PartiallyPaid {
		t.Errorf("overpaid fine: settled %v partial %v", f.Settled, f.PartiallyPaid)
	}
	if got := FinesOutstanding(c); got != 0 {
		t.Errorf("FinesOutstanding = %d, want 0", got)
	}
}

func TestFineLedgerDisjointFromCapital(t *testing.T) {
	// A general capital payment never touches fine balances, and the
	// fine sub-ledger never touches installments.
	c := testCredit(t, 30000, 2)
	c.Fines = []models.Fine{{ID: 1, Amount: 10000, Date: date(2024, time.January, 1)}}
	c.Payments = []models.Payment{{ID: 1, Amount: 40000, Date: date(2024, time.January, 2)}}

	Recompute(c, recomputeNow)
	if c.Fines[0].PaidAmount != 0 || c.Fines[0].Settled {
		t.Errorf("capital payment leaked into fine: %+v", c.Fines[0])
	}
	if c.Schedule[0].AppliedAmount != 30000 || c.Schedule[1].AppliedAmount != 10000 {
		t.Errorf("waterfall off: %d / %d", c.Schedule[0].AppliedAmount, c.Schedule[1].AppliedAmount)
	}
}

func TestFinesOutstanding(t *testing.T) {
	c := &models.Credit{
		Fines: []models.Fine{
			{ID: 1, Amount: 10000},
			{ID: 2, Amount: 5000},
			{ID: 3, Amount: 3000},
		},
		FinePayments: []models.FinePayment{
			{ID: 1, FineID: 1, Amount: 4000},
			{ID: 2, FineID: 3, Amount: 3000},
		},
	}
	SettleFines(c)
	if got := FinesOutstanding(c); got != 11000 {
		t.Errorf("FinesOutstanding = %d, want 11000", got)
	}
}
