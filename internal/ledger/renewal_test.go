package ledger

import (
	"testing"
	"time"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

func TestQuoteRenewal(t *testing.T) {
	// 10 cuotas of 30000, 6 already covered: 4 outstanding = 120000.
	c := testCredit(t, 30000, 10)
	for i := 0; i < 6; i++ {
		c.Schedule[i].Paid = true
		c.Schedule[i].AppliedAmount = 30000
	}

	manualFee := int64(15000)
	q := QuoteRenewal(c, 300000, &manualFee)
	if q.OutstandingBalance != 120000 {
		t.Errorf("outstanding = %d, want 120000", q.OutstandingBalance)
	}
	if q.PaperworkFee != 15000 {
		t.Errorf("fee = %d, want 15000", q.PaperworkFee)
	}
	if q.DisbursedAmount != 165000 {
		t.Errorf("disbursed = %d, want 165000", q.DisbursedAmount)
	}
	if !q.Accepted {
		t.Error("quote should be accepted")
	}
}

func TestQuoteRenewalDefaultFee(t *testing.T) {
	c := testCredit(t, 30000, 10)
	q := QuoteRenewal(c, 300000, nil)
	if q.PaperworkFee != PaperworkFee(300000) {
		t.Errorf("fee = %d, want formula value %d", q.PaperworkFee, PaperworkFee(300000))
	}
}

func TestQuoteRenewalShortfallRejected(t *testing.T) {
	// Outstanding 300000 against a 100000 principal: the numbers must
	// still come back so the caller can show the shortfall.
	c := testCredit(t, 30000, 10)

	q := QuoteRenewal(c, 100000, nil)
	if q.Accepted {
		t.Error("shortfall quote should not be accepted")
	}
	if q.DisbursedAmount >= 0 {
		t.Errorf("disbursed = %d, want negative", q.DisbursedAmount)
	}
	if q.OutstandingBalance != 300000 {
		t.Errorf("outstanding = %d, want 300000", q.OutstandingBalance)
	}
}

func TestQuoteRenewalIgnoresFines(t *testing.T) {
	c := testCredit(t, 30000, 10)
	for i := 0; i < 9; i++ {
		c.Schedule[i].Paid = true
		c.Schedule[i].AppliedAmount = 30000
	}
	c.Fines = []models.Fine{
		{ID: 1, Amount: 50000, Date: date(2024, time.January, 5), Remaining: 50000},
	}

	q := QuoteRenewal(c, 200000, nil)
	// Only the last cuota's capital rolls over; the open fine does not.
	if q.OutstandingBalance != 30000 {
		t.Errorf("outstanding = %d, want 30000", q.OutstandingBalance)
	}
}

func TestQuoteRenewalPartialInstallment(t *testing.T) {
	c := testCredit(t, 30000, 2)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 40000, Date: date(2024, time.January, 2)},
	}
	Recompute(c, recomputeNow)

	q := QuoteRenewal(c, 100000, nil)
	if q.OutstandingBalance != 20000 {
		t.Errorf("outstanding = %d, want 20000", q.OutstandingBalance)
	}
}
