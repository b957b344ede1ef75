package ledger

import (
	"testing"
	"time"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

func testCredit(t *testing.T, value int64, count int) *models.Credit {
	t.Helper()
	schedule, err := GenerateSchedule(date(2024, time.January, 1), models.FrequencyDaily, "", count)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	return &models.Credit{
		Frequency:        models.FrequencyDaily,
		StartDate:        date(2024, time.January, 1),
		InstallmentValue: value,
		InstallmentCount: count,
		TotalPayable:     value * int64(count),
		Schedule:         schedule,
	}
}

func intp(n int) *int { return &n }

var recomputeNow = date(2024, time.June, 1)

func TestGeneralWaterfall(t *testing.T) {
	c := testCredit(t, 30000, 10)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 45000, Date: date(2024, time.January, 2)},
	}

	res := Recompute(c, recomputeNow)
	if res.Unapplied != 0 {
		t.Errorf("Unapplied = %d, want 0", res.Unapplied)
	}
	if got := c.Schedule[0].AppliedAmount; got != 30000 {
		t.Errorf("installment 1 applied = %d, want 30000", got)
	}
	if !c.Schedule[0].Paid {
		t.Error("installment 1 should be paid")
	}
	if got := c.Schedule[1].AppliedAmount; got != 15000 {
		t.Errorf("installment 2 applied = %d, want 15000", got)
	}
	if c.Schedule[1].Paid {
		t.Error("installment 2 should not be paid")
	}
	for i := 2; i < 10; i++ {
		if c.Schedule[i].AppliedAmount != 0 {
			t.Errorf("installment %d applied = %d, want 0", i+1, c.Schedule[i].AppliedAmount)
		}
	}
}

func TestTargetedOverflowStaysPut(t *testing.T) {
	c := testCredit(t, 30000, 10)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 50000, Date: date(2024, time.January, 2), TargetInstallment: intp(3)},
	}

	Recompute(c, recomputeNow)
	if got := c.Schedule[2].AppliedAmount; got != 50000 {
		t.Errorf("installment 3 applied = %d, want 50000 (no redistribution)", got)
	}
	if !c.Schedule[2].Paid {
		t.Error("installment 3 should be paid")
	}
	for i := range c.Schedule {
		if i != 2 && c.Schedule[i].AppliedAmount != 0 {
			t.Errorf("installment %d applied = %d, want 0", i+1, c.Schedule[i].AppliedAmount)
		}
	}
}

func TestLegacyCuotaDescriptionTarget(t *testing.T) {
	c := testCredit(t, 30000, 10)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 10000, Date: date(2024, time.January, 2), Description: "Abono Cuota #4"},
	}

	Recompute(c, recomputeNow)
	if got := c.Schedule[3].AppliedAmount; got != 10000 {
		t.Errorf("installment 4 applied = %d, want 10000", got)
	}
	if c.Schedule[0].AppliedAmount != 0 {
		t.Error("legacy-targeted payment must not waterfall")
	}
}

func TestParseTargetInstallment(t *testing.T) {
	tests := []struct {
		desc   string
		want   int
		wantOK bool
	}{
		{"Cuota #3", 3, true},
		{"abono cuota # 12", 12, true},
		{"CUOTA #1 adelantada", 1, true},
		{"abono general", 0, false},
		{"cuota tres", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseTargetInstallment(tt.desc)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseTargetInstallment(%q) = (%d, %v), want (%d, %v)", tt.desc, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestWaterfallSkipsManuallyPaid(t *testing.T) {
	c := testCredit(t, 30000, 3)
	c.Schedule[0].ManuallyPaid = true
	c.Payments = []models.Payment{
		{ID: 1, Amount: 30000, Date: date(2024, time.January, 2)},
	}

	Recompute(c, recomputeNow)
	if c.Schedule[0].AppliedAmount != 0 {
		t.Errorf("manually paid installment received %d", c.Schedule[0].AppliedAmount)
	}
	if !c.Schedule[0].Paid {
		t.Error("manually paid installment must stay paid")
	}
	if got := c.Schedule[1].AppliedAmount; got != 30000 {
		t.Errorf("installment 2 applied = %d, want 30000", got)
	}
}

func TestTargetedIgnoresManualFlag(t *testing.T) {
	// Targeted abonos land on their cuota even when it is manually
	// marked; only the waterfall skips manual marks.
	c := testCredit(t, 30000, 3)
	c.Schedule[1].ManuallyPaid = true
	c.Payments = []models.Payment{
		{ID: 1, Amount: 5000, Date: date(2024, time.January, 2), TargetInstallment: intp(2)},
	}

	Recompute(c, recomputeNow)
	if got := c.Schedule[1].AppliedAmount; got != 5000 {
		t.Errorf("installment 2 applied = %d, want 5000", got)
	}
}

func TestTargetedLandsBeforeEarlierGeneral(t *testing.T) {
	// Targeted abonos claim their cuota before any general payment
	// waterfalls, even when the general payment has the earlier date.
	// The general capital must flow past the claimed cuota instead of
	// doubling it up.
	c := testCredit(t, 30000, 2)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 30000, Date: date(2024, time.January, 2)},
		{ID: 2, Amount: 30000, Date: date(2024, time.January, 3), TargetInstallment: intp(1)},
	}

	res := Recompute(c, recomputeNow)
	if res.Unapplied != 0 {
		t.Errorf("Unapplied = %d, want 0", res.Unapplied)
	}
	if got := c.Schedule[0].AppliedAmount; got != 30000 {
		t.Errorf("installment 1 applied = %d, want 30000", got)
	}
	if got := c.Schedule[1].AppliedAmount; got != 30000 {
		t.Errorf("installment 2 applied = %d, want 30000", got)
	}
	if !c.Schedule[0].Paid || !c.Schedule[1].Paid {
		t.Errorf("paid = (%v, %v), want both paid", c.Schedule[0].Paid, c.Schedule[1].Paid)
	}
}

func TestConservation(t *testing.T) {
	c := testCredit(t, 30000, 4)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 70000, Date: date(2024, time.January, 2)},
		{ID: 2, Amount: 45000, Date: date(2024, time.January, 3)},
		{ID: 3, Amount: 25000, Date: date(2024, time.January, 4)},
	}

	res := Recompute(c, recomputeNow)
	var applied, paidIn int64
	for _, inst := range c.Schedule {
		applied += inst.AppliedAmount
	}
	for _, p := range c.Payments {
		paidIn += p.Amount
	}
	if applied+res.Unapplied != paidIn {
		t.Errorf("conservation broken: applied %d + unapplied %d != paid %d", applied, res.Unapplied, paidIn)
	}
	// 140000 against a 120000 schedule leaves 20000 unapplied.
	if res.Unapplied != 20000 {
		t.Errorf("Unapplied = %d, want 20000", res.Unapplied)
	}
}

func TestOutOfRangeTargetDoesNotPanic(t *testing.T) {
	c := testCredit(t, 30000, 3)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 10000, Date: date(2024, time.January, 2), TargetInstallment: intp(99)},
		{ID: 2, Amount: 10000, Date: date(2024, time.January, 2), TargetInstallment: intp(0)},
	}

	res := Recompute(c, recomputeNow)
	if res.Unapplied != 20000 {
		t.Errorf("Unapplied = %d, want 20000", res.Unapplied)
	}
	for i, inst := range c.Schedule {
		if inst.AppliedAmount != 0 {
			t.Errorf("installment %d applied = %d, want 0", i+1, inst.AppliedAmount)
		}
	}
}

func TestIdempotence(t *testing.T) {
	c := testCredit(t, 30000, 5)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 45000, Date: date(2024, time.January, 2)},
		{ID: 2, Amount: 20000, Date: date(2024, time.January, 3), TargetInstallment: intp(4)},
	}

	first := Recompute(c, recomputeNow)
	snapshot := make([]models.Installment, len(c.Schedule))
	copy(snapshot, c.Schedule)

	second := Recompute(c, recomputeNow)
	if first != second {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	for i := range c.Schedule {
		a, b := snapshot[i], c.Schedule[i]
		if a.AppliedAmount != b.AppliedAmount || a.Paid != b.Paid {
			t.Errorf("installment %d changed on recompute: %+v vs %+v", i+1, a, b)
		}
		switch {
		case a.PaidDate == nil && b.PaidDate == nil:
		case a.PaidDate != nil && b.PaidDate != nil && a.PaidDate.Equal(*b.PaidDate):
		default:
			t.Errorf("installment %d paid date changed on recompute", i+1)
		}
	}
}

func TestMonotonicity(t *testing.T) {
	c := testCredit(t, 30000, 5)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 45000, Date: date(2024, time.January, 2)},
	}
	Recompute(c, recomputeNow)

	before := make([]int64, len(c.Schedule))
	paidBefore := make([]bool, len(c.Schedule))
	for i, inst := range c.Schedule {
		before[i] = inst.AppliedAmount
		paidBefore[i] = inst.Paid
	}

	c.Payments = append(c.Payments, models.Payment{ID: 2, Amount: 10000, Date: date(2024, time.January, 5)})
	Recompute(c, recomputeNow)

	for i, inst := range c.Schedule {
		if inst.AppliedAmount < before[i] {
			t.Errorf("installment %d applied decreased: %d -> %d", i+1, before[i], inst.AppliedAmount)
		}
		if paidBefore[i] && !inst.Paid {
			t.Errorf("installment %d flipped paid -> unpaid after appending a payment", i+1)
		}
	}
}

func TestSameDayPaymentsKeepRecordedOrder(t *testing.T) {
	// Two general payments on the same day must distribute in recorded
	// order on every recompute; the sort is stable by construction.
	c := testCredit(t, 30000, 2)
	day := date(2024, time.January, 2)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 30000, Date: day, Description: "primero"},
		{ID: 2, Amount: 10000, Date: day, Description: "segundo"},
	}

	Recompute(c, recomputeNow)
	if !c.Schedule[0].Paid || c.Schedule[0].AppliedAmount != 30000 {
		t.Errorf("installment 1: applied %d paid %v", c.Schedule[0].AppliedAmount, c.Schedule[0].Paid)
	}
	if got := c.Schedule[0].PaidDate; got == nil || !SameDay(*got, day) {
		t.Errorf("installment 1 paid date = %v, want %v", got, day)
	}
}

func TestPaidDateSetAndCleared(t *testing.T) {
	c := testCredit(t, 30000, 2)
	payDay := date(2024, time.January, 3)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 30000, Date: payDay},
	}

	Recompute(c, recomputeNow)
	if c.Schedule[0].PaidDate == nil || !SameDay(*c.Schedule[0].PaidDate, payDay) {
		t.Fatalf("paid date = %v, want %v", c.Schedule[0].PaidDate, payDay)
	}

	// Deleting the payment and recomputing flips the cuota back to
	// unpaid and clears the date.
	c.Payments = nil
	Recompute(c, recomputeNow)
	if c.Schedule[0].Paid {
		t.Error("installment 1 should be unpaid after payment deletion")
	}
	if c.Schedule[0].PaidDate != nil {
		t.Errorf("paid date = %v, want nil", c.Schedule[0].PaidDate)
	}
}

func TestPaidDatePreservedAcrossRecomputes(t *testing.T) {
	// An already-set paid date is not moved by later recomputes even
	// when further payments arrive.
	c := testCredit(t, 30000, 2)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 30000, Date: date(2024, time.January, 3)},
	}
	Recompute(c, recomputeNow)
	original := *c.Schedule[0].PaidDate

	c.Payments = append(c.Payments, models.Payment{ID: 2, Amount: 5000, Date: date(2024, time.January, 4)})
	Recompute(c, recomputeNow)
	if !c.Schedule[0].PaidDate.Equal(original) {
		t.Errorf("paid date moved: %v -> %v", original, c.Schedule[0].PaidDate)
	}
}

func TestOutstandingBalanceClampsOverpayment(t *testing.T) {
	c := testCredit(t, 30000, 3)
	c.Payments = []models.Payment{
		{ID: 1, Amount: 50000, Date: date(2024, time.January, 2), TargetInstallment: intp(1)},
	}
	Recompute(c, recomputeNow)
	// Overpaid cuota 1 contributes 0, not -20000.
	if got := OutstandingBalance(c); got != 60000 {
		t.Errorf("OutstandingBalance = %d, want 60000", got)
	}
}
