package ledger

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

// Result reports what the recompute could not place.
type Result struct {
	// Unapplied is payment capital that found no installment to land
	// on: leftover after the waterfall exhausted the schedule, or a
	// targeted payment naming an installment outside the schedule.
	// Nonzero values indicate a bookkeeping anomaly worth logging; the
	// recompute itself never fails because of them.
	Unapplied int64
}

// Legacy records encoded the target installment in the payment
// description as "Cuota #N".
var cuotaPattern = regexp.MustCompile(`(?i)cuota\s*#\s*(\d+)`)

// ParseTargetInstallment extracts a legacy "Cuota #N" target from a
// payment description. New records carry an explicit field instead.
func ParseTargetInstallment(description string) (int, bool) {
	m := cuotaPattern.FindStringSubmatch(description)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func paymentTarget(p models.Payment) (int, bool) {
	if p.TargetInstallment != nil {
		return *p.TargetInstallment, true
	}
	return ParseTargetInstallment(p.Description)
}

// Recompute rebuilds every derived field of the credit from its
// append-only histories. It is a total function over well-formed input:
// deterministic, idempotent, and free of wall-clock reads (now is only
// used as the paid date for installments completed by a manual mark).
//
// The walk: reset all applied amounts, sort payments by date (stable,
// so same-day payments keep their recorded order), then two passes.
// First every targeted payment lands whole on its cuota, regardless of
// where general payments fall in the date order; only then do general
// payments waterfall across unpaid installments in index order,
// skipping manual marks. Fines are settled on their own ledger
// afterwards.
func Recompute(c *models.Credit, now time.Time) Result {
	for i := range c.Schedule {
		c.Schedule[i].AppliedAmount = 0
	}

	payments := make([]models.Payment, len(c.Payments))
	copy(payments, c.Payments)
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].Date.Before(payments[j].Date)
	})

	var res Result
	// Date of the payment that first pushed each installment over its
	// value, keyed by schedule position.
	completedAt := make(map[int]time.Time, len(c.Schedule))

	apply := func(pos int, amount int64, when time.Time) {
		inst := &c.Schedule[pos]
		before := inst.AppliedAmount
		inst.AppliedAmount += amount
		if before < c.InstallmentValue && inst.AppliedAmount >= c.InstallmentValue {
			if _, seen := completedAt[pos]; !seen {
				completedAt[pos] = DateOnly(when)
			}
		}
	}

	for _, p := range payments {
		target, ok := paymentTarget(p)
		if !ok {
			continue
		}
		pos := target - 1
		if pos < 0 || pos >= len(c.Schedule) {
			// Out-of-range targets are a caller validation miss,
			// not an engine failure.
			res.Unapplied += p.Amount
			continue
		}
		// Targeted abonos land whole on their cuota, uncapped.
		apply(pos, p.Amount, p.Date)
	}

	for _, p := range payments {
		if _, ok := paymentTarget(p); ok {
			continue
		}

		leftover := p.Amount
		for pos := range c.Schedule {
			if leftover == 0 {
				break
			}
			inst := &c.Schedule[pos]
			if inst.ManuallyPaid {
				continue
			}
			remaining := c.InstallmentValue - inst.AppliedAmount
			if remaining <= 0 {
				continue
			}
			chunk := remaining
			if leftover < chunk {
				chunk = leftover
			}
			apply(pos, chunk, p.Date)
			leftover -= chunk
		}
		res.Unapplied += leftover
	}

	for i := range c.Schedule {
		inst := &c.Schedule[i]
		paid := inst.ManuallyPaid || inst.AppliedAmount >= c.InstallmentValue
		if paid {
			if inst.PaidDate == nil {
				var d time.Time
				if at, ok := completedAt[i]; ok {
					d = at
				} else {
					d = DateOnly(now)
				}
				inst.PaidDate = &d
			}
		} else {
			inst.PaidDate = nil
		}
		inst.Paid = paid
	}

	SettleFines(c)
	return res
}

// OutstandingBalance sums the unpaid capital across the schedule.
// Targeted overpayments never make an installment's contribution
// negative. Fines are not included.
func OutstandingBalance(c *models.Credit) int64 {
	var total int64
	for _, inst := range c.Schedule {
		if inst.Paid {
			continue
		}
		if remaining := c.InstallmentValue - inst.AppliedAmount; remaining > 0 {
			total += remaining
		}
	}
	return total
}
