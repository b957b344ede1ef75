package ledger

import (
	"fmt"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

// Terms is the product shape of a credit: a fixed installment count per
// frequency and a fixed per-installment value.
type Terms struct {
	InstallmentCount int   `json:"installment_count"`
	InstallmentValue int64 `json:"installment_value"`
	TotalPayable     int64 `json:"total_payable"`
}

// Installment counts per frequency. A credit always pays back 1.5x its
// principal, split into this many cuotas.
var installmentCounts = map[models.Frequency]int{
	models.FrequencyDaily:    30,
	models.FrequencyWeekly:   10,
	models.FrequencyBiweekly: 6,
	models.FrequencyMonthly:  3,
}

// DefaultTerms derives the installment count and value for a principal
// and frequency. The per-installment value is rounded half-up and the
// total repayable recomputed from it, so the sum of installment values
// always equals TotalPayable.
func DefaultTerms(principal int64, freq models.Frequency) (Terms, error) {
	count, ok := installmentCounts[freq]
	if !ok {
		return Terms{}, fmt.Errorf("unknown frequency %q", freq)
	}
	if principal <= 0 {
		return Terms{}, fmt.Errorf("principal must be positive, got %d", principal)
	}
	total := roundHalfUpDiv(principal*3, 2)
	value := roundHalfUpDiv(total, int64(count))
	return Terms{
		InstallmentCount: count,
		InstallmentValue: value,
		TotalPayable:     value * int64(count),
	}, nil
}

// PaperworkFee is the papelería origination fee: 5000 pesos per 100000
// of principal, rounded half-up.
func PaperworkFee(principal int64) int64 {
	return roundHalfUpDiv(principal*5000, 100000)
}

// roundHalfUpDiv divides n by d rounding half away from zero.
// Both arguments must be positive.
func roundHalfUpDiv(n, d int64) int64 {
	return (n + d/2) / d
}
