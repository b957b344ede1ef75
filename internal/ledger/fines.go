package ledger

import "github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"

// SettleFines rebuilds the derived fields of every fine from the fine
// payment history. Every fine payment is targeted at exactly one fine;
// there is no fine waterfall.
func SettleFines(c *models.Credit) {
	for i := range c.Fines {
		f := &c.Fines[i]
		var paid int64
		for _, fp := range c.FinePayments {
			if fp.FineID == f.ID {
				paid += fp.Amount
			}
		}
		f.PaidAmount = paid
		f.Remaining = f.Amount - paid
		f.Settled = f.Remaining <= 0
		f.PartiallyPaid = paid > 0 && paid < f.Amount
	}
}

// FinesOutstanding sums the unpaid balance across all fines. Overpaid
// fines contribute nothing.
func FinesOutstanding(c *models.Credit) int64 {
	var total int64
	for _, f := range c.Fines {
		if f.Remaining > 0 {
			total += f.Remaining
		}
	}
	return total
}
