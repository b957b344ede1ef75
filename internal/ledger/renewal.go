package ledger

import "github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"

// RenewalQuote is the payout breakdown for rolling a credit's
// outstanding capital into a new one. When the numbers do not work out
// (negative disbursement) the quote is still fully populated so the
// caller can show why, with Accepted false.
type RenewalQuote struct {
	OutstandingBalance int64 `json:"outstanding_balance"`
	PaperworkFee       int64 `json:"paperwork_fee"`
	DisbursedAmount    int64 `json:"disbursed_amount"`
	Accepted           bool  `json:"accepted"`
}

// QuoteRenewal computes the payout of renewing old into a credit with
// the given principal. manualFee, when non-nil, overrides the papelería
// formula. The old credit's outstanding fines are not folded into the
// payoff; only capital rolls over.
func QuoteRenewal(old *models.Credit, newPrincipal int64, manualFee *int64) RenewalQuote {
	fee := PaperworkFee(newPrincipal)
	if manualFee != nil {
		fee = *manualFee
	}
	outstanding := OutstandingBalance(old)
	disbursed := newPrincipal - fee - outstanding
	return RenewalQuote{
		OutstandingBalance: outstanding,
		PaperworkFee:       fee,
		DisbursedAmount:    disbursed,
		Accepted:           disbursed >= 0,
	}
}
