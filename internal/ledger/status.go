package ledger

import (
	"time"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

// Classify derives the lifecycle status of a credit from its annotated
// schedule. Priority order: renovado, finalizado, mora, activo.
//
// Mora looks only at capital: an unpaid installment due before today
// with outstanding capital. Overdue unpaid fines never put a credit in
// mora; that is the business rule as practiced, not an oversight.
func Classify(c *models.Credit, today time.Time) models.CreditStatus {
	if c.Renewed {
		return models.CreditStatusRenewed
	}

	allPaid := true
	for _, inst := range c.Schedule {
		if !inst.Paid {
			allPaid = false
			break
		}
	}
	if allPaid {
		return models.CreditStatusFinished
	}

	for _, inst := range c.Schedule {
		if inst.Paid {
			continue
		}
		if BeforeDay(inst.DueDate, today) && c.InstallmentValue-inst.AppliedAmount > 0 {
			return models.CreditStatusMora
		}
	}
	return models.CreditStatusActive
}
