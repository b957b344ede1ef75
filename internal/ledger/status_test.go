package ledger

import (
	"testing"
	"time"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

var today = date(2024, time.March, 15)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *models.Credit)
		want  models.CreditStatus
	}{
		{
			name: "all future installments is activo",
			setup: func(c *models.Credit) {
				for i := range c.Schedule {
					c.Schedule[i].DueDate = today.AddDate(0, 0, i+1)
				}
			},
			want: models.CreditStatusActive,
		},
		{
			name: "due today is not yet mora",
			setup: func(c *models.Credit) {
				c.Schedule[0].DueDate = today
			},
			want: models.CreditStatusActive,
		},
		{
			name: "overdue unpaid capital is mora",
			setup: func(c *models.Credit) {
				c.Schedule[0].DueDate = today.AddDate(0, 0, -1)
			},
			want: models.CreditStatusMora,
		},
		{
			name: "overdue but fully applied capital is not mora",
			setup: func(c *models.Credit) {
				// Applied covers the value but the paid flag lagged;
				// mora requires outstanding capital.
				c.Schedule[0].DueDate = today.AddDate(0, 0, -1)
				c.Schedule[0].AppliedAmount = 30000
			},
			want: models.CreditStatusActive,
		},
		{
			name: "all paid is finalizado",
			setup: func(c *models.Credit) {
				for i := range c.Schedule {
					c.Schedule[i].Paid = true
				}
			},
			want: models.CreditStatusFinished,
		},
		{
			name: "overdue manual mark is not mora",
			setup: func(c *models.Credit) {
				c.Schedule[0].DueDate = today.AddDate(0, 0, -10)
				c.Schedule[0].ManuallyPaid = true
				c.Schedule[0].Paid = true
			},
			want: models.CreditStatusActive,
		},
		{
			name: "renewed wins over everything",
			setup: func(c *models.Credit) {
				c.Renewed = true
				c.Schedule[0].DueDate = today.AddDate(0, 0, -1)
			},
			want: models.CreditStatusRenewed,
		},
		{
			name: "renewed wins even when fully paid",
			setup: func(c *models.Credit) {
				c.Renewed = true
				for i := range c.Schedule {
					c.Schedule[i].Paid = true
				}
			},
			want: models.CreditStatusRenewed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCredit(t, 30000, 3)
			for i := range c.Schedule {
				c.Schedule[i].DueDate = today.AddDate(0, 0, i+1)
			}
			tt.setup(c)
			if got := Classify(c, today); got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoraIgnoresFines(t *testing.T) {
	// All capital paid but an overdue unpaid fine: finalizado, never
	// mora. Fines live on a disjoint ledger.
	c := testCredit(t, 30000, 10)
	for i := range c.Schedule {
		c.Schedule[i].Paid = true
		c.Schedule[i].AppliedAmount = 30000
	}
	c.Fines = []models.Fine{
		{ID: 1, Amount: 10000, Date: today.AddDate(0, 0, -30), Remaining: 10000},
	}

	if got := Classify(c, today); got != models.CreditStatusFinished {
		t.Errorf("Classify = %q, want %q", got, models.CreditStatusFinished)
	}
}
