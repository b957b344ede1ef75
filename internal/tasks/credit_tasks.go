package tasks

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/ledger"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

// RefreshCreditStatusTaskDef is the nightly sweep over active credits.
// Paid flags and fine totals are recomputed from the raw ledgers and
// any drift from the stored annotations is repaired.
type RefreshCreditStatusTaskDef struct{}

func (t *RefreshCreditStatusTaskDef) TaskID() string {
	return "refresh_credit_status"
}

func (t *RefreshCreditStatusTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	var credits []models.Credit
	err := db.WithContext(ctx).
		Preload("Schedule", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		Preload("Payments").
		Preload("Fines").
		Preload("FinePayments").
		Where("renewed = ?", false).
		Find(&credits).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	statusCounts := map[models.CreditStatus]int{}
	repaired := 0

	for i := range credits {
		c := &credits[i]
		before := snapshotAnnotations(c)
		ledger.Recompute(c, now)
		statusCounts[ledger.Classify(c, now)]++
		if before == snapshotAnnotations(c) {
			continue
		}

		repaired++
		logrus.WithField("credit_id", c.ID).Warn("Stored annotations drifted from recompute, repairing")
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for j := range c.Schedule {
				inst := &c.Schedule[j]
				err := tx.Model(&models.Installment{}).Where("id = ?", inst.ID).Updates(map[string]interface{}{
					"applied_amount": inst.AppliedAmount,
					"paid":           inst.Paid,
					"paid_date":      inst.PaidDate,
				}).Error
				if err != nil {
					return err
				}
			}
			for j := range c.Fines {
				f := &c.Fines[j]
				err := tx.Model(&models.Fine{}).Where("id = ?", f.ID).Updates(map[string]interface{}{
					"paid_amount":    f.PaidAmount,
					"remaining":      f.Remaining,
					"settled":        f.Settled,
					"partially_paid": f.PartiallyPaid,
				}).Error
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return map[string]interface{}{
		"status":     "success",
		"credits":    len(credits),
		"repaired":   repaired,
		"activo":     statusCounts[models.CreditStatusActive],
		"mora":       statusCounts[models.CreditStatusMora],
		"finalizado": statusCounts[models.CreditStatusFinished],
	}, nil
}

// snapshotAnnotations folds the derived fields of a credit into a
// comparable value, so drift detection is a single equality check.
func snapshotAnnotations(c *models.Credit) string {
	var b []byte
	for i := range c.Schedule {
		inst := &c.Schedule[i]
		b = appendInt(b, inst.AppliedAmount)
		b = appendBool(b, inst.Paid)
		b = appendBool(b, inst.PaidDate != nil)
	}
	for i := range c.Fines {
		f := &c.Fines[i]
		b = appendInt(b, f.PaidAmount)
		b = appendBool(b, f.Settled)
	}
	return string(b)
}

func appendInt(b []byte, v int64) []byte {
	for i := 0; i < 8; i++ {
		b = append(b, byte(v>>(8*i)))
	}
	return b
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

// RefreshCreditStatusTask is the singleton instance of RefreshCreditStatusTaskDef
var RefreshCreditStatusTask = &RefreshCreditStatusTaskDef{}

// CollectionDigestTaskDef builds the morning route digest: every cuota
// falling due today, per client, with the expected amount.
type CollectionDigestTaskDef struct{}

func (t *CollectionDigestTaskDef) TaskID() string {
	return "collection_digest"
}

func (t *CollectionDigestTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	var credits []models.Credit
	err := db.WithContext(ctx).
		Preload("Client").
		Preload("Schedule", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		Where("renewed = ?", false).
		Find(&credits).Error
	if err != nil {
		return nil, err
	}

	today := time.Now()
	var (
		dueCount      int
		totalExpected int64
		entries       []map[string]interface{}
	)
	for i := range credits {
		c := &credits[i]
		for _, inst := range c.Schedule {
			if inst.Paid || !ledger.SameDay(inst.DueDate, today) {
				continue
			}
			expected := c.InstallmentValue - inst.AppliedAmount
			if expected <= 0 {
				continue
			}
			dueCount++
			totalExpected += expected
			entries = append(entries, map[string]interface{}{
				"credit_id":   c.ID,
				"client":      c.Client.Name,
				"installment": inst.Number,
				"expected":    expected,
			})
		}
	}

	logrus.WithFields(logrus.Fields{
		"due_count":      dueCount,
		"total_expected": totalExpected,
	}).Info("Collection digest built")

	return map[string]interface{}{
		"status":         "success",
		"due_count":      dueCount,
		"total_expected": totalExpected,
		"entries":        entries,
	}, nil
}

// CollectionDigestTask is the singleton instance of CollectionDigestTaskDef
var CollectionDigestTask = &CollectionDigestTaskDef{}
