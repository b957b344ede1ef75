package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is an abono applied to a credit's capital. A payment with a
// TargetInstallment applies its full amount to that cuota, uncapped;
// one without a target is distributed by the waterfall.
//
// Deleting a payment is a soft delete: the row stays as a tombstone and
// the ledger is recomputed without it.
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UUID     string `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	CreditID uint   `gorm:"index" json:"credit_id"`

	Amount int64 `gorm:"not null" json:"amount"`

	// Description is a free-text label with no semantic meaning. Legacy
	// records encoded the target as "Cuota #N" here; the allocation
	// engine still parses that as a compatibility fallback.
	Description string `gorm:"type:varchar(255)" json:"description"`

	Date time.Time `json:"date"`

	TargetInstallment *int `json:"target_installment,omitempty"`
}
