package models

import (
	"time"

	"gorm.io/gorm"
)

// Fine is a multa. Fine capital is a ledger of its own: general credit
// payments never reduce fine balances and fine payments never reduce
// installment balances.
type Fine struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UUID     string `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	CreditID uint   `gorm:"index" json:"credit_id"`

	Amount int64     `gorm:"not null" json:"amount"`
	Reason string    `gorm:"type:varchar(255)" json:"reason"`
	Date   time.Time `json:"date"`

	// Derived by the fine sub-ledger on every recompute.
	PaidAmount    int64 `json:"paid_amount"`
	Remaining     int64 `json:"remaining"`
	Settled       bool  `json:"settled"`
	PartiallyPaid bool  `json:"partially_paid"`
}

// FinePayment is an abono de multa. Every fine payment is targeted:
// FineID is required, there is no fine waterfall.
type FinePayment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UUID     string `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	CreditID uint   `gorm:"index" json:"credit_id"`
	FineID   uint   `gorm:"index" json:"fine_id"`

	Amount int64     `gorm:"not null" json:"amount"`
	Date   time.Time `json:"date"`
}
