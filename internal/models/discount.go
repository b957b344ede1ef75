package models

import (
	"time"

	"gorm.io/gorm"
)

// DiscountKind distinguishes what a discount forgives.
type DiscountKind string

const (
	DiscountKindDays      DiscountKind = "dias"
	DiscountKindPaperwork DiscountKind = "papeleria"
)

// Valid reports whether k is one of the supported discount kinds.
func (k DiscountKind) Valid() bool {
	return k == DiscountKindDays || k == DiscountKindPaperwork
}

// Discount reduces the totals shown for a credit. It never participates
// in the allocation waterfall.
type Discount struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UUID     string `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	CreditID uint   `gorm:"index" json:"credit_id"`

	Amount      int64        `gorm:"not null" json:"amount"`
	Kind        DiscountKind `gorm:"type:varchar(20)" json:"kind"`
	Description string       `gorm:"type:varchar(255)" json:"description"`
	Date        time.Time    `json:"date"`
}
