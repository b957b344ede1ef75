package models

import (
	"time"

	"github.com/teambition/rrule-go"
	"gorm.io/gorm"
)

// Frequency is the collection cadence of a credit.
type Frequency string

const (
	FrequencyDaily    Frequency = "diario"
	FrequencyWeekly   Frequency = "semanal"
	FrequencyBiweekly Frequency = "quincenal"
	FrequencyMonthly  Frequency = "mensual"
)

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// BiweeklyPair is the fixed day-of-month pair used by quincenal credits.
type BiweeklyPair string

const (
	BiweeklyPair1y16 BiweeklyPair = "1-16"
	BiweeklyPair5y20 BiweeklyPair = "5-20"
)

// Days returns the two collection days of the month for the pair.
func (p BiweeklyPair) Days() (int, int) {
	if p == BiweeklyPair5y20 {
		return 5, 20
	}
	return 1, 16
}

// Valid reports whether p is one of the supported pairs.
func (p BiweeklyPair) Valid() bool {
	return p == BiweeklyPair1y16 || p == BiweeklyPair5y20
}

// CreditStatus is the derived lifecycle state of a credit. It is never
// stored; it is recomputed from the annotated schedule on every read.
type CreditStatus string

const (
	CreditStatusActive   CreditStatus = "activo"
	CreditStatusMora     CreditStatus = "mora"
	CreditStatusFinished CreditStatus = "finalizado"
	CreditStatusRenewed  CreditStatus = "renovado"
)

// Credit is an installment loan. The schedule is generated once at
// creation and its due dates are never mutated afterwards; payments,
// fines, fine payments and discounts are append-only histories with
// soft-delete tombstones.
type Credit struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ClientID uint `gorm:"index" json:"client_id"`

	Principal       int64 `gorm:"not null" json:"principal"`
	PaperworkFee    int64 `json:"paperwork_fee"`
	DisbursedAmount int64 `json:"disbursed_amount"`

	Frequency    Frequency    `gorm:"type:varchar(20)" json:"frequency"`
	BiweeklyPair BiweeklyPair `gorm:"type:varchar(10)" json:"biweekly_pair,omitempty"`
	StartDate    time.Time    `json:"start_date"`

	InstallmentValue int64 `json:"installment_value"`
	InstallmentCount int   `json:"installment_count"`
	TotalPayable     int64 `json:"total_payable"`

	Tag string `gorm:"type:varchar(100)" json:"tag"`

	// Renewed marks the credit as terminal: its outstanding balance was
	// rolled into the credit referenced by RenewalLinkID.
	Renewed       bool  `gorm:"default:false" json:"renewed"`
	RenewalLinkID *uint `json:"renewal_link_id,omitempty"`

	// Version guards the read-recompute-write cycle against lost updates.
	Version int `gorm:"default:1" json:"-"`

	// Relationships
	Client       Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Schedule     []Installment `gorm:"foreignKey:CreditID" json:"schedule,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:CreditID" json:"payments,omitempty"`
	Fines        []Fine        `gorm:"foreignKey:CreditID" json:"fines,omitempty"`
	FinePayments []FinePayment `gorm:"foreignKey:CreditID" json:"fine_payments,omitempty"`
	Discounts    []Discount    `gorm:"foreignKey:CreditID" json:"discounts,omitempty"`
}

// CollectionRule returns the RFC 5545 recurrence of the credit's
// collection days. This is the collection calendar, not the outstanding
// schedule: it keeps producing dates past the last installment.
func (c Credit) CollectionRule() (*rrule.RRule, error) {
	opt := rrule.ROption{Dtstart: c.StartDate}
	switch c.Frequency {
	case FrequencyDaily:
		opt.Freq = rrule.DAILY
	case FrequencyWeekly:
		// Collection happens the day after the anchor Saturday.
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{rrule.SU}
	case FrequencyBiweekly:
		d1, d2 := c.BiweeklyPair.Days()
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{d1, d2}
	default:
		opt.Freq = rrule.MONTHLY
	}
	return rrule.NewRRule(opt)
}

// NextCollection returns the next collection day strictly after the
// given time, or the zero time if the rule cannot be built.
func (c Credit) NextCollection(after time.Time) time.Time {
	rule, err := c.CollectionRule()
	if err != nil {
		return time.Time{}
	}
	return rule.After(after, false)
}

// Installment is one scheduled repayment unit (cuota). DueDate is fixed
// at creation; AppliedAmount, Paid and PaidDate are derived by the
// allocation engine and fully rewritten on every recompute.
type Installment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CreditID uint `gorm:"index" json:"credit_id"`
	Number   int  `gorm:"not null" json:"index"`

	DueDate time.Time `json:"due_date"`

	// ManuallyPaid is the explicit collector override: it marks the
	// installment paid regardless of applied capital and excludes it
	// from the general-payment waterfall.
	ManuallyPaid bool `gorm:"default:false" json:"manually_paid"`

	AppliedAmount int64      `json:"applied_amount"`
	Paid          bool       `json:"paid"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
}
