package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/ledger"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

// ErrConflict reports a lost-update race: another writer recomputed the
// same credit between our read and write. The caller should retry.
var ErrConflict = errors.New("credit was modified concurrently, retry the operation")

// ValidationError is a caller-facing input rejection. It is raised at
// the boundary, before anything reaches the ledger engine.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// RenewalRejectedError is a business-rule rejection, not a fault: the
// new principal does not cover the payoff. The quote carries the
// numbers so the caller can show the shortfall.
type RenewalRejectedError struct {
	Quote ledger.RenewalQuote
}

func (e *RenewalRejectedError) Error() string {
	return fmt.Sprintf("renewal rejected: disbursed amount would be %d", e.Quote.DisbursedAmount)
}

// CreditService owns every mutation of a credit ledger. Each mutation
// is one read-recompute-write cycle over the whole credit: take the
// per-credit redis lock, load the full document, append or tombstone an
// entry, recompute all derived fields from scratch, and write the lot
// back guarded by the version column.
type CreditService struct {
	db       *gorm.DB
	cache    *RedisCache
	log      *logrus.Logger
	cacheTTL time.Duration
	lockTTL  time.Duration
}

func NewCreditService(db *gorm.DB, cache *RedisCache, log *logrus.Logger, cacheTTL, lockTTL time.Duration) *CreditService {
	return &CreditService{db: db, cache: cache, log: log, cacheTTL: cacheTTL, lockTTL: lockTTL}
}

func creditCacheKey(id uint) string { return fmt.Sprintf("credit:view:%d", id) }
func creditLockKey(id uint) string  { return fmt.Sprintf("credit:lock:%d", id) }

// CreditSummary are the headline figures of a credit view.
type CreditSummary struct {
	Status             models.CreditStatus `json:"status"`
	CollectedTotal     int64               `json:"collected_total"`
	OutstandingBalance int64               `json:"outstanding_balance"`
	FinesOutstanding   int64               `json:"fines_outstanding"`
	DiscountTotal      int64               `json:"discount_total"`
	TotalDue           int64               `json:"total_due"`
	NextCollection     *time.Time          `json:"next_collection,omitempty"`
}

// CreditDetail is the fully annotated credit as exposed to callers.
// Derived fields come exclusively from the server; clients never
// recompute them.
type CreditDetail struct {
	Credit  models.Credit       `json:"credit"`
	Status  models.CreditStatus `json:"status"`
	Summary CreditSummary       `json:"summary"`
}

// CreateCreditInput carries the terms of a new credit. InstallmentValue
// and InstallmentCount may override the product table together;
// PaperworkFee may override the papelería formula.
type CreateCreditInput struct {
	ClientID         uint
	Principal        int64
	Frequency        models.Frequency
	BiweeklyPair     models.BiweeklyPair
	StartDate        time.Time
	Tag              string
	PaperworkFee     *int64
	InstallmentValue *int64
	InstallmentCount *int
}

type PaymentInput struct {
	Amount            int64
	Description       string
	Date              time.Time
	TargetInstallment *int
}

type FineInput struct {
	Amount int64
	Reason string
	Date   time.Time
}

type FinePaymentInput struct {
	Amount int64
	Date   time.Time
}

type DiscountInput struct {
	Amount      int64
	Kind        models.DiscountKind
	Description string
	Date        time.Time
}

// CreateCredit validates the terms, generates the schedule and persists
// the new credit.
func (s *CreditService) CreateCredit(ctx context.Context, in CreateCreditInput) (*models.Credit, error) {
	fee := ledger.PaperworkFee(in.Principal)
	if in.PaperworkFee != nil {
		if *in.PaperworkFee < 0 {
			return nil, invalid("paperwork fee must not be negative")
		}
		fee = *in.PaperworkFee
	}

	var credit *models.Credit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Client{}, in.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid("client %d not found", in.ClientID)
			}
			return err
		}
		c, err := buildCredit(in, fee, in.Principal-fee)
		if err != nil {
			return err
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		credit = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"credit_id": credit.ID,
		"client_id": credit.ClientID,
		"frequency": credit.Frequency,
		"principal": credit.Principal,
	}).Info("Credit created")
	return credit, nil
}

// buildCredit assembles an unsaved credit with its generated schedule.
func buildCredit(in CreateCreditInput, fee, disbursed int64) (*models.Credit, error) {
	if in.Principal <= 0 {
		return nil, invalid("principal must be positive")
	}
	if !in.Frequency.Valid() {
		return nil, invalid("unknown frequency %q", in.Frequency)
	}
	if in.Frequency == models.FrequencyBiweekly && !in.BiweeklyPair.Valid() {
		return nil, invalid("biweekly credits need a day pair of %q or %q", models.BiweeklyPair1y16, models.BiweeklyPair5y20)
	}
	if in.StartDate.IsZero() {
		return nil, invalid("start date is required")
	}

	var terms ledger.Terms
	switch {
	case in.InstallmentValue != nil && in.InstallmentCount != nil:
		if *in.InstallmentValue <= 0 || *in.InstallmentCount <= 0 {
			return nil, invalid("installment overrides must be positive")
		}
		terms = ledger.Terms{
			InstallmentCount: *in.InstallmentCount,
			InstallmentValue: *in.InstallmentValue,
			TotalPayable:     *in.InstallmentValue * int64(*in.InstallmentCount),
		}
	case in.InstallmentValue != nil || in.InstallmentCount != nil:
		return nil, invalid("installment value and count must be overridden together")
	default:
		t, err := ledger.DefaultTerms(in.Principal, in.Frequency)
		if err != nil {
			return nil, invalid("%s", err)
		}
		terms = t
	}

	start := ledger.DateOnly(in.StartDate)
	schedule, err := ledger.GenerateSchedule(start, in.Frequency, in.BiweeklyPair, terms.InstallmentCount)
	if err != nil {
		return nil, invalid("%s", err)
	}

	return &models.Credit{
		ClientID:         in.ClientID,
		Principal:        in.Principal,
		PaperworkFee:     fee,
		DisbursedAmount:  disbursed,
		Frequency:        in.Frequency,
		BiweeklyPair:     in.BiweeklyPair,
		StartDate:        start,
		InstallmentValue: terms.InstallmentValue,
		InstallmentCount: terms.InstallmentCount,
		TotalPayable:     terms.TotalPayable,
		Tag:              in.Tag,
		Version:          1,
		Schedule:         schedule,
	}, nil
}

// GetCredit returns the annotated credit view, served from the redis
// cache when fresh enough.
func (s *CreditService) GetCredit(ctx context.Context, id uint) (CreditDetail, error) {
	return GetOrSet(s.cache, ctx, creditCacheKey(id), s.cacheTTL, func() (CreditDetail, error) {
		c, err := loadCredit(s.db.WithContext(ctx), id)
		if err != nil {
			return CreditDetail{}, err
		}
		return s.detail(c), nil
	})
}

// ListCredits returns credit views with their schedules. By default the
// active-collection view: renewed credits are excluded (they stay
// readable individually).
func (s *CreditService) ListCredits(ctx context.Context, includeRenewed bool) ([]CreditDetail, error) {
	q := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Schedule", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		Preload("Payments").
		Preload("Fines").
		Preload("FinePayments").
		Preload("Discounts")
	if !includeRenewed {
		q = q.Where("renewed = ?", false)
	}
	var credits []models.Credit
	if err := q.Order("id ASC").Find(&credits).Error; err != nil {
		return nil, err
	}

	details := make([]CreditDetail, 0, len(credits))
	for i := range credits {
		details = append(details, s.detail(&credits[i]))
	}
	return details, nil
}

func (s *CreditService) detail(c *models.Credit) CreditDetail {
	now := time.Now()
	var discountTotal int64
	for _, d := range c.Discounts {
		discountTotal += d.Amount
	}
	var collected int64
	for _, p := range c.Payments {
		collected += p.Amount
	}
	summary := CreditSummary{
		Status:             ledger.Classify(c, now),
		CollectedTotal:     collected,
		OutstandingBalance: ledger.OutstandingBalance(c),
		FinesOutstanding:   ledger.FinesOutstanding(c),
		DiscountTotal:      discountTotal,
		TotalDue:           c.TotalPayable - discountTotal,
	}
	if next := c.NextCollection(now); !next.IsZero() {
		summary.NextCollection = &next
	}
	return CreditDetail{Credit: *c, Status: summary.Status, Summary: summary}
}

func loadCredit(db *gorm.DB, id uint) (*models.Credit, error) {
	var c models.Credit
	err := db.
		Preload("Client").
		Preload("Schedule", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		Preload("Payments").
		Preload("Fines").
		Preload("FinePayments").
		Preload("Discounts").
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// mutate runs one serialized read-recompute-write cycle on a credit.
// fn appends or tombstones ledger entries on the loaded credit; the
// recompute and the guarded write-back are shared.
func (s *CreditService) mutate(ctx context.Context, creditID uint, fn func(tx *gorm.DB, c *models.Credit) error) (*models.Credit, error) {
	release, err := s.cache.AcquireLock(ctx, creditLockKey(creditID), s.lockTTL)
	if err != nil {
		if errors.Is(err, ErrLockHeld) {
			return nil, ErrConflict
		}
		return nil, err
	}
	defer release()

	var credit *models.Credit
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := loadCredit(tx, creditID)
		if err != nil {
			return err
		}
		if c.Renewed {
			return invalid("credit %d is renewed and no longer accepts changes", creditID)
		}
		if len(c.Schedule) != c.InstallmentCount {
			// Programming-invariant violation, not caller input: fail
			// loudly instead of clamping.
			return fmt.Errorf("credit %d: schedule length %d does not match installment count %d",
				c.ID, len(c.Schedule), c.InstallmentCount)
		}

		if err := fn(tx, c); err != nil {
			return err
		}

		res := ledger.Recompute(c, time.Now())
		if res.Unapplied > 0 {
			s.log.WithFields(logrus.Fields{
				"credit_id": c.ID,
				"unapplied": res.Unapplied,
			}).Warn("Payment capital could not be fully applied")
		}

		if err := s.persistRecompute(tx, c); err != nil {
			return err
		}
		credit = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Drop the cached view so the next read reflects this write.
	_ = s.cache.Delete(ctx, creditCacheKey(creditID))
	return credit, nil
}

// persistRecompute writes the recomputed annotations back, guarded by
// the optimistic version column. Zero rows affected means a concurrent
// writer won: surface a retryable conflict instead of last-write-wins.
func (s *CreditService) persistRecompute(tx *gorm.DB, c *models.Credit) error {
	guard := tx.Model(&models.Credit{}).
		Where("id = ? AND version = ?", c.ID, c.Version).
		Updates(map[string]interface{}{
			"version":         c.Version + 1,
			"renewed":         c.Renewed,
			"renewal_link_id": c.RenewalLinkID,
		})
	if guard.Error != nil {
		return guard.Error
	}
	if guard.RowsAffected == 0 {
		return ErrConflict
	}
	c.Version++

	for i := range c.Schedule {
		inst := &c.Schedule[i]
		err := tx.Model(&models.Installment{}).Where("id = ?", inst.ID).Updates(map[string]interface{}{
			"manually_paid":  inst.ManuallyPaid,
			"applied_amount": inst.AppliedAmount,
			"paid":           inst.Paid,
			"paid_date":      inst.PaidDate,
		}).Error
		if err != nil {
			return err
		}
	}
	for i := range c.Fines {
		f := &c.Fines[i]
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
}

// AddPayment appends an abono and recomputes the ledger.
func (s *CreditService) AddPayment(ctx context.Context, creditID uint, in PaymentInput) (*models.Credit, error) {
	if in.Amount <= 0 {
		return nil, invalid("payment amount must be positive")
	}
	if in.Date.IsZero() {
		return nil, invalid("payment date is required")
	}
	return s.mutate(ctx, creditID, func(tx *gorm.DB, c *models.Credit) error {
		if t := in.TargetInstallment; t != nil && (*t < 1 || *t > c.InstallmentCount) {
			return invalid("installment %d does not exist on this credit", *t)
		}
		p := models.Payment{
			UUID:              uuid.New().String(),
			CreditID:          c.ID,
			Amount:            in.Amount,
			Description:       in.Description,
			Date:              ledger.DateOnly(in.Date),
			TargetInstallment: in.TargetInstallment,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		c.Payments = append(c.Payments, p)
		return nil
	})
}

// DeletePayment tombstones an abono and recomputes the ledger. Paid
// flags earned through the deleted payment are rolled back by the
// recompute.
func (s *CreditService) DeletePayment(ctx context.Context, creditID, paymentID uint) (*models.Credit, error) {
	return s.mutate(ctx, creditID, func(tx *gorm.DB, c *models.Credit) error {
		idx := -1
		for i, p := range c.Payments {
			if p.ID == paymentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return invalid("payment %d not found on credit %d", paymentID, creditID)
		}
		if err := tx.Delete(&models.Payment{}, paymentID).Error; err != nil {
			return err
		}
		c.Payments = append(c.Payments[:idx], c.Payments[idx+1:]...)
		return nil
	})
}

// AddFine appends a multa to the credit's fine ledger.
func (s *CreditService) AddFine(ctx context.Context, creditID uint, in FineInput) (*models.Credit, error) {
	if in.Amount <= 0 {
		return nil, invalid("fine amount must be positive")
	}
	if in.Date.IsZero() {
		return nil, invalid("fine date is required")
	}
	return s.mutate(ctx, creditID, func(tx *gorm.DB, c *models.Credit) error {
		f := models.Fine{
			UUID:      uuid.New().String(),
			CreditID:  c.ID,
			Amount:    in.Amount,
			Reason:    in.Reason,
			Date:      ledger.DateOnly(in.Date),
			Remaining: in.Amount,
		}
		if err := tx.Create(&f).Error; err != nil {
			return err
		}
		c.Fines = append(c.Fines, f)
		return nil
	})
}

// DeleteFine tombstones a multa together with its abonos.
func (s *CreditService) DeleteFine(ctx context.Context, creditID, fineID uint) (*models.Credit, error) {
	return s.mutate(ctx, creditID, func(tx *gorm.DB, c *models.Credit) error {
		idx := -1
		for i, f := range c.Fines {
			if f.ID == fineID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return invalid("fine %d not found on credit %d", fineID, creditID)
		}
		if err := tx.Delete(&models.Fine{}, fineID).Error; err != nil {
			return err
		}
		if err := tx.Where("fine_id = ?", fineID).Delete(&models.FinePayment{}).Error; err != nil {
			return err
		}
		c.Fines = append(c.Fines[:idx], c.Fines[idx+1:]...)
		kept := c.FinePayments[:0]
		for _, fp := range c.FinePayments {
			if fp.FineID != fineID {
				kept = append(kept, fp)
			}
		}
		c.FinePayments = kept
		return nil
	})
}

// AddFinePayment appends a targeted abono de multa.
func (s *CreditService) AddFinePayment(ctx context.Context, creditID, fineID uint, in FinePaymentInput) (*models.Credit, error) {
	if in.Amount <= 0 {
		return nil, invalid("fine payment amount must be positive")
	}
	if in.Date.IsZero() {
		return nil, invalid("fine payment date is required")
	}
	return s.mutate(ctx, creditID, func(tx *gorm.DB, c *models.Credit) error {
		found := false
		for _, f := range c.Fines {
			if f.ID == fineID {
				found = true
				break
			}
		}
		if !found {
			return invalid("fine %d not found on credit %d", fineID, creditID)
		}
		fp := models.FinePayment{
			UUID:     uuid.New().String(),
			CreditID: c.ID,
			FineID:   fineID,
			Amount:   in.Amount,
			Date:     ledger.DateOnly(in.Date),
		}
		if err := tx.Create(&fp).Error; err != nil {
			return err
		}
		c.FinePayments = append(c.FinePayments, fp)
		return nil
	})
}

// DeleteFinePayment tombstones an abono de multa.
func (s *CreditService) DeleteFinePayment(ctx context.Context, creditID, finePaymentID uint) (*models.Credit, error) {
	return s.mutate(ctx, creditID, func(tx *gorm.DB, c *models.Credit) error {
		idx := -1
		for i, fp := range c.FinePayments {
			if fp.ID == finePaymentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return invalid("fine payment %d not found on credit %d", finePaymentID, creditID)
		}
		if err := tx.Delete(&models.FinePayment{}, finePaymentID).Error; err != nil {
			return err
		}
		c.FinePayments = append(c.FinePayments[:idx], c.FinePayments[idx+1:]...)
		return nil
	})
}

// AddDiscount appends a discount. Discounts adjust displayed totals
// only; the recompute is still run for uniformity of the write path.
func (s *CreditService) AddDiscount(ctx context.Context, creditID uint, in DiscountInput) (*models.Credit, error) {
	if in.Amount <= 0 {
		return nil, invalid("discount amount must be positive")
	}
	if !in.Kind.Valid() {
		return nil, invalid("unknown discount kind %q", in.Kind)
	}
	if in.Date.IsZero() {
		return nil, invalid("discount date is required")
	}
	return s.mutate(ctx, creditID, func(tx *gorm.DB, c *models.Credit) error {
		d := models.Discount{
			UUID:        uuid.New().String(),
			CreditID:    c.ID,
			Amount:      in.Amount,
			Kind:        in.Kind,
			Description: in.Description,
			Date:        ledger.DateOnly(in.Date),
		}
		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		c.Discounts = append(c.Discounts, d)
		return nil
	})
}

// DeleteDiscount tombstones a discount.
func (s *CreditService) DeleteDiscount(ctx context.Context, creditID, discountID uint) (*models.Credit, error) {
	return s.mutate(ctx, creditID, func(tx *gorm.DB, c *models.Credit) error {
		idx := -1
		for i, d := range c.Discounts {
			if d.ID == discountID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return invalid("discount %d not found on credit %d", discountID, creditID)
		}
		if err := tx.Delete(&models.Discount{}, discountID).Error; err != nil {
			return err
		}
		c.Discounts = append(c.Discounts[:idx], c.Discounts[idx+1:]...)
		return nil
	})
}

// SetInstallmentPaid toggles the manual paid override on one cuota.
// Turning it off hands the paid flag back to the allocation engine.
func (s *CreditService) SetInstallmentPaid(ctx context.Context, creditID uint, number int, paid bool) (*models.Credit, error) {
	return s.mutate(ctx, creditID, func(tx *gorm.DB, c *models.Credit) error {
		for i := range c.Schedule {
			if c.Schedule[i].Number == number {
				c.Schedule[i].ManuallyPaid = paid
				return nil
			}
		}
		return invalid("installment %d does not exist on this credit", number)
	})
}

// QuoteRenewal computes the payout of renewing a credit without
// committing anything.
func (s *CreditService) QuoteRenewal(ctx context.Context, creditID uint, newPrincipal int64, manualFee *int64) (ledger.RenewalQuote, error) {
	if newPrincipal <= 0 {
		return ledger.RenewalQuote{}, invalid("principal must be positive")
	}
	c, err := loadCredit(s.db.WithContext(ctx), creditID)
	if err != nil {
		return ledger.RenewalQuote{}, err
	}
	if c.Renewed {
		return ledger.RenewalQuote{}, invalid("credit %d is already renewed", creditID)
	}
	return ledger.QuoteRenewal(c, newPrincipal, manualFee), nil
}

// RenewCredit rolls a credit's outstanding capital into a new one: the
// old credit is marked renewed and linked, the new credit is created
// through ordinary credit creation with the payoff deducted from its
// disbursement. One transaction covers both.
func (s *CreditService) RenewCredit(ctx context.Context, creditID uint, in CreateCreditInput) (*models.Credit, ledger.RenewalQuote, error) {
	var (
		newCredit *models.Credit
		quote     ledger.RenewalQuote
	)
	_, err := s.mutate(ctx, creditID, func(tx *gorm.DB, old *models.Credit) error {
		quote = ledger.QuoteRenewal(old, in.Principal, in.PaperworkFee)
		if !quote.Accepted {
			return &RenewalRejectedError{Quote: quote}
		}

		if err := tx.First(&models.Client{}, in.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid("client %d not found", in.ClientID)
			}
			return err
		}
		c, err := buildCredit(in, quote.PaperworkFee, quote.DisbursedAmount)
		if err != nil {
			return err
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		newCredit = c

		old.Renewed = true
		old.RenewalLinkID = &c.ID
		return nil
	})
	if err != nil {
		return nil, quote, err
	}

	s.log.WithFields(logrus.Fields{
		"old_credit_id": creditID,
		"new_credit_id": newCredit.ID,
		"disbursed":     quote.DisbursedAmount,
	}).Info("Credit renewed")
	return newCredit, quote, nil
}

// Detail builds the annotated view for an already-loaded credit.
func (s *CreditService) Detail(c *models.Credit) CreditDetail {
	return s.detail(c)
}
