package handlers

import (
	"time"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

// Dates arrive as YYYY-MM-DD strings and are normalized server-side.
const dateLayout = "2006-01-02"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type RegisterUserRequest struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Type     models.UserType `json:"type" validate:"required,oneof=Admin Cobrador"`
}

type ClientRequest struct {
	Name     string `json:"name" validate:"required"`
	Document string `json:"document" validate:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// CreateCreditRequest carries new-credit terms. InstallmentValue and
// InstallmentCount must be overridden together; PaperworkFee overrides
// the formula when present.
type CreateCreditRequest struct {
	ClientID         uint                `json:"client_id" validate:"required"`
	Principal        int64               `json:"principal" validate:"required,gt=0"`
	Frequency        models.Frequency    `json:"frequency" validate:"required,oneof=diario semanal quincenal mensual"`
	BiweeklyPair     models.BiweeklyPair `json:"biweekly_pair" validate:"omitempty,oneof=1-16 5-20"`
	StartDate        string              `json:"start_date" validate:"required"`
	Tag              string              `json:"tag"`
	PaperworkFee     *int64              `json:"paperwork_fee" validate:"omitempty,gte=0"`
	InstallmentValue *int64              `json:"installment_value" validate:"omitempty,gt=0"`
	InstallmentCount *int                `json:"installment_count" validate:"omitempty,gt=0"`
}

type PaymentRequest struct {
	Amount            int64  `json:"amount" validate:"required,gt=0"`
	Description       string `json:"description"`
	Date              string `json:"date" validate:"required"`
	TargetInstallment *int   `json:"target_installment" validate:"omitempty,gte=1"`
}

type FineRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason"`
	Date   string `json:"date" validate:"required"`
}

type FinePaymentRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Date   string `json:"date" validate:"required"`
}

type DiscountRequest struct {
	Amount      int64               `json:"amount" validate:"required,gt=0"`
	Kind        models.DiscountKind `json:"kind" validate:"required,oneof=dias papeleria"`
	Description string              `json:"description"`
	Date        string              `json:"date" validate:"required"`
}

type MarkInstallmentRequest struct {
	Paid bool `json:"paid"`
}

type RenewalQuoteRequest struct {
	Principal    int64  `json:"principal" validate:"required,gt=0"`
	PaperworkFee *int64 `json:"paperwork_fee" validate:"omitempty,gte=0"`
}

// RenewCreditRequest is a CreateCreditRequest minus the client, which
// is inherited from the credit being renewed unless overridden.
type RenewCreditRequest struct {
	ClientID         uint                `json:"client_id"`
	Principal        int64               `json:"principal" validate:"required,gt=0"`
	Frequency        models.Frequency    `json:"frequency" validate:"required,oneof=diario semanal quincenal mensual"`
	BiweeklyPair     models.BiweeklyPair `json:"biweekly_pair" validate:"omitempty,oneof=1-16 5-20"`
	StartDate        string              `json:"start_date" validate:"required"`
	Tag              string              `json:"tag"`
	PaperworkFee     *int64              `json:"paperwork_fee" validate:"omitempty,gte=0"`
	InstallmentValue *int64              `json:"installment_value" validate:"omitempty,gt=0"`
	InstallmentCount *int                `json:"installment_count" validate:"omitempty,gt=0"`
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, time.Local)
}
