package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medledger/backend/internal/domain/shared"
	"github.com/medledger/backend/internal/domain/shared/valueobject"
)

// PaymentSource identifies which pool of money settled (part of) a bill
type PaymentSource string

const (
	// SourceHSADirect - paid straight from the HSA debit card or transfer
	SourceHSADirect PaymentSource = "hsa_direct"
	// SourceOutOfPocket - paid with non-HSA funds (cash, rewards card)
	SourceOutOfPocket PaymentSource = "out_of_pocket"
)

// IsValid checks if the payment source is valid
func (s PaymentSource) IsValid() bool {
	return s == SourceHSADirect || s == SourceOutOfPocket
}

// String returns the string representation of the payment source
func (s PaymentSource) String() string {
	return string(s)
}

// PaymentTransaction records one payment applied against an invoice.
// Many transactions may reference a single invoice. IsReimbursed is only
// meaningful for out-of-pocket payments: it marks money that has already
// been pulled back out of the HSA.
type PaymentTransaction struct {
	shared.BaseEntity
	UserID       uuid.UUID       `json:"userId"`
	InvoiceID    uuid.UUID       `json:"invoiceId"`
	PaymentDate  time.Time       `json:"paymentDate"`
	Amount       decimal.Decimal `json:"amount"`
	Source       PaymentSource   `json:"paymentSource"`
	IsReimbursed bool            `json:"isReimbursed"`
	ReimbursedAt *time.Time      `json:"reimbursedAt,omitempty"`
	Remark       string          `json:"remark,omitempty"`
}

// NewPaymentTransaction creates a payment against an invoice
func NewPaymentTransaction(
	userID, invoiceID uuid.UUID,
	paymentDate time.Time,
	amount decimal.Decimal,
	source PaymentSource,
) (*PaymentTransaction, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_DATE", "Payment date is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_SOURCE", "Payment source is not valid")
	}

	return &PaymentTransaction{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		InvoiceID:   invoiceID,
		PaymentDate: paymentDate,
		Amount:      amount,
		Source:      source,
	}, nil
}

// AmountMoney returns the payment amount as a Money value object
func (p *PaymentTransaction) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Amount)
}

// IsRecoverable reports whether this payment represents out-of-pocket
// money that has not yet been reimbursed from the HSA
func (p *PaymentTransaction) IsRecoverable() bool {
	return p.Source == SourceOutOfPocket && !p.IsReimbursed
}

// MarkReimbursed records that this out-of-pocket payment has been
// reimbursed from the HSA
func (p *PaymentTransaction) MarkReimbursed() error {
	if p.Source != SourceOutOfPocket {
		return shared.NewDomainError("INVALID_STATE", "Only out-of-pocket payments can be reimbursed")
	}
	if p.IsReimbursed {
		return shared.NewDomainError("INVALID_STATE", "Payment has already been reimbursed")
	}
	now := time.Now()
	p.IsReimbursed = true
	p.ReimbursedAt = &now
	p.Touch()
	return nil
}
