package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medledger/backend/internal/domain/ledger"
	"github.com/medledger/backend/internal/domain/shared"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// TotalAmount and Amount are both nullable: Amount is the legacy total
// column older rows populated; new writes always fill TotalAmount.
type InvoiceModel struct {
	UserAggregateModel
	ServiceDate              time.Time                    `gorm:"not null;index"`
	Provider                 string                       `gorm:"type:varchar(200);not null"`
	Description              string                       `gorm:"type:text"`
	TotalAmount              *decimal.Decimal             `gorm:"type:decimal(18,4)"`
	Amount                   *decimal.Decimal             `gorm:"type:decimal(18,4)"`
	Category                 ledger.InvoiceCategory       `gorm:"type:varchar(20);not null;index"`
	IsHsaEligible            bool                         `gorm:"not null;default:false;index"`
	ReimbursementStrategy    ledger.ReimbursementStrategy `gorm:"type:varchar(20);not null;index"`
	PlannedReimbursementDate *time.Time                   `gorm:"index"`
	CardPayoffMonths         int                          `gorm:"not null;default:0"`
	InvestmentNotes          string                       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *ledger.Invoice {
	inv := &ledger.Invoice{
		ServiceDate:              m.ServiceDate,
		Provider:                 m.Provider,
		Description:              m.Description,
		TotalAmount:              m.TotalAmount,
		Amount:                   m.Amount,
		Category:                 m.Category,
		IsHsaEligible:            m.IsHsaEligible,
		ReimbursementStrategy:    m.ReimbursementStrategy,
		PlannedReimbursementDate: m.PlannedReimbursementDate,
		CardPayoffMonths:         m.CardPayoffMonths,
		InvestmentNotes:          m.InvestmentNotes,
	}
	m.PopulateUserAggregateRoot(&inv.UserAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *ledger.Invoice) {
	m.FromDomainUserAggregateRoot(inv.UserAggregateRoot)
	m.ServiceDate = inv.ServiceDate
	m.Provider = inv.Provider
	m.Description = inv.Description
	m.TotalAmount = inv.TotalAmount
	m.Amount = inv.Amount
	m.Category = inv.Category
	m.IsHsaEligible = inv.IsHsaEligible
	m.ReimbursementStrategy = inv.ReimbursementStrategy
	m.PlannedReimbursementDate = inv.PlannedReimbursementDate
	m.CardPayoffMonths = inv.CardPayoffMonths
	m.InvestmentNotes = inv.InvestmentNotes
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *ledger.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PaymentTransactionModel is the persistence model for PaymentTransaction
type PaymentTransactionModel struct {
	BaseModel
	UserID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	InvoiceID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	PaymentDate  time.Time            `gorm:"not null;index"`
	Amount       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Source       ledger.PaymentSource `gorm:"type:varchar(20);not null;index"`
	IsReimbursed bool                 `gorm:"not null;default:false;index"`
	ReimbursedAt *time.Time
	Remark       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentTransactionModel) TableName() string {
	return "payment_transactions"
}

// ToDomain converts the persistence model to a domain PaymentTransaction
func (m *PaymentTransactionModel) ToDomain() *ledger.PaymentTransaction {
	return &ledger.PaymentTransaction{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:       m.UserID,
		InvoiceID:    m.InvoiceID,
		PaymentDate:  m.PaymentDate,
		Amount:       m.Amount,
		Source:       m.Source,
		IsReimbursed: m.IsReimbursed,
		ReimbursedAt: m.ReimbursedAt,
		Remark:       m.Remark,
	}
}

// FromDomain populates the persistence model from a domain PaymentTransaction
func (m *PaymentTransactionModel) FromDomain(p *ledger.PaymentTransaction) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.UserID = p.UserID
	m.InvoiceID = p.InvoiceID
	m.PaymentDate = p.PaymentDate
	m.Amount = p.Amount
	m.Source = p.Source
	m.IsReimbursed = p.IsReimbursed
	m.ReimbursedAt = p.ReimbursedAt
	m.Remark = p.Remark
}

// PaymentTransactionModelFromDomain creates a new persistence model from
// a domain PaymentTransaction
func PaymentTransactionModelFromDomain(p *ledger.PaymentTransaction) *PaymentTransactionModel {
	m := &PaymentTransactionModel{}
	m.FromDomain(p)
	return m
}

// HSAAccountModel is the persistence model for HSAAccount
type HSAAccountModel struct {
	UserAggregateModel
	AccountName string    `gorm:"type:varchar(200);not null"`
	OpenedDate  time.Time `gorm:"not null"`
	ClosedDate  *time.Time
	IsActive    bool `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (HSAAccountModel) TableName() string {
	return "hsa_accounts"
}

// ToDomain converts the persistence model to a domain HSAAccount
func (m *HSAAccountModel) ToDomain() *ledger.HSAAccount {
	a := &ledger.HSAAccount{
		AccountName: m.AccountName,
		OpenedDate:  m.OpenedDate,
		ClosedDate:  m.ClosedDate,
		IsActive:    m.IsActive,
	}
	m.PopulateUserAggregateRoot(&a.UserAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain HSAAccount
func (m *HSAAccountModel) FromDomain(a *ledger.HSAAccount) {
	m.FromDomainUserAggregateRoot(a.UserAggregateRoot)
	m.AccountName = a.AccountName
	m.OpenedDate = a.OpenedDate
	m.ClosedDate = a.ClosedDate
	m.IsActive = a.IsActive
}

// HSAAccountModelFromDomain creates a new persistence model from a
// domain HSAAccount
func HSAAccountModelFromDomain(a *ledger.HSAAccount) *HSAAccountModel {
	m := &HSAAccountModel{}
	m.FromDomain(a)
	return m
}
