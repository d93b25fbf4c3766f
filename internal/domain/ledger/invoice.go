package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medledger/backend/internal/domain/shared"
	"github.com/medledger/backend/internal/domain/shared/valueobject"
)

// ReimbursementStrategy describes how the user intends to recover an
// HSA-eligible expense from their account.
type ReimbursementStrategy string

const (
	// StrategyImmediate - reimburse from the HSA right away
	StrategyImmediate ReimbursementStrategy = "immediate"
	// StrategyMedium - hold for a few years, then reimburse
	StrategyMedium ReimbursementStrategy = "medium"
	// StrategyVault - leave invested indefinitely; reimburse decades later
	StrategyVault ReimbursementStrategy = "vault"
)

// IsValid checks if the strategy is a valid ReimbursementStrategy
func (s ReimbursementStrategy) IsValid() bool {
	switch s {
	case StrategyImmediate, StrategyMedium, StrategyVault:
		return true
	}
	return false
}

// String returns the string representation of the strategy
func (s ReimbursementStrategy) String() string {
	return string(s)
}

// IsDeferred returns true for strategies that participate in the vault
// (money deliberately left invested instead of reimbursed now)
func (s ReimbursementStrategy) IsDeferred() bool {
	return s == StrategyMedium || s == StrategyVault
}

// AllReimbursementStrategies returns all valid strategies
func AllReimbursementStrategies() []ReimbursementStrategy {
	return []ReimbursementStrategy{StrategyImmediate, StrategyMedium, StrategyVault}
}

// InvoiceCategory classifies the kind of medical expense
type InvoiceCategory string

const (
	CategoryMedical  InvoiceCategory = "medical"
	CategoryDental   InvoiceCategory = "dental"
	CategoryVision   InvoiceCategory = "vision"
	CategoryPharmacy InvoiceCategory = "pharmacy"
	CategoryOther    InvoiceCategory = "other"
)

// IsValid checks if the category is known
func (c InvoiceCategory) IsValid() bool {
	switch c {
	case CategoryMedical, CategoryDental, CategoryVision, CategoryPharmacy, CategoryOther:
		return true
	}
	return false
}

// Invoice is the aggregate root for a single medical bill. It is created
// on bill entry and mutated by edits and payments; the engine never
// deletes it. TotalAmount is the authoritative invoiced total; Amount is
// the legacy field older records populated instead, and the two are
// treated as equivalent when resolving the invoiced total.
type Invoice struct {
	shared.UserAggregateRoot
	ServiceDate              time.Time             `json:"date"`
	Provider                 string                `json:"provider"`
	Description              string                `json:"description"`
	TotalAmount              *decimal.Decimal      `json:"totalAmount"`
	Amount                   *decimal.Decimal      `json:"amount"` // legacy invoiced total
	Category                 InvoiceCategory       `json:"category"`
	IsHsaEligible            bool                  `json:"isHsaEligible"`
	ReimbursementStrategy    ReimbursementStrategy `json:"reimbursementStrategy"`
	PlannedReimbursementDate *time.Time            `json:"plannedReimbursementDate"`
	CardPayoffMonths         int                   `json:"cardPayoffMonths"`
	InvestmentNotes          string                `json:"investmentNotes"`
}

// NewInvoice creates a new invoice for the given user
func NewInvoice(
	userID uuid.UUID,
	serviceDate time.Time,
	provider string,
	totalAmount decimal.Decimal,
	category InvoiceCategory,
	isHsaEligible bool,
	strategy ReimbursementStrategy,
) (*Invoice, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if serviceDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_SERVICE_DATE", "Service date is required")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice total cannot be negative")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Invoice category is not valid")
	}
	if !strategy.IsValid() {
		return nil, shared.NewDomainError("INVALID_STRATEGY", "Reimbursement strategy is not valid")
	}

	return &Invoice{
		UserAggregateRoot:     shared.NewUserAggregateRoot(userID),
		ServiceDate:           serviceDate,
		Provider:              provider,
		TotalAmount:           &totalAmount,
		Category:              category,
		IsHsaEligible:         isHsaEligible,
		ReimbursementStrategy: strategy,
	}, nil
}

// TotalInvoiced resolves the invoiced total, falling back to the legacy
// amount field. Missing both yields zero, not an error: every
// downstream bucket resolves to zero / no-charge.
func (i *Invoice) TotalInvoiced() valueobject.Money {
	if i.TotalAmount != nil {
		return valueobject.NewMoneyUSD(*i.TotalAmount)
	}
	if i.Amount != nil {
		return valueobject.NewMoneyUSD(*i.Amount)
	}
	return valueobject.ZeroUSD()
}

// HasTotal reports whether either total field is populated
func (i *Invoice) HasTotal() bool {
	return i.TotalAmount != nil || i.Amount != nil
}

// AmendTotal replaces the invoiced total
func (i *Invoice) AmendTotal(total decimal.Decimal) error {
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Invoice total cannot be negative")
	}
	i.TotalAmount = &total
	i.Amount = nil
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Retag changes the reimbursement strategy and planned reimbursement date
func (i *Invoice) Retag(strategy ReimbursementStrategy, plannedDate *time.Time) error {
	if !strategy.IsValid() {
		return shared.NewDomainError("INVALID_STRATEGY", "Reimbursement strategy is not valid")
	}
	if plannedDate != nil && plannedDate.Before(i.ServiceDate) {
		return shared.NewDomainError("INVALID_PLANNED_DATE", "Planned reimbursement date cannot precede the service date")
	}
	i.ReimbursementStrategy = strategy
	i.PlannedReimbursementDate = plannedDate
	i.Touch()
	i.IncrementVersion()
	return nil
}

// SetHsaEligible flips the category-level HSA eligibility flag
func (i *Invoice) SetHsaEligible(eligible bool) {
	i.IsHsaEligible = eligible
	i.Touch()
	i.IncrementVersion()
}

// VaultExpense projects the invoice into the vault tracker's view.
// Only meaningful for deferred strategies; callers filter first.
func (i *Invoice) VaultExpense() VaultExpense {
	return VaultExpense{
		ID:                       i.ID,
		Date:                     i.ServiceDate,
		Amount:                   i.TotalInvoiced().Amount(),
		ReimbursementStrategy:    i.ReimbursementStrategy,
		PlannedReimbursementDate: i.PlannedReimbursementDate,
		CardPayoffMonths:         i.CardPayoffMonths,
		InvestmentNotes:          i.InvestmentNotes,
	}
}
