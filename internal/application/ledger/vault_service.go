package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medledger/backend/internal/domain/ledger"
)

// VaultService aggregates the deferred-reimbursement portfolio. The
// annual return rate comes from configuration and can be overridden per
// request for what-if projections.
type VaultService struct {
	invoiceRepo       ledger.InvoiceRepository
	defaultAnnualRate float64
	now               func() time.Time
}

// VaultOption is a functional option for configuring VaultService
type VaultOption func(*VaultService)

// WithClock overrides the time source, used in tests
func WithClock(now func() time.Time) VaultOption {
	return func(s *VaultService) {
		s.now = now
	}
}

// NewVaultService creates a new VaultService
func NewVaultService(invoiceRepo ledger.InvoiceRepository, defaultAnnualRate float64, opts ...VaultOption) *VaultService {
	s := &VaultService{
		invoiceRepo:       invoiceRepo,
		defaultAnnualRate: defaultAnnualRate,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VaultExpenseResponse is one vaulted expense with its projected value
type VaultExpenseResponse struct {
	ID                       uuid.UUID       `json:"id"`
	Date                     time.Time       `json:"date"`
	Amount                   decimal.Decimal `json:"amount"`
	ReimbursementStrategy    string          `json:"reimbursementStrategy"`
	PlannedReimbursementDate *time.Time      `json:"plannedReimbursementDate,omitempty"`
	YearsInvested            float64         `json:"yearsInvested"`
	ProjectedValue           decimal.Decimal `json:"projectedValue"`
	InvestmentNotes          string          `json:"investmentNotes,omitempty"`
}

// VaultSummaryResponse is the portfolio view plus the rate it was
// computed with
type VaultSummaryResponse struct {
	ledger.VaultSummary
	AnnualReturnRate float64                `json:"annualReturnRate"`
	Expenses         []VaultExpenseResponse `json:"expenses"`
}

// GetSummary computes the vault portfolio summary for a user. A nil
// rateOverride uses the configured default rate.
func (s *VaultService) GetSummary(ctx context.Context, userID uuid.UUID, rateOverride *float64) (*VaultSummaryResponse, error) {
	rate := s.defaultAnnualRate
	if rateOverride != nil {
		rate = *rateOverride
	}

	invoices, err := s.invoiceRepo.FindByStrategyForUser(ctx, userID,
		[]ledger.ReimbursementStrategy{ledger.StrategyMedium, ledger.StrategyVault})
	if err != nil {
		return nil, err
	}

	expenses := make([]ledger.VaultExpense, 0, len(invoices))
	for i := range invoices {
		expenses = append(expenses, invoices[i].VaultExpense())
	}

	summary, err := ledger.Summarize(expenses, rate, s.now())
	if err != nil {
		return nil, err
	}

	detailed := make([]VaultExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		if !e.ReimbursementStrategy.IsDeferred() {
			continue
		}
		projected, err := ledger.ProjectValue(e, rate)
		if err != nil {
			return nil, err
		}
		detailed = append(detailed, VaultExpenseResponse{
			ID:                       e.ID,
			Date:                     e.Date,
			Amount:                   e.Amount,
			ReimbursementStrategy:    e.ReimbursementStrategy.String(),
			PlannedReimbursementDate: e.PlannedReimbursementDate,
			YearsInvested:            ledger.ElapsedYears(e),
			ProjectedValue:           projected,
			InvestmentNotes:          e.InvestmentNotes,
		})
	}

	return &VaultSummaryResponse{
		VaultSummary:     summary,
		AnnualReturnRate: rate,
		Expenses:         detailed,
	}, nil
}
