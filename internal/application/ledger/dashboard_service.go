package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medledger/backend/internal/domain/ledger"
	"github.com/medledger/backend/internal/domain/shared"
)

// DashboardService rolls every invoice's breakdown into one summary.
// Nothing here is cached; the numbers are recomputed from the ledger on
// every request so edits and payments show up immediately.
type DashboardService struct {
	invoiceRepo ledger.InvoiceRepository
	paymentRepo ledger.PaymentTransactionRepository
	accountRepo ledger.HSAAccountRepository
	classifier  *ledger.EligibilityClassifier
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	invoiceRepo ledger.InvoiceRepository,
	paymentRepo ledger.PaymentTransactionRepository,
	accountRepo ledger.HSAAccountRepository,
	classifier *ledger.EligibilityClassifier,
) *DashboardService {
	return &DashboardService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		accountRepo: accountRepo,
		classifier:  classifier,
	}
}

// DashboardSummaryResponse aggregates the reconciliation buckets across
// every invoice the user has
type DashboardSummaryResponse struct {
	InvoiceCount               int              `json:"invoiceCount"`
	TotalInvoiced              decimal.Decimal  `json:"totalInvoiced"`
	PaidViaHSA                 decimal.Decimal  `json:"paidViaHSA"`
	PaidViaOther               decimal.Decimal  `json:"paidViaOther"`
	UnpaidBalance              decimal.Decimal  `json:"unpaidBalance"`
	OverpaidAmount             decimal.Decimal  `json:"overpaidAmount"`
	HsaReimbursementEligible   decimal.Decimal  `json:"hsaReimbursementEligible"`
	AlreadyPaidRecoverable     decimal.Decimal  `json:"alreadyPaidRecoverable"`
	UnpaidStrategicOpportunity decimal.Decimal  `json:"unpaidStrategicOpportunity"`
	WindowIneligible           decimal.Decimal  `json:"windowIneligible"`
	StatusCounts               map[string]int   `json:"statusCounts"`
	Warnings                   []shared.Warning `json:"warnings,omitempty"`
}

// GetSummary computes the dashboard totals for a user
func (s *DashboardService) GetSummary(ctx context.Context, userID uuid.UUID) (*DashboardSummaryResponse, error) {
	filter := ledger.InvoiceFilter{Filter: shared.Filter{Page: 1, PageSize: 0}}
	invoices, err := s.invoiceRepo.FindAllForUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
	}
	paymentsByInvoice, err := s.paymentRepo.FindByInvoices(ctx, ids)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &DashboardSummaryResponse{
		InvoiceCount:               len(invoices),
		TotalInvoiced:              decimal.Zero,
		PaidViaHSA:                 decimal.Zero,
		PaidViaOther:               decimal.Zero,
		UnpaidBalance:              decimal.Zero,
		OverpaidAmount:             decimal.Zero,
		HsaReimbursementEligible:   decimal.Zero,
		AlreadyPaidRecoverable:     decimal.Zero,
		UnpaidStrategicOpportunity: decimal.Zero,
		WindowIneligible:           decimal.Zero,
		StatusCounts:               make(map[string]int),
	}

	for i := range invoices {
		inv := &invoices[i]
		payments := paymentsByInvoice[inv.ID]
		b := s.classifier.Classify(inv, ledger.Allocate(inv, payments), payments, accounts)

		resp.TotalInvoiced = resp.TotalInvoiced.Add(b.TotalInvoiced)
		resp.PaidViaHSA = resp.PaidViaHSA.Add(b.PaidViaHSA)
		resp.PaidViaOther = resp.PaidViaOther.Add(b.PaidViaOther)
		resp.UnpaidBalance = resp.UnpaidBalance.Add(b.UnpaidBalance)
		resp.OverpaidAmount = resp.OverpaidAmount.Add(b.OverpaidAmount)
		resp.HsaReimbursementEligible = resp.HsaReimbursementEligible.Add(b.HsaReimbursementEligible)
		resp.AlreadyPaidRecoverable = resp.AlreadyPaidRecoverable.Add(b.AlreadyPaidRecoverable)
		resp.UnpaidStrategicOpportunity = resp.UnpaidStrategicOpportunity.Add(b.UnpaidStrategicOpportunity)
		resp.WindowIneligible = resp.WindowIneligible.Add(b.WindowIneligible)
		resp.StatusCounts[ledger.StatusOf(b).String()]++
		resp.Warnings = append(resp.Warnings, b.Warnings...)
	}

	return resp, nil
}
