package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medledger/backend/internal/domain/ledger"
	"github.com/medledger/backend/internal/domain/shared"
)

// InvoiceService provides application-level invoice operations. Every
// read that returns money buckets recomputes them from the invoice and
// its payments; nothing derived is stored.
type InvoiceService struct {
	invoiceRepo ledger.InvoiceRepository
	paymentRepo ledger.PaymentTransactionRepository
	accountRepo ledger.HSAAccountRepository
	classifier  *ledger.EligibilityClassifier
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo ledger.InvoiceRepository,
	paymentRepo ledger.PaymentTransactionRepository,
	accountRepo ledger.HSAAccountRepository,
	classifier *ledger.EligibilityClassifier,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		accountRepo: accountRepo,
		classifier:  classifier,
	}
}

// InvoiceResponse represents an invoice in API responses, including the
// derived status and reconciliation breakdown
type InvoiceResponse struct {
	ID                       uuid.UUID                  `json:"id"`
	Date                     time.Time                  `json:"date"`
	Provider                 string                     `json:"provider"`
	Description              string                     `json:"description,omitempty"`
	Category                 string                     `json:"category"`
	IsHsaEligible            bool                       `json:"isHsaEligible"`
	ReimbursementStrategy    string                     `json:"reimbursementStrategy"`
	PlannedReimbursementDate *time.Time                 `json:"plannedReimbursementDate,omitempty"`
	CardPayoffMonths         int                        `json:"cardPayoffMonths,omitempty"`
	InvestmentNotes          string                     `json:"investmentNotes,omitempty"`
	Status                   string                     `json:"status"`
	Breakdown                ledger.AllocationBreakdown `json:"breakdown"`
	CreatedAt                time.Time                  `json:"createdAt"`
	UpdatedAt                time.Time                  `json:"updatedAt"`
	Version                  int                        `json:"version"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	Date                     time.Time       `json:"date" binding:"required"`
	Provider                 string          `json:"provider" binding:"required"`
	Description              string          `json:"description"`
	TotalAmount              decimal.Decimal `json:"totalAmount" binding:"required"`
	Category                 string          `json:"category" binding:"required"`
	IsHsaEligible            bool            `json:"isHsaEligible"`
	ReimbursementStrategy    string          `json:"reimbursementStrategy" binding:"required"`
	PlannedReimbursementDate *time.Time      `json:"plannedReimbursementDate"`
	CardPayoffMonths         int             `json:"cardPayoffMonths"`
	InvestmentNotes          string          `json:"investmentNotes"`
}

// UpdateInvoiceRequest represents a partial invoice update. Nil fields
// are left unchanged.
type UpdateInvoiceRequest struct {
	Provider                 *string          `json:"provider"`
	Description              *string          `json:"description"`
	TotalAmount              *decimal.Decimal `json:"totalAmount"`
	IsHsaEligible            *bool            `json:"isHsaEligible"`
	ReimbursementStrategy    *string          `json:"reimbursementStrategy"`
	PlannedReimbursementDate *time.Time       `json:"plannedReimbursementDate"`
	CardPayoffMonths         *int             `json:"cardPayoffMonths"`
	InvestmentNotes          *string          `json:"investmentNotes"`
}

// InvoiceListFilter defines filtering options for invoice list queries
type InvoiceListFilter struct {
	Search              string     `form:"search"`
	Category            string     `form:"category"`
	Strategy            string     `form:"strategy"`
	IsHsaEligible       *bool      `form:"isHsaEligible"`
	FromDate            *time.Time `form:"fromDate"`
	ToDate              *time.Time `form:"toDate"`
	HideFullyReimbursed bool       `form:"hideFullyReimbursed"`
	Page                int        `form:"page"`
	PageSize            int        `form:"pageSize"`
}

// InvoiceListResponse carries a page of invoices plus the total count
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Total int64             `json:"total"`
}

// CreateInvoice creates a new invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := ledger.NewInvoice(
		userID,
		req.Date,
		req.Provider,
		req.TotalAmount,
		ledger.InvoiceCategory(req.Category),
		req.IsHsaEligible,
		ledger.ReimbursementStrategy(req.ReimbursementStrategy),
	)
	if err != nil {
		return nil, err
	}
	invoice.Description = req.Description
	invoice.CardPayoffMonths = req.CardPayoffMonths
	invoice.InvestmentNotes = req.InvestmentNotes
	if req.PlannedReimbursementDate != nil {
		if err := invoice.Retag(invoice.ReimbursementStrategy, req.PlannedReimbursementDate); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, invoice, nil)
}

// GetInvoiceByID gets an invoice with its freshly computed breakdown
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, userID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return s.toResponse(ctx, invoice, nil)
}

// GetBreakdown recomputes the reconciliation breakdown for one invoice
func (s *InvoiceService) GetBreakdown(ctx context.Context, userID, id uuid.UUID) (*ledger.AllocationBreakdown, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	payments, err := s.paymentRepo.FindByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	b := s.classifier.Classify(invoice, ledger.Allocate(invoice, payments), payments, accounts)
	return &b, nil
}

// UpdateInvoice applies a partial update to an invoice
func (s *InvoiceService) UpdateInvoice(ctx context.Context, userID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	if req.TotalAmount != nil {
		if err := invoice.AmendTotal(*req.TotalAmount); err != nil {
			return nil, err
		}
	}
	if req.ReimbursementStrategy != nil || req.PlannedReimbursementDate != nil {
		strategy := invoice.ReimbursementStrategy
		if req.ReimbursementStrategy != nil {
			strategy = ledger.ReimbursementStrategy(*req.ReimbursementStrategy)
		}
		planned := invoice.PlannedReimbursementDate
		if req.PlannedReimbursementDate != nil {
			planned = req.PlannedReimbursementDate
		}
		if err := invoice.Retag(strategy, planned); err != nil {
			return nil, err
		}
	}
	if req.IsHsaEligible != nil {
		invoice.SetHsaEligible(*req.IsHsaEligible)
	}
	if req.Provider != nil {
		invoice.Provider = *req.Provider
	}
	if req.Description != nil {
		invoice.Description = *req.Description
	}
	if req.CardPayoffMonths != nil {
		invoice.CardPayoffMonths = *req.CardPayoffMonths
	}
	if req.InvestmentNotes != nil {
		invoice.InvestmentNotes = *req.InvestmentNotes
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, invoice, nil)
}

// DeleteInvoice removes an invoice
func (s *InvoiceService) DeleteInvoice(ctx context.Context, userID, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return s.invoiceRepo.Delete(ctx, userID, id)
}

// ListInvoices returns a page of invoices with derived breakdowns.
// HideFullyReimbursed is applied after the breakdowns are computed, as
// a post-filter; the calculation itself never changes with UI toggles.
func (s *InvoiceService) ListInvoices(ctx context.Context, userID uuid.UUID, filter InvoiceListFilter) (*InvoiceListResponse, error) {
	repoFilter := toRepoFilter(filter)

	invoices, err := s.invoiceRepo.FindAllForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.CountForUser(ctx, userID, repoFilter)
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

	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		payments := paymentsByInvoice[inv.ID]
		b := s.classifier.Classify(inv, ledger.Allocate(inv, payments), payments, accounts)
		if filter.HideFullyReimbursed && isFullyReimbursed(b, payments) {
			continue
		}
		items = append(items, newInvoiceResponse(inv, b))
	}

	return &InvoiceListResponse{Items: items, Total: total}, nil
}

// isFullyReimbursed reports whether nothing actionable remains on the
// invoice: no open balance, no recoverable out-of-pocket money.
func isFullyReimbursed(b ledger.AllocationBreakdown, payments []ledger.PaymentTransaction) bool {
	if b.UnpaidBalance.IsPositive() || b.AlreadyPaidRecoverable.IsPositive() {
		return false
	}
	for _, p := range payments {
		if p.IsRecoverable() {
			return false
		}
	}
	return b.TotalInvoiced.IsPositive()
}

func toRepoFilter(filter InvoiceListFilter) ledger.InvoiceFilter {
	f := ledger.InvoiceFilter{
		Filter:   shared.DefaultFilter(),
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}
	f.Search = filter.Search
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Category != "" {
		c := ledger.InvoiceCategory(filter.Category)
		f.Category = &c
	}
	if filter.Strategy != "" {
		st := ledger.ReimbursementStrategy(filter.Strategy)
		f.Strategy = &st
	}
	f.IsHsaEligible = filter.IsHsaEligible
	return f
}

// toResponse computes the breakdown for a single invoice. The payments
// slice may be passed in when the caller already has it.
func (s *InvoiceService) toResponse(ctx context.Context, invoice *ledger.Invoice, payments []ledger.PaymentTransaction) (*InvoiceResponse, error) {
	if payments == nil {
		var err error
		payments, err = s.paymentRepo.FindByInvoice(ctx, invoice.ID)
		if err != nil {
			return nil, err
		}
	}
	accounts, err := s.accountRepo.FindAllForUser(ctx, invoice.UserID)
	if err != nil {
		return nil, err
	}
	b := s.classifier.Classify(invoice, ledger.Allocate(invoice, payments), payments, accounts)
	resp := newInvoiceResponse(invoice, b)
	return &resp, nil
}

func newInvoiceResponse(invoice *ledger.Invoice, b ledger.AllocationBreakdown) InvoiceResponse {
	return InvoiceResponse{
		ID:                       invoice.ID,
		Date:                     invoice.ServiceDate,
		Provider:                 invoice.Provider,
		Description:              invoice.Description,
		Category:                 string(invoice.Category),
		IsHsaEligible:            invoice.IsHsaEligible,
		ReimbursementStrategy:    invoice.ReimbursementStrategy.String(),
		PlannedReimbursementDate: invoice.PlannedReimbursementDate,
		CardPayoffMonths:         invoice.CardPayoffMonths,
		InvestmentNotes:          invoice.InvestmentNotes,
		Status:                   ledger.StatusOf(b).String(),
		Breakdown:                b,
		CreatedAt:                invoice.CreatedAt,
		UpdatedAt:                invoice.UpdatedAt,
		Version:                  invoice.GetVersion(),
	}
}
