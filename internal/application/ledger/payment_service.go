package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medledger/backend/internal/domain/ledger"
	"github.com/medledger/backend/internal/domain/shared"
)

// PaymentService records payments against invoices. Duplicate
// submissions carrying the same idempotency key are rejected before any
// write happens, so a double-clicked form or a retried request cannot
// insert the same payment twice.
type PaymentService struct {
	paymentRepo ledger.PaymentTransactionRepository
	invoiceRepo ledger.InvoiceRepository
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo ledger.PaymentTransactionRepository,
	invoiceRepo ledger.InvoiceRepository,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		idempotency: idempotency,
		idemConfig:  idemConfig,
	}
}

// PaymentResponse represents a payment transaction in API responses
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceID     uuid.UUID       `json:"invoiceId"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentSource string          `json:"paymentSource"`
	IsReimbursed  bool            `json:"isReimbursed"`
	ReimbursedAt  *time.Time      `json:"reimbursedAt,omitempty"`
	Remark        string          `json:"remark,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// RecordPaymentRequest represents a request to record a payment
type RecordPaymentRequest struct {
	InvoiceID      uuid.UUID       `json:"invoiceId" binding:"required"`
	PaymentDate    time.Time       `json:"paymentDate" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	PaymentSource  string          `json:"paymentSource" binding:"required"`
	Remark         string          `json:"remark"`
	IdempotencyKey string          `json:"-"` // From the Idempotency-Key header
}

// RecordPayment records a payment against one of the user's invoices
func (s *PaymentService) RecordPayment(ctx context.Context, userID uuid.UUID, req RecordPaymentRequest) (*PaymentResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	if s.idemConfig.Enabled && req.IdempotencyKey != "" {
		fresh, err := s.idempotency.MarkProcessed(ctx, paymentIdemKey(userID, req.IdempotencyKey), s.idemConfig.TTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, shared.NewDomainError("DUPLICATE_PAYMENT",
				"A payment with this idempotency key was already recorded")
		}
	}

	payment, err := ledger.NewPaymentTransaction(
		userID,
		invoice.ID,
		req.PaymentDate,
		req.Amount,
		ledger.PaymentSource(req.PaymentSource),
	)
	if err != nil {
		return nil, err
	}
	payment.Remark = req.Remark

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// ListPayments returns every payment recorded against an invoice
func (s *PaymentService) ListPayments(ctx context.Context, userID, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	payments, err := s.paymentRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = *toPaymentResponse(&payments[i])
	}
	return responses, nil
}

// MarkReimbursed flags an out-of-pocket payment as recovered from the HSA
func (s *PaymentService) MarkReimbursed(ctx context.Context, userID, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.UserID != userID {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}

	if err := payment.MarkReimbursed(); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// DeletePayment removes a payment record
func (s *PaymentService) DeletePayment(ctx context.Context, userID, paymentID uuid.UUID) error {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment == nil || payment.UserID != userID {
		return shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	return s.paymentRepo.Delete(ctx, paymentID)
}

func paymentIdemKey(userID uuid.UUID, key string) string {
	return "payment:" + userID.String() + ":" + key
}

func toPaymentResponse(p *ledger.PaymentTransaction) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		PaymentDate:   p.PaymentDate,
		Amount:        p.Amount,
		PaymentSource: string(p.Source),
		IsReimbursed:  p.IsReimbursed,
		ReimbursedAt:  p.ReimbursedAt,
		Remark:        p.Remark,
		CreatedAt:     p.CreatedAt,
	}
}
