package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medledger/backend/internal/domain/shared"
)

// InvoiceFilter holds invoice listing parameters
type InvoiceFilter struct {
	shared.Filter
	Category      *InvoiceCategory
	Strategy      *ReimbursementStrategy
	IsHsaEligible *bool
	FromDate      *time.Time
	ToDate        *time.Time
}

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Invoice, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)
	FindByStrategyForUser(ctx context.Context, userID uuid.UUID, strategies []ReimbursementStrategy) ([]Invoice, error)
	CountForUser(ctx context.Context, userID uuid.UUID, filter InvoiceFilter) (int64, error)
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// PaymentTransactionRepository persists payment transactions
type PaymentTransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentTransaction, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]PaymentTransaction, error)
	FindByInvoices(ctx context.Context, invoiceIDs []uuid.UUID) (map[uuid.UUID][]PaymentTransaction, error)
	FindRecoverableForUser(ctx context.Context, userID uuid.UUID) ([]PaymentTransaction, error)
	Save(ctx context.Context, payment *PaymentTransaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// HSAAccountRepository persists HSA account records
type HSAAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*HSAAccount, error)
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*HSAAccount, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID) ([]HSAAccount, error)
	Save(ctx context.Context, account *HSAAccount) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
