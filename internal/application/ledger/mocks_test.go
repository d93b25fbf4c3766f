package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/medledger/backend/internal/domain/ledger"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Invoice, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter ledger.InvoiceFilter) ([]ledger.Invoice, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByStrategyForUser(ctx context.Context, userID uuid.UUID, strategies []ledger.ReimbursementStrategy) ([]ledger.Invoice, error) {
	args := m.Called(ctx, userID, strategies)
	return args.Get(0).([]ledger.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter ledger.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *ledger.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PaymentTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.PaymentTransaction), args.Error(1)
}

func (m *MockPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]ledger.PaymentTransaction, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]ledger.PaymentTransaction), args.Error(1)
}

func (m *MockPaymentRepository) FindByInvoices(ctx context.Context, invoiceIDs []uuid.UUID) (map[uuid.UUID][]ledger.PaymentTransaction, error) {
	args := m.Called(ctx, invoiceIDs)
	return args.Get(0).(map[uuid.UUID][]ledger.PaymentTransaction), args.Error(1)
}

func (m *MockPaymentRepository) FindRecoverableForUser(ctx context.Context, userID uuid.UUID) ([]ledger.PaymentTransaction, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]ledger.PaymentTransaction), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *ledger.PaymentTransaction) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.HSAAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.HSAAccount), args.Error(1)
}

func (m *MockAccountRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.HSAAccount, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.HSAAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]ledger.HSAAccount, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]ledger.HSAAccount), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *ledger.HSAAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
