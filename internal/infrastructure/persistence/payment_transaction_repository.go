package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medledger/backend/internal/domain/ledger"
	"github.com/medledger/backend/internal/infrastructure/persistence/models"
)

// GormPaymentTransactionRepository implements PaymentTransactionRepository using GORM
type GormPaymentTransactionRepository struct {
	db *gorm.DB
}

// NewGormPaymentTransactionRepository creates a new GormPaymentTransactionRepository
func NewGormPaymentTransactionRepository(db *gorm.DB) *GormPaymentTransactionRepository {
	return &GormPaymentTransactionRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PaymentTransaction, error) {
	var model models.PaymentTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoice finds every payment recorded against an invoice
func (r *GormPaymentTransactionRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]ledger.PaymentTransaction, error) {
	var paymentModels []models.PaymentTransactionModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindByInvoices finds payments for a batch of invoices, grouped by
// invoice ID. Used by list and dashboard reads to avoid a query per
// invoice.
func (r *GormPaymentTransactionRepository) FindByInvoices(ctx context.Context, invoiceIDs []uuid.UUID) (map[uuid.UUID][]ledger.PaymentTransaction, error) {
	grouped := make(map[uuid.UUID][]ledger.PaymentTransaction, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return grouped, nil
	}

	var paymentModels []models.PaymentTransactionModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id IN ?", invoiceIDs).
		Order("payment_date ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	for i := range paymentModels {
		p := paymentModels[i].ToDomain()
		grouped[p.InvoiceID] = append(grouped[p.InvoiceID], *p)
	}
	return grouped, nil
}

// FindRecoverableForUser finds a user's out-of-pocket payments that
// have not yet been reimbursed
func (r *GormPaymentTransactionRepository) FindRecoverableForUser(ctx context.Context, userID uuid.UUID) ([]ledger.PaymentTransaction, error) {
	var paymentModels []models.PaymentTransactionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND source = ? AND is_reimbursed = ?", userID, ledger.SourceOutOfPocket, false).
		Order("payment_date ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// Save persists a payment
func (r *GormPaymentTransactionRepository) Save(ctx context.Context, payment *ledger.PaymentTransaction) error {
	model := models.PaymentTransactionModelFromDomain(payment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a payment record
func (r *GormPaymentTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.PaymentTransactionModel{}).Error
}

func toDomainPayments(paymentModels []models.PaymentTransactionModel) []ledger.PaymentTransaction {
	payments := make([]ledger.PaymentTransaction, len(paymentModels))
	for i := range paymentModels {
		payments[i] = *paymentModels[i].ToDomain()
	}
	return payments
}
