package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medledger/backend/internal/domain/ledger"
	"github.com/medledger/backend/internal/infrastructure/persistence/models"
)

// invoiceSortFields whitelists the columns list queries may order by
var invoiceSortFields = map[string]string{
	"date":       "service_date",
	"provider":   "provider",
	"category":   "category",
	"created_at": "created_at",
}

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds an invoice by ID owned by the given user
func (r *GormInvoiceRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser finds all invoices for a user with filtering
func (r *GormInvoiceRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter ledger.InvoiceFilter) ([]ledger.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("user_id = ?", userID)
	query = r.applyFilter(query, filter)
	query = r.applyOrderAndPage(query, filter)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]ledger.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// FindByStrategyForUser finds a user's invoices tagged with any of the
// given reimbursement strategies
func (r *GormInvoiceRepository) FindByStrategyForUser(ctx context.Context, userID uuid.UUID, strategies []ledger.ReimbursementStrategy) ([]ledger.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND reimbursement_strategy IN ?", userID, strategies).
		Order("service_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]ledger.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// CountForUser counts a user's invoices matching the filter
func (r *GormInvoiceRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter ledger.InvoiceFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("user_id = ?", userID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *ledger.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an invoice owned by the given user
func (r *GormInvoiceRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.InvoiceModel{}).Error
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter ledger.InvoiceFilter) *gorm.DB {
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Strategy != nil {
		query = query.Where("reimbursement_strategy = ?", *filter.Strategy)
	}
	if filter.IsHsaEligible != nil {
		query = query.Where("is_hsa_eligible = ?", *filter.IsHsaEligible)
	}
	if filter.FromDate != nil {
		query = query.Where("service_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("service_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("provider ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	return query
}

func (r *GormInvoiceRepository) applyOrderAndPage(query *gorm.DB, filter ledger.InvoiceFilter) *gorm.DB {
	column, ok := invoiceSortFields[filter.OrderBy]
	if !ok {
		column = "service_date"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	query = query.Order(column + " " + dir)

	// PageSize zero means no pagination (internal aggregation reads)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
