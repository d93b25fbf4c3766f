package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medledger/backend/internal/domain/ledger"
	"github.com/medledger/backend/internal/infrastructure/persistence/models"
)

// GormHSAAccountRepository implements HSAAccountRepository using GORM
type GormHSAAccountRepository struct {
	db *gorm.DB
}

// NewGormHSAAccountRepository creates a new GormHSAAccountRepository
func NewGormHSAAccountRepository(db *gorm.DB) *GormHSAAccountRepository {
	return &GormHSAAccountRepository{db: db}
}

// FindByID finds an HSA account by its ID
func (r *GormHSAAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.HSAAccount, error) {
	var model models.HSAAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds an HSA account by ID owned by the given user
func (r *GormHSAAccountRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*ledger.HSAAccount, error) {
	var model models.HSAAccountModel
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

// FindAllForUser finds all of a user's HSA accounts
func (r *GormHSAAccountRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]ledger.HSAAccount, error) {
	var accountModels []models.HSAAccountModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("opened_date ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]ledger.HSAAccount, len(accountModels))
	for i := range accountModels {
		accounts[i] = *accountModels[i].ToDomain()
	}
	return accounts, nil
}

// Save persists an HSA account
func (r *GormHSAAccountRepository) Save(ctx context.Context, account *ledger.HSAAccount) error {
	model := models.HSAAccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an HSA account owned by the given user
func (r *GormHSAAccountRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.HSAAccountModel{}).Error
}
