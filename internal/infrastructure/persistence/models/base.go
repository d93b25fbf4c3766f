package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/medledger/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate
// roots, extending BaseModel with a version for optimistic locking
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// UserAggregateModel provides common persistence fields for user-scoped
// aggregate roots
type UserAggregateModel struct {
	AggregateModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainUserAggregateRoot populates UserAggregateModel from domain UserAggregateRoot
func (m *UserAggregateModel) FromDomainUserAggregateRoot(u shared.UserAggregateRoot) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.UserID = u.UserID
}

// PopulateUserAggregateRoot populates a domain UserAggregateRoot from
// the persistence model
func (m *UserAggregateModel) PopulateUserAggregateRoot(u *shared.UserAggregateRoot) {
	u.BaseAggregateRoot.BaseEntity.ID = m.ID
	u.BaseAggregateRoot.BaseEntity.CreatedAt = m.CreatedAt
	u.BaseAggregateRoot.BaseEntity.UpdatedAt = m.UpdatedAt
	u.BaseAggregateRoot.Version = m.Version
	u.UserID = m.UserID
}
