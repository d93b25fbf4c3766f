package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// UserAggregateRoot extends BaseAggregateRoot with per-user ownership.
// Every ledger record belongs to exactly one user; the fronting gateway
// resolves authentication and hands us the user ID.
type UserAggregateRoot struct {
	BaseAggregateRoot
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewUserAggregateRoot creates a new user-scoped aggregate root
func NewUserAggregateRoot(userID uuid.UUID) UserAggregateRoot {
	return UserAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		UserID:            userID,
	}
}

// GetUserID returns the owning user ID
func (u *UserAggregateRoot) GetUserID() uuid.UUID {
	return u.UserID
}
