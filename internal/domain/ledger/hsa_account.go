package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medledger/backend/internal/domain/shared"
)

// HSAAccount represents a real-world Health Savings Account. Its active
// window gates reimbursement eligibility: an expense is only
// reimbursable from HSA funds if it was incurred while a qualifying
// account was open.
type HSAAccount struct {
	shared.UserAggregateRoot
	AccountName string     `json:"accountName"`
	OpenedDate  time.Time  `json:"openedDate"`
	ClosedDate  *time.Time `json:"closedDate"`
	IsActive    bool       `json:"isActive"`
}

// NewHSAAccount creates a new HSA account record
func NewHSAAccount(userID uuid.UUID, name string, openedDate time.Time, closedDate *time.Time) (*HSAAccount, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if openedDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_WINDOW", "Opened date is required")
	}
	if closedDate != nil && !closedDate.After(openedDate) {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_WINDOW", "Closed date must be after opened date")
	}

	return &HSAAccount{
		UserAggregateRoot: shared.NewUserAggregateRoot(userID),
		AccountName:       name,
		OpenedDate:        openedDate,
		ClosedDate:        closedDate,
		IsActive:          closedDate == nil,
	}, nil
}

// ValidateWindow checks the opened/closed invariant on an existing record
func (a *HSAAccount) ValidateWindow() error {
	if a.ClosedDate != nil && !a.ClosedDate.After(a.OpenedDate) {
		return shared.NewDomainError("INVALID_ACCOUNT_WINDOW",
			fmt.Sprintf("Account %q has closed date on or before opened date", a.AccountName))
	}
	return nil
}

// ActiveOn reports whether the account's window covers the given date
func (a *HSAAccount) ActiveOn(date time.Time) bool {
	if date.Before(a.OpenedDate) {
		return false
	}
	if a.ClosedDate != nil && date.After(*a.ClosedDate) {
		return false
	}
	return true
}

// Close marks the account as closed on the given date
func (a *HSAAccount) Close(closedDate time.Time) error {
	if !closedDate.After(a.OpenedDate) {
		return shared.NewDomainError("INVALID_ACCOUNT_WINDOW", "Closed date must be after opened date")
	}
	a.ClosedDate = &closedDate
	a.IsActive = false
	a.Touch()
	a.IncrementVersion()
	return nil
}

// WellFormedAccounts splits accounts into those safe to use for
// eligibility checks and warnings for the malformed ones. Malformed
// windows are excluded rather than crashing the calculation; the
// condition is surfaced so the caller can fix the data.
func WellFormedAccounts(accounts []HSAAccount) ([]HSAAccount, []shared.Warning) {
	valid := make([]HSAAccount, 0, len(accounts))
	var warnings []shared.Warning
	for _, a := range accounts {
		if err := a.ValidateWindow(); err != nil {
			warnings = append(warnings, shared.NewWarning(shared.WarningInvalidAccountWindow, err.Error()))
			continue
		}
		valid = append(valid, a)
	}
	return valid, warnings
}

// IsDateEligible reports whether the date falls inside at least one
// account's active window. No accounts means no eligibility - the
// conservative default; callers that do not model accounts yet rely on
// the invoice-level flag instead (see Strictness).
func IsDateEligible(date time.Time, accounts []HSAAccount) bool {
	for _, a := range accounts {
		if a.ActiveOn(date) {
			return true
		}
	}
	return false
}
