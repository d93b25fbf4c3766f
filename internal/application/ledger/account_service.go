package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medledger/backend/internal/domain/ledger"
	"github.com/medledger/backend/internal/domain/shared"
)

// AccountService manages the user's HSA account eligibility windows
type AccountService struct {
	accountRepo ledger.HSAAccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo ledger.HSAAccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// AccountResponse represents an HSA account in API responses
type AccountResponse struct {
	ID          uuid.UUID  `json:"id"`
	AccountName string     `json:"accountName"`
	OpenedDate  time.Time  `json:"openedDate"`
	ClosedDate  *time.Time `json:"closedDate,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateAccountRequest represents a request to register an HSA account
type CreateAccountRequest struct {
	AccountName string     `json:"accountName" binding:"required"`
	OpenedDate  time.Time  `json:"openedDate" binding:"required"`
	ClosedDate  *time.Time `json:"closedDate"`
}

// CheckEligibilityResponse answers whether a date falls inside any
// qualifying account window
type CheckEligibilityResponse struct {
	Date     time.Time `json:"date"`
	Eligible bool      `json:"eligible"`
}

// CreateAccount registers a new HSA account window
func (s *AccountService) CreateAccount(ctx context.Context, userID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	account, err := ledger.NewHSAAccount(userID, req.AccountName, req.OpenedDate, req.ClosedDate)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// GetAccountByID gets an account by ID
func (s *AccountService) GetAccountByID(ctx context.Context, userID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "HSA account not found")
	}
	return toAccountResponse(account), nil
}

// ListAccounts returns all of the user's HSA accounts
func (s *AccountService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]AccountResponse, error) {
	accounts, err := s.accountRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = *toAccountResponse(&accounts[i])
	}
	return responses, nil
}

// CloseAccount sets the account's closing date and deactivates it
func (s *AccountService) CloseAccount(ctx context.Context, userID, id uuid.UUID, closedDate time.Time) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "HSA account not found")
	}
	if err := account.Close(closedDate); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// DeleteAccount removes an HSA account record
func (s *AccountService) DeleteAccount(ctx context.Context, userID, id uuid.UUID) error {
	account, err := s.accountRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return err
	}
	if account == nil {
		return shared.NewDomainError("NOT_FOUND", "HSA account not found")
	}
	return s.accountRepo.Delete(ctx, userID, id)
}

// CheckEligibility reports whether a date is covered by any well-formed
// account window. Malformed windows are skipped, matching how the
// reimbursement classifier treats them.
func (s *AccountService) CheckEligibility(ctx context.Context, userID uuid.UUID, date time.Time) (*CheckEligibilityResponse, error) {
	accounts, err := s.accountRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	valid, _ := ledger.WellFormedAccounts(accounts)
	return &CheckEligibilityResponse{
		Date:     date,
		Eligible: ledger.IsDateEligible(date, valid),
	}, nil
}

func toAccountResponse(a *ledger.HSAAccount) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		AccountName: a.AccountName,
		OpenedDate:  a.OpenedDate,
		ClosedDate:  a.ClosedDate,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
