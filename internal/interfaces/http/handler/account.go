package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	ledgerapp "github.com/medledger/backend/internal/application/ledger"
)

// AccountHandler handles HSA account API endpoints
type AccountHandler struct {
	BaseHandler
	accountService *ledgerapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *ledgerapp.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CloseAccountRequest represents a request to close an HSA account
type CloseAccountRequest struct {
	ClosedDate time.Time `json:"closedDate" binding:"required"`
}

// Create registers a new HSA account window
func (h *AccountHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}

	var req ledgerapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.accountService.CreateAccount(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns one HSA account
func (h *AccountHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	resp, err := h.accountService.GetAccountByID(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns all of the user's HSA accounts
func (h *AccountHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// Close sets the account's closing date and deactivates it
func (h *AccountHandler) Close(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req CloseAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.accountService.CloseAccount(c.Request.Context(), userID, id, req.ClosedDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an HSA account record
func (h *AccountHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CheckEligibility answers whether a date falls inside any qualifying
// account window. The date comes from the ?date=YYYY-MM-DD query param.
func (h *AccountHandler) CheckEligibility(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}

	raw := c.Query("date")
	if raw == "" {
		h.BadRequest(c, "Missing date query parameter")
		return
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	resp, err := h.accountService.CheckEligibility(c.Request.Context(), userID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
