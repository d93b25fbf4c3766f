package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	ledgerapp "github.com/medledger/backend/internal/application/ledger"
)

// VaultHandler handles vault projection API endpoints
type VaultHandler struct {
	BaseHandler
	vaultService *ledgerapp.VaultService
}

// NewVaultHandler creates a new VaultHandler
func NewVaultHandler(vaultService *ledgerapp.VaultService) *VaultHandler {
	return &VaultHandler{vaultService: vaultService}
}

// GetSummary returns the deferred-reimbursement portfolio summary. An
// optional ?rate= query parameter overrides the configured annual
// return rate for what-if projections.
func (h *VaultHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}

	var rateOverride *float64
	if raw := c.Query("rate"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.BadRequest(c, "Invalid rate, expected a decimal number")
			return
		}
		rateOverride = &rate
	}

	resp, err := h.vaultService.GetSummary(c.Request.Context(), userID, rateOverride)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
