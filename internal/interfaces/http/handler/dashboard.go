package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/medledger/backend/internal/application/ledger"
)

// DashboardHandler handles the ledger-wide summary endpoint
type DashboardHandler struct {
	BaseHandler
	dashboardService *ledgerapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *ledgerapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary rolls every invoice's breakdown into one dashboard view
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}

	resp, err := h.dashboardService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
