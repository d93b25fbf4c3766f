package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/medledger/backend/internal/application/ledger"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *ledgerapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *ledgerapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create creates a new invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}

	var req ledgerapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.invoiceService.CreateInvoice(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns one invoice with its derived breakdown
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetBreakdown returns only the reconciliation breakdown for an invoice
func (h *InvoiceHandler) GetBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	breakdown, err := h.invoiceService.GetBreakdown(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breakdown)
}

// Update applies a partial update to an invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req ledgerapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.invoiceService.UpdateInvoice(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List returns a filtered page of invoices with derived breakdowns
func (h *InvoiceHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}

	var filter ledgerapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, page, pageSize)
}
