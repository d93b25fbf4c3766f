package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/medledger/backend/internal/application/ledger"
)

// IdempotencyKeyHeader lets clients retry payment submissions safely.
// The same key never records a second payment within the configured TTL.
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentHandler handles payment-related API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *ledgerapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *ledgerapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record records a payment against an invoice
func (h *PaymentHandler) Record(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}

	var req ledgerapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	resp, err := h.paymentService.RecordPayment(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListByInvoice returns every payment recorded against an invoice
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), userID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// MarkReimbursed flags an out-of-pocket payment as recovered
func (h *PaymentHandler) MarkReimbursed(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	resp, err := h.paymentService.MarkReimbursed(c.Request.Context(), userID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a payment record
func (h *PaymentHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user identity")
		return
	}
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), userID, paymentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
