package handler

import (
	"time"

	accountingapp "github.com/gestionale/backend/internal/application/accounting"
	"github.com/gestionale/backend/internal/infrastructure/telemetry"
	"github.com/gestionale/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InstallmentHandler handles installment and payment API endpoints
type InstallmentHandler struct {
	BaseHandler
	installmentService *accountingapp.InstallmentService
}

// NewInstallmentHandler creates a new InstallmentHandler
func NewInstallmentHandler(installmentService *accountingapp.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{
		installmentService: installmentService,
	}
}

// openInstallmentsQuery binds the scadenzario query parameters
type openInstallmentsQuery struct {
	AsOf      *time.Time `form:"as_of" time_format:"2006-01-02"`
	Direction string     `form:"direction" binding:"omitempty,oneof=RECEIVABLE PAYABLE"`
}

// GetByID returns a single installment with its derived allocation state
func (h *InstallmentHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid installment ID")
		return
	}

	resp, err := h.installmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListOpen returns unsettled installments due on or before the given date,
// oldest due date first
func (h *InstallmentHandler) ListOpen(c *gin.Context) {
	var q openInstallmentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	asOf := time.Now()
	if q.AsOf != nil {
		asOf = *q.AsOf
	}

	items, err := h.installmentService.ListOpen(c.Request.Context(), asOf, q.Direction)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// RegisterPayment records a payment against an installment. The full amount
// lands on the ledger; exceeding the residual requires the override flag.
func (h *InstallmentHandler) RegisterPayment(c *gin.Context) {
	tenantID, err := activeCompanyID(c)
	if err != nil {
		h.Forbidden(c, "No working company selected")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid installment ID")
		return
	}

	var req accountingapp.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ctx, span := telemetry.StartServiceSpan(c.Request.Context(), "installment", "register_payment")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, tenantID.String(),
		telemetry.SpanAttrInstallmentID, id.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	resp, err := h.installmentService.RegisterPayment(ctx, tenantID, id, req)
	if err != nil {
		telemetry.RecordError(span, err)
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// EditPayment changes the amount of a registered payment, re-checking the
// residual without counting the payment being edited
func (h *InstallmentHandler) EditPayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "payment_id")
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req accountingapp.EditPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.installmentService.EditPayment(c.Request.Context(), paymentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeletePayment removes a payment, reopening the installment it settled
func (h *InstallmentHandler) DeletePayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "payment_id")
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	if err := h.installmentService.DeletePayment(c.Request.Context(), paymentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
