package handler

import (
	accountingapp "github.com/gestionale/backend/internal/application/accounting"
	"github.com/gestionale/backend/internal/infrastructure/telemetry"
	"github.com/gestionale/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// LedgerHandler handles ledger entry and transfer API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *accountingapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *accountingapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// PostEntry records an ordinary ledger entry
func (h *LedgerHandler) PostEntry(c *gin.Context) {
	tenantID, err := activeCompanyID(c)
	if err != nil {
		h.Forbidden(c, "No working company selected")
		return
	}

	var req accountingapp.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.ledgerService.PostEntry(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// PostTransfer records both legs of an internal transfer atomically
func (h *LedgerHandler) PostTransfer(c *gin.Context) {
	tenantID, err := activeCompanyID(c)
	if err != nil {
		h.Forbidden(c, "No working company selected")
		return
	}

	var req accountingapp.PostTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ctx, span := telemetry.StartServiceSpan(c.Request.Context(), "ledger", "post_transfer")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, tenantID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	resp, err := h.ledgerService.PostTransfer(ctx, tenantID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetTransfer returns both legs of a transfer by group ID
func (h *LedgerHandler) GetTransfer(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		h.BadRequest(c, "Invalid transfer group ID")
		return
	}

	resp, err := h.ledgerService.GetTransfer(c.Request.Context(), groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateTransfer changes date, amount and description on both legs together
func (h *LedgerHandler) UpdateTransfer(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		h.BadRequest(c, "Invalid transfer group ID")
		return
	}

	var req accountingapp.UpdateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.ledgerService.UpdateTransfer(c.Request.Context(), groupID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ReverseTransfer deletes both legs of a transfer atomically
func (h *LedgerHandler) ReverseTransfer(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		h.BadRequest(c, "Invalid transfer group ID")
		return
	}

	if err := h.ledgerService.ReverseTransfer(c.Request.Context(), groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID returns a single ledger entry
func (h *LedgerHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid ledger entry ID")
		return
	}

	resp, err := h.ledgerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns ledger entries matching the filter with pagination
func (h *LedgerHandler) List(c *gin.Context) {
	var filter accountingapp.LedgerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	items, total, err := h.ledgerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// DeleteEntry removes an ordinary ledger entry. Transfer legs and payments
// cannot be deleted through this endpoint.
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid ledger entry ID")
		return
	}

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
