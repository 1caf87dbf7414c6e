package handler

import (
	accountingapp "github.com/gestionale/backend/internal/application/accounting"
	"github.com/gestionale/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles financial account, operating account and cause
// code API endpoints
type AccountHandler struct {
	BaseHandler
	accountService *accountingapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *accountingapp.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// activeOnlyQuery binds the shared active_only filter
type activeOnlyQuery struct {
	ActiveOnly bool `form:"active_only"`
}

// CreateFinancialAccount creates a cash or bank account
func (h *AccountHandler) CreateFinancialAccount(c *gin.Context) {
	tenantID, err := activeCompanyID(c)
	if err != nil {
		h.Forbidden(c, "No working company selected")
		return
	}

	var req accountingapp.CreateFinancialAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.accountService.CreateFinancialAccount(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListFinancialAccounts returns the financial accounts of the active company
func (h *AccountHandler) ListFinancialAccounts(c *gin.Context) {
	var q activeOnlyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	items, err := h.accountService.ListFinancialAccounts(c.Request.Context(), q.ActiveOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// DeactivateFinancialAccount marks a financial account inactive
func (h *AccountHandler) DeactivateFinancialAccount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.DeactivateFinancialAccount(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateOperatingAccount creates an operating account
func (h *AccountHandler) CreateOperatingAccount(c *gin.Context) {
	tenantID, err := activeCompanyID(c)
	if err != nil {
		h.Forbidden(c, "No working company selected")
		return
	}

	var req accountingapp.CreateOperatingAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.accountService.CreateOperatingAccount(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListOperatingAccounts returns the operating accounts of the active company
func (h *AccountHandler) ListOperatingAccounts(c *gin.Context) {
	var q activeOnlyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	items, err := h.accountService.ListOperatingAccounts(c.Request.Context(), q.ActiveOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// DeactivateOperatingAccount marks an operating account inactive
func (h *AccountHandler) DeactivateOperatingAccount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.DeactivateOperatingAccount(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateCauseCode creates a cause code. The code must be unique within the
// active company.
func (h *AccountHandler) CreateCauseCode(c *gin.Context) {
	tenantID, err := activeCompanyID(c)
	if err != nil {
		h.Forbidden(c, "No working company selected")
		return
	}

	var req accountingapp.CreateCauseCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.accountService.CreateCauseCode(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListCauseCodes returns the cause codes of the active company
func (h *AccountHandler) ListCauseCodes(c *gin.Context) {
	var q activeOnlyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	items, err := h.accountService.ListCauseCodes(c.Request.Context(), q.ActiveOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// DeactivateCauseCode marks a cause code inactive. Existing entries keep
// referencing it.
func (h *AccountHandler) DeactivateCauseCode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid cause code ID")
		return
	}

	if err := h.accountService.DeactivateCauseCode(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
