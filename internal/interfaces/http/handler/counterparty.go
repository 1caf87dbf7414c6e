package handler

import (
	registryapp "github.com/gestionale/backend/internal/application/registry"
	"github.com/gestionale/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CounterpartyHandler handles counterparty-related API endpoints
type CounterpartyHandler struct {
	BaseHandler
	counterpartyService *registryapp.CounterpartyService
}

// NewCounterpartyHandler creates a new CounterpartyHandler
func NewCounterpartyHandler(counterpartyService *registryapp.CounterpartyService) *CounterpartyHandler {
	return &CounterpartyHandler{
		counterpartyService: counterpartyService,
	}
}

// Create registers a new counterparty for the active company
func (h *CounterpartyHandler) Create(c *gin.Context) {
	tenantID, err := activeCompanyID(c)
	if err != nil {
		h.Forbidden(c, "No working company selected")
		return
	}

	var req registryapp.CreateCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.counterpartyService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update replaces the mutable fields of a counterparty
func (h *CounterpartyHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid counterparty ID")
		return
	}

	var req registryapp.UpdateCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.counterpartyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID returns a single counterparty
func (h *CounterpartyHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid counterparty ID")
		return
	}

	resp, err := h.counterpartyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns counterparties matching the filter with pagination
func (h *CounterpartyHandler) List(c *gin.Context) {
	var filter registryapp.CounterpartyListFilter
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

	items, total, err := h.counterpartyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Deactivate marks a counterparty inactive
func (h *CounterpartyHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid counterparty ID")
		return
	}

	if err := h.counterpartyService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
