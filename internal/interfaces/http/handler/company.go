package handler

import (
	companyapp "github.com/gestionale/backend/internal/application/company"
	"github.com/gestionale/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company-related API endpoints. Company routes do
// not require an active working company: they are the surface used to pick
// one in the first place.
type CompanyHandler struct {
	BaseHandler
	companyService *companyapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *companyapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// Create registers a new company
func (h *CompanyHandler) Create(c *gin.Context) {
	var req companyapp.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.companyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns a single company
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	resp, err := h.companyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns all companies
func (h *CompanyHandler) List(c *gin.Context) {
	items, err := h.companyService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Deactivate closes a company. Closed companies can no longer be activated
// as the working company.
func (h *CompanyHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	if err := h.companyService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
