package handler

import (
	accountingapp "github.com/gestionale/backend/internal/application/accounting"
	"github.com/gestionale/backend/internal/infrastructure/telemetry"
	"github.com/gestionale/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DocumentHandler handles document-related API endpoints
type DocumentHandler struct {
	BaseHandler
	documentService    *accountingapp.DocumentService
	installmentService *accountingapp.InstallmentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(
	documentService *accountingapp.DocumentService,
	installmentService *accountingapp.InstallmentService,
) *DocumentHandler {
	return &DocumentHandler{
		documentService:    documentService,
		installmentService: installmentService,
	}
}

// Register records a document with its lines and generates its installment
// plan in the same transaction
func (h *DocumentHandler) Register(c *gin.Context) {
	tenantID, err := activeCompanyID(c)
	if err != nil {
		h.Forbidden(c, "No working company selected")
		return
	}

	var req accountingapp.RegisterDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ctx, span := telemetry.StartServiceSpan(c.Request.Context(), "document", "register")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, tenantID.String(),
		telemetry.SpanAttrDocumentNumber, req.Number,
		telemetry.SpanAttrDocumentType, req.Type,
	)

	resp, err := h.documentService.Register(ctx, tenantID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// UpdateHeader updates the mutable header fields of a document. Lines and
// totals are not touched.
func (h *DocumentHandler) UpdateHeader(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req accountingapp.UpdateDocumentHeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.documentService.UpdateHeader(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID returns a single document with its lines
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	resp, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns documents matching the filter with pagination
func (h *DocumentHandler) List(c *gin.Context) {
	var filter accountingapp.DocumentListFilter
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

	items, total, err := h.documentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListInstallments returns the installment plan of a document with derived
// allocation state
func (h *DocumentHandler) ListInstallments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	items, err := h.installmentService.ListByDocument(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}
