package accounting

import (
	"context"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/gestionale/backend/internal/domain/registry"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentService registers documents and generates their installments.
// Registration runs inside one transaction so the header, its lines and the
// generated scadenze land together or not at all.
type DocumentService struct {
	documents      accounting.DocumentRepository
	installments   accounting.InstallmentRepository
	counterparties registry.CounterpartyRepository
	guard          *accounting.DuplicateDocumentGuard
	uow            shared.UnitOfWork
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documents accounting.DocumentRepository,
	installments accounting.InstallmentRepository,
	counterparties registry.CounterpartyRepository,
	uow shared.UnitOfWork,
) *DocumentService {
	return &DocumentService{
		documents:      documents,
		installments:   installments,
		counterparties: counterparties,
		guard:          accounting.NewDuplicateDocumentGuard(documents),
		uow:            uow,
	}
}

// resolveCounterparty loads the counterparty and checks it can appear on the
// given document side
func (s *DocumentService) resolveCounterparty(ctx context.Context, id uuid.UUID, docType accounting.DocumentType) (*registry.Counterparty, error) {
	counterparty, err := s.counterparties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !counterparty.Active {
		return nil, shared.NewFieldValidationError("counterparty_id", "INACTIVE",
			"Counterparty is deactivated and cannot appear on new documents")
	}
	if docType.IsPurchase() && !counterparty.Kind.CanSupply() {
		return nil, shared.NewFieldValidationError("counterparty_id", "WRONG_KIND",
			"Counterparty is not a supplier")
	}
	if !docType.IsPurchase() && !counterparty.Kind.CanBuy() {
		return nil, shared.NewFieldValidationError("counterparty_id", "WRONG_KIND",
			"Counterparty is not a customer")
	}
	return counterparty, nil
}

// Register validates and stores a document, then generates its installments
// from the payment terms
func (s *DocumentService) Register(ctx context.Context, tenantID uuid.UUID, req RegisterDocumentRequest) (*DocumentResponse, error) {
	terms := accounting.PaymentTerms{Installments: req.Installments, IntervalDays: req.IntervalDays}
	if req.Installments == 0 && req.IntervalDays == 0 {
		terms = accounting.DefaultPaymentTerms()
	}

	var doc *accounting.Document
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		counterparty, err := s.resolveCounterparty(ctx, req.CounterpartyID, accounting.DocumentType(req.Type))
		if err != nil {
			return err
		}

		doc, err = accounting.NewDocument(tenantID, req.Number, accounting.DocumentType(req.Type),
			counterparty.ID, counterparty.Name, req.Date, req.SupplierDocumentNumber, terms)
		if err != nil {
			return err
		}
		for _, line := range req.Lines {
			if err := doc.AddLine(line.Description, line.Quantity, line.UnitPrice, line.TaxRate); err != nil {
				return err
			}
		}
		doc.JobSiteRef = req.JobSiteRef
		doc.Notes = req.Notes

		if err := s.guard.Check(ctx, doc); err != nil {
			return err
		}
		if err := s.documents.Save(ctx, doc); err != nil {
			return err
		}

		installments, err := doc.GenerateInstallments()
		if err != nil {
			return err
		}
		return s.installments.SaveAll(ctx, installments)
	})
	if err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// UpdateHeader changes the descriptive header fields of a document. The
// duplicate guard re-runs because the supplier document number or the
// counterparty may have changed; the document itself is excluded from the
// check.
func (s *DocumentService) UpdateHeader(ctx context.Context, id uuid.UUID, req UpdateDocumentHeaderRequest) (*DocumentResponse, error) {
	var doc *accounting.Document
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.documents.FindByID(ctx, id)
		if err != nil {
			return err
		}

		counterparty, err := s.resolveCounterparty(ctx, req.CounterpartyID, doc.Type)
		if err != nil {
			return err
		}
		if err := doc.UpdateHeader(counterparty.ID, counterparty.Name, req.SupplierDocumentNumber, req.JobSiteRef, req.Notes); err != nil {
			return err
		}
		if err := s.guard.Check(ctx, doc); err != nil {
			return err
		}
		return s.documents.SaveWithLock(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// GetByID retrieves a document with its lines
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// List retrieves documents with filtering and pagination
func (s *DocumentService) List(ctx context.Context, filter DocumentListFilter) ([]DocumentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := accounting.DocumentFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "date",
			OrderDir: "desc",
		},
		CounterpartyID: filter.CounterpartyID,
		FromDate:       filter.FromDate,
		ToDate:         filter.ToDate,
	}
	if filter.Type != "" {
		docType := accounting.DocumentType(filter.Type)
		domainFilter.Type = &docType
	}

	documents, err := s.documents.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.documents.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DocumentResponse, len(documents))
	for i := range documents {
		responses[i] = ToDocumentResponse(&documents[i])
	}
	return responses, total, nil
}
