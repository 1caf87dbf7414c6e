package accounting

import (
	"context"
	"fmt"

	"github.com/gestionale/backend/internal/domain/shared"
)

// DuplicateDocumentGuard rejects the registration of a purchase document
// that was already entered for the same supplier under the same
// supplier-assigned number. It runs at submission time; the storage layer
// carries a matching unique index as defense in depth.
type DuplicateDocumentGuard struct {
	documents DocumentRepository
}

// NewDuplicateDocumentGuard creates a new guard
func NewDuplicateDocumentGuard(documents DocumentRepository) *DuplicateDocumentGuard {
	return &DuplicateDocumentGuard{documents: documents}
}

// Check returns a field-scoped validation error naming the conflicting
// counterparty when another document exists for the same (counterparty,
// document type, supplier document number), excluding the document itself.
// Sales documents carry no supplier number and always pass.
func (g *DuplicateDocumentGuard) Check(ctx context.Context, doc *Document) error {
	if !doc.Type.RequiresSupplierDocumentNumber() {
		return nil
	}

	existing, err := g.documents.FindDuplicate(ctx, doc.CounterpartyID, doc.Type, doc.SupplierDocumentNumber, doc.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return shared.NewFieldValidationError("supplier_document_number", "DUPLICATE_DOCUMENT",
			fmt.Sprintf("A %s with supplier document number %q is already registered for %s",
				doc.Type, doc.SupplierDocumentNumber, existing.CounterpartyName))
	}
	return nil
}
