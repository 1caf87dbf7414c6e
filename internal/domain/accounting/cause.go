package accounting

import (
	"time"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CauseNature classifies what a cause code (causale) posts. The nature
// drives the posting mode: ordinary causes produce one ledger entry,
// transfer causes produce a linked pair.
type CauseNature string

const (
	NatureOrdinary CauseNature = "ORDINARY"
	NatureTransfer CauseNature = "TRANSFER"
)

// IsValid checks if the nature is a valid CauseNature
func (n CauseNature) IsValid() bool {
	switch n {
	case NatureOrdinary, NatureTransfer:
		return true
	}
	return false
}

// CauseCode represents a transaction cause (causale contabile)
type CauseCode struct {
	shared.TenantAggregateRoot
	Code        string      `json:"code"`
	Description string      `json:"description"`
	Nature      CauseNature `json:"nature"`
	Active      bool        `json:"active"`
}

// NewCauseCode creates a new cause code
func NewCauseCode(tenantID uuid.UUID, code, description string, nature CauseNature) (*CauseCode, error) {
	var verr shared.ValidationErrors
	if code == "" {
		verr.Add("code", "REQUIRED", "Code cannot be empty")
	}
	if description == "" {
		verr.Add("description", "REQUIRED", "Description cannot be empty")
	}
	if !nature.IsValid() {
		verr.Add("nature", "INVALID_NATURE", "Nature must be ORDINARY or TRANSFER")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	return &CauseCode{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Description:         description,
		Nature:              nature,
		Active:              true,
	}, nil
}

// IsTransfer returns true for internal transfer causes (giroconto)
func (c *CauseCode) IsTransfer() bool {
	return c.Nature == NatureTransfer
}

// Deactivate hides the cause from future postings
func (c *CauseCode) Deactivate() error {
	if !c.Active {
		return shared.NewDomainError("INVALID_STATE", "Cause code is already inactive")
	}
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
