package accounting

import (
	"context"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountService manages the accounting master data: financial accounts,
// operating accounts and cause codes
type AccountService struct {
	financial accounting.FinancialAccountRepository
	operating accounting.OperatingAccountRepository
	causes    accounting.CauseCodeRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(
	financial accounting.FinancialAccountRepository,
	operating accounting.OperatingAccountRepository,
	causes accounting.CauseCodeRepository,
) *AccountService {
	return &AccountService{
		financial: financial,
		operating: operating,
		causes:    causes,
	}
}

// CreateFinancialAccount creates a cash or bank account
func (s *AccountService) CreateFinancialAccount(ctx context.Context, tenantID uuid.UUID, req CreateFinancialAccountRequest) (*FinancialAccountResponse, error) {
	account, err := accounting.NewFinancialAccount(tenantID, req.Name, accounting.FinancialAccountKind(req.Kind), req.IBAN)
	if err != nil {
		return nil, err
	}
	if err := s.financial.Save(ctx, account); err != nil {
		return nil, err
	}

	response := ToFinancialAccountResponse(account)
	return &response, nil
}

// ListFinancialAccounts lists financial accounts
func (s *AccountService) ListFinancialAccounts(ctx context.Context, activeOnly bool) ([]FinancialAccountResponse, error) {
	accounts, err := s.financial.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	responses := make([]FinancialAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToFinancialAccountResponse(&accounts[i])
	}
	return responses, nil
}

// DeactivateFinancialAccount closes a financial account for new movements
func (s *AccountService) DeactivateFinancialAccount(ctx context.Context, id uuid.UUID) error {
	account, err := s.financial.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := account.Deactivate(); err != nil {
		return err
	}
	return s.financial.Save(ctx, account)
}

// CreateOperatingAccount creates a cost-center account
func (s *AccountService) CreateOperatingAccount(ctx context.Context, tenantID uuid.UUID, req CreateOperatingAccountRequest) (*OperatingAccountResponse, error) {
	account, err := accounting.NewOperatingAccount(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.operating.Save(ctx, account); err != nil {
		return nil, err
	}

	response := ToOperatingAccountResponse(account)
	return &response, nil
}

// ListOperatingAccounts lists operating accounts
func (s *AccountService) ListOperatingAccounts(ctx context.Context, activeOnly bool) ([]OperatingAccountResponse, error) {
	accounts, err := s.operating.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	responses := make([]OperatingAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToOperatingAccountResponse(&accounts[i])
	}
	return responses, nil
}

// DeactivateOperatingAccount closes an operating account for new movements
func (s *AccountService) DeactivateOperatingAccount(ctx context.Context, id uuid.UUID) error {
	account, err := s.operating.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := account.Deactivate(); err != nil {
		return err
	}
	return s.operating.Save(ctx, account)
}

// CreateCauseCode creates a cause code, rejecting a code already in use
// within the tenant
func (s *AccountService) CreateCauseCode(ctx context.Context, tenantID uuid.UUID, req CreateCauseCodeRequest) (*CauseCodeResponse, error) {
	existing, err := s.causes.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewFieldValidationError("code", "DUPLICATE_CODE",
			"A cause code with this code already exists")
	}

	cause, err := accounting.NewCauseCode(tenantID, req.Code, req.Description, accounting.CauseNature(req.Nature))
	if err != nil {
		return nil, err
	}
	if err := s.causes.Save(ctx, cause); err != nil {
		return nil, err
	}

	response := ToCauseCodeResponse(cause)
	return &response, nil
}

// ListCauseCodes lists cause codes
func (s *AccountService) ListCauseCodes(ctx context.Context, activeOnly bool) ([]CauseCodeResponse, error) {
	causes, err := s.causes.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	responses := make([]CauseCodeResponse, len(causes))
	for i := range causes {
		responses[i] = ToCauseCodeResponse(&causes[i])
	}
	return responses, nil
}

// DeactivateCauseCode hides a cause code from future postings
func (s *AccountService) DeactivateCauseCode(ctx context.Context, id uuid.UUID) error {
	cause, err := s.causes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := cause.Deactivate(); err != nil {
		return err
	}
	return s.causes.Save(ctx, cause)
}
