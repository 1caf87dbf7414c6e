package registry

import (
	"errors"
	"testing"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterpartyKind_IsValid(t *testing.T) {
	tests := []struct {
		kind     CounterpartyKind
		expected bool
	}{
		{KindCustomer, true},
		{KindSupplier, true},
		{KindBoth, true},
		{CounterpartyKind("INVALID"), false},
		{CounterpartyKind(""), false},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.kind.IsValid())
		})
	}
}

func TestCounterpartyKind_Roles(t *testing.T) {
	assert.True(t, KindSupplier.CanSupply())
	assert.False(t, KindSupplier.CanBuy())
	assert.True(t, KindCustomer.CanBuy())
	assert.False(t, KindCustomer.CanSupply())
	assert.True(t, KindBoth.CanSupply())
	assert.True(t, KindBoth.CanBuy())
}

func TestNewCounterparty(t *testing.T) {
	tenantID := uuid.New()

	cp, err := NewCounterparty(tenantID, KindSupplier, "Rossi Costruzioni Srl", "IT 01234567890", "rssmra85t10a562s")
	require.NoError(t, err)

	assert.Equal(t, tenantID, cp.TenantID)
	assert.Equal(t, "01234567890", cp.VATNumber, "VAT number must be stored normalized")
	assert.Equal(t, "RSSMRA85T10A562S", cp.FiscalCode, "fiscal code must be stored normalized")
	assert.True(t, cp.Active)
	assert.Equal(t, 1, cp.Version)
}

func TestNewCounterparty_CollectsFieldErrors(t *testing.T) {
	_, err := NewCounterparty(uuid.New(), CounterpartyKind("WRONG"), "", "", "")
	require.Error(t, err)

	var verr shared.ValidationErrors
	require.True(t, errors.As(err, &verr))

	fields := make([]string, 0, len(verr))
	for _, fe := range verr {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "kind")
	assert.Contains(t, fields, "vat_number")
	assert.GreaterOrEqual(t, len(verr), 3, "all field failures must be collected, not fail-fast")
}

func TestCounterparty_Update_Renormalizes(t *testing.T) {
	cp, err := NewCounterparty(uuid.New(), KindCustomer, "Acme", "01234567890", "")
	require.NoError(t, err)

	require.NoError(t, cp.Update(KindBoth, "Acme Spa", "IT 098.765.432-10", "abcdef85t10a562s"))
	assert.Equal(t, "09876543210", cp.VATNumber)
	assert.Equal(t, "ABCDEF85T10A562S", cp.FiscalCode)
	assert.Equal(t, 2, cp.Version)
}

func TestCounterparty_SetAddress_KeepsVersion(t *testing.T) {
	cp, err := NewCounterparty(uuid.New(), KindCustomer, "Acme", "01234567890", "")
	require.NoError(t, err)

	require.NoError(t, cp.Update(KindBoth, "Acme Spa", "01234567890", ""))
	cp.SetAddress("Via Roma 1", "Milano", "20100", "MI")

	assert.Equal(t, "Via Roma 1", cp.Address)
	assert.Equal(t, 2, cp.Version, "an update with address changes is a single version bump")
}

func TestCounterparty_Deactivate(t *testing.T) {
	cp, err := NewCounterparty(uuid.New(), KindCustomer, "Acme", "01234567890", "")
	require.NoError(t, err)

	require.NoError(t, cp.Deactivate())
	assert.False(t, cp.Active)
	assert.Error(t, cp.Deactivate(), "deactivating twice is an invalid state")
}
