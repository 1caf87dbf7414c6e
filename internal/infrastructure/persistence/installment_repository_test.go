package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockInstallmentRepository(t *testing.T) (*GormInstallmentRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, tenant.RegisterCallbacks(gormDB))

	return NewGormInstallmentRepository(gormDB), mock, mockDB
}

func TestGormInstallmentRepository_FindByDocument(t *testing.T) {
	t.Run("lists the document installments by due date", func(t *testing.T) {
		repo, mock, mockDB := newMockInstallmentRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		documentID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "due_date", "amount", "direction", "document_id"}).
			AddRow(uuid.New(), tenantID, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), decimal.RequireFromString("500.00"), "PAYABLE", documentID).
			AddRow(uuid.New(), tenantID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), decimal.RequireFromString("500.00"), "PAYABLE", documentID)

		mock.ExpectQuery(`SELECT \* FROM "installments" WHERE document_id = \$1 AND "installments"\."tenant_id" = \$2 ORDER BY due_date ASC`).
			WithArgs(documentID, tenantID.String()).
			WillReturnRows(rows)

		installments, err := repo.FindByDocument(activeTenantContext(tenantID), documentID)

		require.NoError(t, err)
		require.Len(t, installments, 2)
		assert.Equal(t, accounting.DirectionPayable, installments[0].Direction)
		assert.True(t, installments[0].DueDate.Before(installments[1].DueDate))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInstallmentRepository_FindOpenAsOf(t *testing.T) {
	t.Run("derives allocation from the linked settlements", func(t *testing.T) {
		repo, mock, mockDB := newMockInstallmentRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "due_date", "amount", "direction", "description", "allocated"}).
			AddRow(uuid.New(), tenantID, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
				decimal.RequireFromString("1000.00"), "RECEIVABLE", "SALES_INVOICE 42 - installment 1/2", decimal.RequireFromString("400.00"))

		mock.ExpectQuery(`SELECT installments\.\*, COALESCE\(SUM\(ledger_entries\.amount\), 0\) AS allocated FROM "installments" LEFT JOIN ledger_entries ON .* WHERE installments\.due_date <= \$1 AND "installments"\."tenant_id" = \$2 GROUP BY .* HAVING .* ORDER BY installments\.due_date ASC`).
			WithArgs(asOf, tenantID.String()).
			WillReturnRows(rows)

		open, err := repo.FindOpenAsOf(activeTenantContext(tenantID), asOf, nil)

		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.True(t, open[0].Allocated.Equal(decimal.RequireFromString("400.00")))
		assert.True(t, open[0].Residual.Equal(decimal.RequireFromString("600.00")))
		assert.Equal(t, accounting.DirectionReceivable, open[0].Installment.Direction)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters by direction when requested", func(t *testing.T) {
		repo, mock, mockDB := newMockInstallmentRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
		direction := accounting.DirectionPayable

		mock.ExpectQuery(`SELECT installments\..* WHERE installments\.due_date <= \$1 AND installments\.direction = \$2 AND "installments"\."tenant_id" = \$3 GROUP BY .*`).
			WithArgs(asOf, "PAYABLE", tenantID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "due_date", "amount", "direction", "allocated"}))

		open, err := repo.FindOpenAsOf(activeTenantContext(tenantID), asOf, &direction)

		require.NoError(t, err)
		assert.Empty(t, open)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInstallmentRepository_SaveAll(t *testing.T) {
	t.Run("persists the generated batch in one statement", func(t *testing.T) {
		repo, mock, mockDB := newMockInstallmentRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		documentID := uuid.New()

		first, err := accounting.NewInstallment(tenantID, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
			decimal.RequireFromString("500.00"), accounting.DirectionPayable, &documentID, nil, "PURCHASE_INVOICE 7 - installment 1/2")
		require.NoError(t, err)
		second, err := accounting.NewInstallment(tenantID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			decimal.RequireFromString("500.00"), accounting.DirectionPayable, &documentID, nil, "PURCHASE_INVOICE 7 - installment 2/2")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "installments" .*`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err = repo.SaveAll(activeTenantContext(tenantID), []*accounting.Installment{first, second})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("is a no-op for an empty batch", func(t *testing.T) {
		repo, mock, mockDB := newMockInstallmentRepository(t)
		defer mockDB.Close()

		err := repo.SaveAll(activeTenantContext(uuid.New()), nil)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInstallmentRepository_SaveWithLock(t *testing.T) {
	newVersionedInstallment := func(t *testing.T, tenantID uuid.UUID) *accounting.Installment {
		t.Helper()
		inst, err := accounting.NewInstallment(tenantID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			decimal.RequireFromString("1000.00"), accounting.DirectionReceivable, nil, nil, "")
		require.NoError(t, err)
		inst.MarkAllocationChanged()
		return inst
	}

	t.Run("updates when the version still matches", func(t *testing.T) {
		repo, mock, mockDB := newMockInstallmentRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		inst := newVersionedInstallment(t, tenantID)

		mock.ExpectExec(`UPDATE "installments" SET .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(activeTenantContext(tenantID), inst)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a conflict when another writer got there first", func(t *testing.T) {
		repo, mock, mockDB := newMockInstallmentRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		inst := newVersionedInstallment(t, tenantID)

		mock.ExpectExec(`UPDATE "installments" SET .*`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(activeTenantContext(tenantID), inst)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
