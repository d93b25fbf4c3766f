package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/medledger/backend/internal/domain/ledger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
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

	return gormDB, mock, mockDB
}

func TestGormInvoiceRepository_FindByIDForUser(t *testing.T) {
	t.Run("finds an owned invoice", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(gormDB)

		invoiceID := uuid.New()
		userID := uuid.New()
		total := decimal.NewFromInt(500)
		serviceDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{
			"id", "user_id", "version", "service_date", "provider",
			"total_amount", "category", "is_hsa_eligible", "reimbursement_strategy",
		}).AddRow(invoiceID, userID, 1, serviceDate, "City Dental",
			total, "dental", true, "immediate")

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE user_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(userID, invoiceID, 1).
			WillReturnRows(rows)

		inv, err := repo.FindByIDForUser(context.Background(), userID, invoiceID)
		require.NoError(t, err)
		require.NotNil(t, inv)
		assert.Equal(t, invoiceID, inv.ID)
		assert.Equal(t, "City Dental", inv.Provider)
		assert.True(t, inv.TotalInvoiced().Amount().Equal(total))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing invoice yields nil without error", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(gormDB)

		userID := uuid.New()
		invoiceID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "invoices"`).
			WithArgs(userID, invoiceID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		inv, err := repo.FindByIDForUser(context.Background(), userID, invoiceID)
		require.NoError(t, err)
		assert.Nil(t, inv)
	})
}

func TestGormInvoiceRepository_FindAllForUser(t *testing.T) {
	t.Run("applies category filter and pagination", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(gormDB)

		userID := uuid.New()
		category := ledger.CategoryDental
		filter := ledger.InvoiceFilter{Category: &category}
		filter.Page = 1
		filter.PageSize = 20

		rows := sqlmock.NewRows([]string{"id", "user_id", "version", "provider", "category"}).
			AddRow(uuid.New(), userID, 1, "City Dental", "dental")

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE user_id = \$1 AND category = \$2 ORDER BY service_date DESC LIMIT .*`).
			WithArgs(userID, category, 20).
			WillReturnRows(rows)

		invoices, err := repo.FindAllForUser(context.Background(), userID, filter)
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, ledger.CategoryDental, invoices[0].Category)
	})

	t.Run("unknown sort field falls back to service date", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(gormDB)

		userID := uuid.New()
		filter := ledger.InvoiceFilter{}
		filter.OrderBy = "provider; DROP TABLE invoices"
		filter.Page = 1
		filter.PageSize = 10

		mock.ExpectQuery(`ORDER BY service_date DESC`).
			WithArgs(userID, 10).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindAllForUser(context.Background(), userID, filter)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentTransactionRepository_FindByInvoices(t *testing.T) {
	t.Run("empty input short-circuits without a query", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPaymentTransactionRepository(gormDB)

		grouped, err := repo.FindByInvoices(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, grouped)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("groups payments by invoice", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPaymentTransactionRepository(gormDB)

		invoiceA := uuid.New()
		invoiceB := uuid.New()
		userID := uuid.New()
		paymentDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "user_id", "invoice_id", "payment_date", "amount", "source", "is_reimbursed"}).
			AddRow(uuid.New(), userID, invoiceA, paymentDate, decimal.NewFromInt(200), "hsa_direct", false).
			AddRow(uuid.New(), userID, invoiceA, paymentDate, decimal.NewFromInt(100), "out_of_pocket", false).
			AddRow(uuid.New(), userID, invoiceB, paymentDate, decimal.NewFromInt(300), "hsa_direct", false)

		mock.ExpectQuery(`SELECT \* FROM "payment_transactions" WHERE invoice_id IN .*`).
			WillReturnRows(rows)

		grouped, err := repo.FindByInvoices(context.Background(), []uuid.UUID{invoiceA, invoiceB})
		require.NoError(t, err)
		assert.Len(t, grouped[invoiceA], 2)
		assert.Len(t, grouped[invoiceB], 1)
	})
}

func TestGormHSAAccountRepository_FindAllForUser(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormHSAAccountRepository(gormDB)

	userID := uuid.New()
	opened := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "version", "account_name", "opened_date", "is_active"}).
		AddRow(uuid.New(), userID, 1, "Fidelity HSA", opened, true)

	mock.ExpectQuery(`SELECT \* FROM "hsa_accounts" WHERE user_id = \$1 ORDER BY opened_date ASC`).
		WithArgs(userID).
		WillReturnRows(rows)

	accounts, err := repo.FindAllForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Fidelity HSA", accounts[0].AccountName)
	assert.True(t, accounts[0].ActiveOn(opened.AddDate(1, 0, 0)))
}
