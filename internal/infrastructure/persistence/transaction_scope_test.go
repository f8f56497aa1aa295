package persistence

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	appfinance "github.com/ledgerbook/backend/internal/application/finance"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
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

var testTxConfig = config.TransactionConfig{
	LockWait: 2 * time.Second,
	Timeout:  5 * time.Second,
}

func TestGormTransactionScope_SetsServerSideLimits(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SET LOCAL lock_timeout = '2000ms'`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SET LOCAL statement_timeout = '5000ms'`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	scope := NewGormTransactionScope(db, testTxConfig)
	err := scope.Execute(context.Background(), func(repos appfinance.TransactionalRepositories) error {
		assert.NotNil(t, repos.Payments())
		assert.NotNil(t, repos.Payables())
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_RollsBackOnDomainError(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SET LOCAL lock_timeout`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SET LOCAL statement_timeout`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	overCap := shared.NewDomainError(shared.CodeValidation, "Amount exceeds the remaining balance. Maximum allowed amount is ₦6,000.00")
	err := NewGormTransactionScope(db, testTxConfig).Execute(context.Background(),
		func(appfinance.TransactionalRepositories) error { return overCap })

	require.Error(t, err)
	assert.Same(t, overCap, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_LockWaitBecomesTimeout(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	userID := uuid.New()
	ref := finance.PayableRef{Kind: finance.PayableSale, ID: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec(`SET LOCAL lock_timeout`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SET LOCAL statement_timeout`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE user_id = \$1 AND id = \$2 ORDER BY .* LIMIT .* FOR UPDATE`).
		WillReturnError(&pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"})
	mock.ExpectRollback()

	err := NewGormTransactionScope(db, testTxConfig).Execute(context.Background(),
		func(repos appfinance.TransactionalRepositories) error {
			_, err := repos.Payables().FindForUpdate(context.Background(), userID, ref)
			return err
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrTransactionTimeout)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_ContextDeadline(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SET LOCAL lock_timeout`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SET LOCAL statement_timeout`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	cfg := config.TransactionConfig{LockWait: 10 * time.Millisecond, Timeout: 20 * time.Millisecond}
	err := NewGormTransactionScope(db, cfg).Execute(context.Background(),
		func(appfinance.TransactionalRepositories) error {
			time.Sleep(50 * time.Millisecond)
			return errors.New("driver: bad connection after deadline")
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrTransactionTimeout)
}

func TestGormPayableRepository_FindForUpdateLocksRow(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	userID := uuid.New()
	saleID := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version", "user_id",
		"total_amount", "amount_paid", "balance", "status", "refund_amount",
		"sale_date", "customer_name",
	}).AddRow(saleID.String(), now, now, int64(3), userID.String(), "10000.00", "4000.00", "6000.00", "PARTIALLY_PAID", "0", now, "Ada Stores")

	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE user_id = \$1 AND id = \$2 ORDER BY .* LIMIT .* FOR UPDATE`).
		WillReturnRows(rows)

	repo := NewGormPayableRepository(db)
	found, err := repo.FindForUpdate(context.Background(), userID, finance.PayableRef{Kind: finance.PayableSale, ID: saleID})

	require.NoError(t, err)
	sale, ok := found.(*finance.Sale)
	require.True(t, ok)
	assert.Equal(t, finance.StatusPartiallyPaid, sale.Status)
	assert.True(t, sale.Balance.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, 3, sale.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPaymentRepository_DatabaseUnavailable(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})

	_, err := NewGormPaymentRepository(db).FindByIDForUser(context.Background(), uuid.New(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrDatabaseUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
