//go:build integration

package persistence

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	appfinance "github.com/ledgerbook/backend/internal/application/finance"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/infrastructure/config"
	"github.com/ledgerbook/backend/internal/infrastructure/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresLedger starts a disposable Postgres, applies the repository
// migrations and returns a gorm handle on it.
func newPostgresLedger(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("ledger123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Apply(sqlDB, filepath.Join("..", "..", "..", "migrations"), zap.NewNop()))
	return db
}

func newIntegrationPaymentService(db *gorm.DB) *appfinance.PaymentService {
	return appfinance.NewPaymentService(
		NewGormPaymentRepository(db),
		NewGormPayableRepository(db),
		NewGormTransactionScope(db, config.TransactionConfig{LockWait: 5 * time.Second, Timeout: 10 * time.Second}),
	)
}

func TestIntegration_ConcurrentPaymentsRespectTheBalanceCap(t *testing.T) {
	db := newPostgresLedger(t)
	ctx := context.Background()
	svc := newIntegrationPaymentService(db)
	caller := shared.NewCaller(uuid.New(), shared.RegistrationSoleProprietorship)

	sale, err := finance.NewSale(caller.UserID, "Ada Stores", decimal.NewFromInt(10000), day(2024, 3, 1))
	require.NoError(t, err)
	require.NoError(t, NewGormPayableRepository(db).Save(ctx, sale))

	const writers = 4
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordPayment(ctx, caller, appfinance.RecordPaymentCommand{
				Payable:       sale.Ref(),
				Amount:        decimal.NewFromInt(6000),
				PaymentMethod: finance.PaymentMethodCash,
				PaymentDate:   day(2024, 3, 2),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
				return
			}
			assert.ErrorIs(t, err, shared.ErrValidation)
			rejected++
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, writers-1, rejected)

	stored, err := NewGormPayableRepository(db).FindByRef(ctx, caller.UserID, sale.Ref())
	require.NoError(t, err)
	got := stored.(*finance.Sale)
	assert.True(t, got.AmountPaid.Equal(decimal.NewFromInt(6000)))
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, finance.StatusPartiallyPaid, got.Status)
}

func TestIntegration_ConcurrentSiblingEditsStayConsistent(t *testing.T) {
	db := newPostgresLedger(t)
	ctx := context.Background()
	svc := newIntegrationPaymentService(db)
	caller := shared.NewCaller(uuid.New(), shared.RegistrationLimitedCompany)

	sale, err := finance.NewSale(caller.UserID, "Ada Stores", decimal.NewFromInt(10000), day(2024, 3, 1))
	require.NoError(t, err)
	require.NoError(t, NewGormPayableRepository(db).Save(ctx, sale))

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		res, err := svc.RecordPayment(ctx, caller, appfinance.RecordPaymentCommand{
			Payable:       sale.Ref(),
			Amount:        decimal.NewFromInt(3000),
			PaymentMethod: finance.PaymentMethodBankTransfer,
			PaymentDate:   day(2024, 3, 2+i),
		})
		require.NoError(t, err)
		ids = append(ids, res.Payment.ID)
	}

	// each edit alone fits (7000 + 3000), both together would overpay
	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = svc.UpdatePayment(ctx, caller, id, appfinance.UpdatePaymentCommand{
				Amount:        decimal.NewFromInt(7000),
				PaymentMethod: finance.PaymentMethodCash,
				PaymentDate:   day(2024, 3, 5),
			})
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)

	payments, err := NewGormPaymentRepository(db).FindByPayable(ctx, caller.UserID, sale.Ref())
	require.NoError(t, err)
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}

	stored, err := NewGormPayableRepository(db).FindByRef(ctx, caller.UserID, sale.Ref())
	require.NoError(t, err)
	got := stored.(*finance.Sale)
	assert.True(t, got.AmountPaid.Equal(sum), "amountPaid %s, payments %s", got.AmountPaid, sum)
	assert.True(t, got.AmountPaid.Equal(decimal.NewFromInt(10000)))
	assert.True(t, got.Balance.IsZero())
	assert.Equal(t, finance.StatusPaid, got.Status)
}

func TestIntegration_SinglePaymentParentConstraint(t *testing.T) {
	db := newPostgresLedger(t)

	err := db.Exec(`INSERT INTO payments
		(id, user_id, amount, payment_method, payment_date, category, payable_type)
		VALUES (?, ?, 10, 'CASH', NOW(), 'INCOME', 'SALE')`, uuid.New(), uuid.New()).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chk_payments_single_parent")
}
